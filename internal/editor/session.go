package editor

import (
	"context"
	"fmt"
	"math"

	"pdf-template-designer/internal/domain"

	"github.com/google/uuid"
)

// Session zoom bounds and defaults.
const (
	sessionMinZoom = 0.25
	sessionMaxZoom = 2.0

	// Default document-space page size used until a render reports real
	// dimensions (US Letter in PDF points).
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0

	// New fields land here when no position is given.
	defaultFieldX = 120.0
	defaultFieldY = 120.0

	// Duplicated fields are nudged by this offset.
	duplicateNudge = 10.0
)

// EventKind classifies session notifications.
type EventKind string

const (
	// EventStateChanged signals that pages, selection, zoom or the page
	// raster changed and subscribers should re-read session state.
	EventStateChanged EventKind = "state_changed"
	// EventNotice carries a user-visible, non-error message.
	EventNotice EventKind = "notice"
	// EventError carries a recovered, user-visible failure.
	EventError EventKind = "error"
)

// Event is a session notification delivered to subscribers.
type Event struct {
	Kind    EventKind
	Message string
	Err     error
}

// Session is the top-level state holder for one editing session: one
// loaded template, its page/field set, the current page and zoom, the
// undo/redo history and the annotation canvas. All mutations funnel
// through it so the history push always happens before the mutation it
// protects.
//
// The session is event-driven and single-threaded: callers serialize
// calls on one goroutine (typically a UI event loop). Asynchronous render
// and save completions are guarded by generation and sequence tokens so
// stale completions can never overwrite newer state.
type Session struct {
	store    domain.TemplateRepository
	renderer domain.PageRenderer
	logger   domain.Logger

	template    *domain.Template
	pages       []domain.Page
	pdfPages    int
	currentPage int
	zoom        float64

	history *History
	canvas  *Canvas
	raster  *domain.PageRaster

	renderGen int
	saveSeq   int
	saveDone  int

	subscribers []func(Event)
}

// NewSession wires a session against a template store and a page
// renderer. historyLimit <= 0 uses the default.
func NewSession(store domain.TemplateRepository, renderer domain.PageRenderer, logger domain.Logger, historyLimit int) *Session {
	s := &Session{
		store:    store,
		renderer: renderer,
		logger:   logger,
		zoom:     1,
		history:  NewHistory(historyLimit),
	}
	s.canvas = NewCanvas(s.currentTransform(), CanvasEvents{
		OnSelect:         func(string) { s.notify(EventStateChanged, "field selected", nil) },
		OnClearSelection: func() { s.notify(EventStateChanged, "selection cleared", nil) },
		OnUpdate:         func(field domain.Field) { s.UpdateField(field) },
		OnOpenLocked:     func(string) { s.notify(EventNotice, "field is locked", nil) },
	})
	return s
}

// Subscribe registers a notification callback. UI layers subscribe to
// change notifications instead of observing state implicitly.
func (s *Session) Subscribe(fn func(Event)) {
	s.subscribers = append(s.subscribers, fn)
}

// Load fetches a template from the store and initializes the session:
// pages aligned with the PDF's reported page count, history reset to a
// single snapshot of the loaded state, first page rendered.
func (s *Session) Load(ctx context.Context, id string) error {
	template, err := s.store.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load template", err, "template_id", id)
		s.notify(EventError, "template does not exist or was deleted", err)
		return fmt.Errorf("load template %s: %w", id, err)
	}

	pages := domain.ClonePages(template.Pages)
	domain.NormalizePages(pages)

	pageCount, err := s.renderer.PageCount(ctx, template.PDFRef)
	if err != nil {
		// Not fatal: the field data still defines a page list.
		s.logger.Warn("Could not read PDF page count", "pdf_ref", template.PDFRef, "error", err)
		pageCount = len(pages)
	}

	s.template = template
	s.pdfPages = pageCount
	s.pages = domain.AlignPages(pages, pageCount)
	s.currentPage = 1
	s.zoom = 1
	s.raster = nil
	s.canvas.ClearSelection()

	s.history.Reset()
	s.history.Push(s.pages)

	s.seedCanvas()
	s.notify(EventStateChanged, "template loaded", nil)

	if err := s.RenderCurrentPage(ctx); err != nil {
		// Render failures surface as a placeholder, not a load failure.
		s.logger.Warn("Initial render failed", "template_id", id, "error", err)
	}
	return nil
}

// Template returns the loaded template, or nil.
func (s *Session) Template() *domain.Template {
	return s.template
}

// Pages returns a deep copy of the session's page state.
func (s *Session) Pages() []domain.Page {
	return domain.ClonePages(s.pages)
}

// CurrentPage returns the 1-based selected page number.
func (s *Session) CurrentPage() int {
	return s.currentPage
}

// TotalPages returns the navigable page count.
func (s *Session) TotalPages() int {
	total := len(s.pages)
	if s.pdfPages > total {
		total = s.pdfPages
	}
	if total < 1 {
		total = 1
	}
	return total
}

// Zoom returns the current zoom factor.
func (s *Session) Zoom() float64 {
	return s.zoom
}

// Canvas exposes the interaction engine for the current page.
func (s *Session) Canvas() *Canvas {
	return s.canvas
}

// Raster returns the last completed render for the current page, or nil
// when none completed yet (or the last one failed).
func (s *Session) Raster() *domain.PageRaster {
	return s.raster
}

// SelectedFieldID returns the id of the selected field, or "".
func (s *Session) SelectedFieldID() string {
	return s.canvas.SelectedID()
}

// CanUndo reports whether undo is available.
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo reports whether redo is available.
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

// SelectPage navigates to a page, clamped into [1, TotalPages], clearing
// the field selection and starting a fresh render.
func (s *Session) SelectPage(ctx context.Context, num int) {
	if num < 1 {
		num = 1
	}
	if total := s.TotalPages(); num > total {
		num = total
	}
	s.currentPage = num
	s.raster = nil
	s.canvas.ClearSelection()
	s.seedCanvas()
	s.notify(EventStateChanged, "page selected", nil)

	if err := s.RenderCurrentPage(ctx); err != nil {
		s.logger.Warn("Page render failed", "page", num, "error", err)
	}
}

// NextPage navigates forward one page.
func (s *Session) NextPage(ctx context.Context) {
	if s.currentPage < s.TotalPages() {
		s.SelectPage(ctx, s.currentPage+1)
	}
}

// PreviousPage navigates back one page.
func (s *Session) PreviousPage(ctx context.Context) {
	if s.currentPage > 1 {
		s.SelectPage(ctx, s.currentPage-1)
	}
}

// SetZoom changes the zoom factor, clamped to [0.25, 2], and re-renders.
// Document-space field data is untouched.
func (s *Session) SetZoom(ctx context.Context, factor float64) {
	factor = clampFloat(factor, sessionMinZoom, sessionMaxZoom)
	if factor == s.zoom {
		return
	}
	s.zoom = factor
	s.notify(EventStateChanged, "zoom changed", nil)

	if err := s.RenderCurrentPage(ctx); err != nil {
		s.logger.Warn("Render after zoom change failed", "zoom", factor, "error", err)
	}
}

// ZoomIn steps to the next discrete zoom level.
func (s *Session) ZoomIn(ctx context.Context) {
	for _, level := range ZoomLevels {
		if level > s.zoom+1e-9 {
			s.SetZoom(ctx, level)
			return
		}
	}
}

// ZoomOut steps to the previous discrete zoom level.
func (s *Session) ZoomOut(ctx context.Context) {
	for i := len(ZoomLevels) - 1; i >= 0; i-- {
		if ZoomLevels[i] < s.zoom-1e-9 {
			s.SetZoom(ctx, ZoomLevels[i])
			return
		}
	}
}

// StartRender issues a render token for the current page and zoom. A
// completion is applied only while its token is still the latest, so a
// stale render can never overwrite newer state.
func (s *Session) StartRender() (gen int, pageNumber int, zoom float64) {
	s.renderGen++
	return s.renderGen, s.currentPage, s.zoom
}

// CompleteRender applies a finished render if its token is still
// current; stale completions are discarded.
func (s *Session) CompleteRender(gen int, raster *domain.PageRaster) bool {
	if gen != s.renderGen {
		s.logger.Debug("Discarding stale render", "gen", gen, "current", s.renderGen)
		return false
	}
	s.raster = raster
	s.seedCanvas()
	s.notify(EventStateChanged, "page rendered", nil)
	return true
}

// RenderCurrentPage renders the current page at the current zoom through
// the external raster service and applies the result.
func (s *Session) RenderCurrentPage(ctx context.Context) error {
	if s.template == nil {
		return domain.ErrTemplateNotFound
	}
	gen, pageNumber, zoom := s.StartRender()
	raster, err := s.renderer.RenderPage(ctx, s.template.PDFRef, pageNumber, zoom)
	if err != nil {
		s.notify(EventError, fmt.Sprintf("could not render page %d", pageNumber), err)
		return fmt.Errorf("%w: page %d: %v", domain.ErrRenderFailed, pageNumber, err)
	}
	s.CompleteRender(gen, raster)
	return nil
}

// AddField creates a field with type-appropriate defaults, clamped into
// the page, records history, inserts it into the current page and
// selects it. A nil position uses the default drop point. Returns nil
// when no page is loaded.
func (s *Session) AddField(fieldType domain.FieldType, at *Point) *domain.Field {
	if s.findPage(s.currentPage) == nil {
		return nil
	}
	x, y := defaultFieldX, defaultFieldY
	if at != nil {
		x, y = at.X, at.Y
	}
	field := domain.NewField(fieldType, x, y)
	pageW, pageH := s.pageSize()
	field.ClampTo(pageW, pageH)

	s.recordHistory()
	s.mutateCurrentFields(func(fields []domain.Field) []domain.Field {
		return append(fields, field)
	})
	s.canvas.Select(field.ID)
	s.notify(EventStateChanged, "field added", nil)
	return &field
}

// UpdateField replaces the field with a matching id on the current page.
// Geometry and style of locked fields are immutable; only the text value
// override and the locked flag itself may change while locked.
func (s *Session) UpdateField(updated domain.Field) error {
	existing := s.findField(updated.ID)
	if existing == nil {
		return domain.ErrFieldNotFound
	}
	if existing.Locked && lockedFieldViolation(*existing, updated) {
		s.notify(EventNotice, "field is locked", nil)
		return domain.ErrFieldLocked
	}

	updated = updated.Clone()
	updated.Normalize()
	pageW, pageH := s.pageSize()
	updated.ClampTo(pageW, pageH)

	s.recordHistory()
	s.mutateCurrentFields(func(fields []domain.Field) []domain.Field {
		for i := range fields {
			if fields[i].ID == updated.ID {
				fields[i] = updated
			}
		}
		return fields
	})
	s.canvas.Select(updated.ID)
	s.notify(EventStateChanged, "field updated", nil)
	return nil
}

// DeleteField removes a field from the current page and clears the
// selection if it pointed at the removed field. Locked fields cannot be
// deleted.
func (s *Session) DeleteField(id string) error {
	existing := s.findField(id)
	if existing == nil {
		return domain.ErrFieldNotFound
	}
	if existing.Locked {
		s.notify(EventNotice, "field is locked", nil)
		return domain.ErrFieldLocked
	}

	s.recordHistory()
	s.mutateCurrentFields(func(fields []domain.Field) []domain.Field {
		kept := fields[:0]
		for _, field := range fields {
			if field.ID != id {
				kept = append(kept, field)
			}
		}
		return kept
	})
	if s.canvas.SelectedID() == id {
		s.canvas.ClearSelection()
	}
	s.notify(EventStateChanged, "field deleted", nil)
	return nil
}

// DuplicateField clones a field under a new id, nudged and clamped, and
// selects the clone.
func (s *Session) DuplicateField(id string) (*domain.Field, error) {
	existing := s.findField(id)
	if existing == nil {
		return nil, domain.ErrFieldNotFound
	}

	clone := existing.Clone()
	clone.ID = uuid.NewString()
	clone.X += duplicateNudge
	clone.Y += duplicateNudge
	pageW, pageH := s.pageSize()
	clone.ClampTo(pageW, pageH)

	s.recordHistory()
	s.mutateCurrentFields(func(fields []domain.Field) []domain.Field {
		return append(fields, clone)
	})
	s.canvas.Select(clone.ID)
	s.notify(EventStateChanged, "field duplicated", nil)
	return &clone, nil
}

// DuplicatePage appends a copy of the current page (fields re-keyed
// under fresh ids) as a new page and navigates to it.
func (s *Session) DuplicatePage(ctx context.Context) {
	page := s.findPage(s.currentPage)
	if page == nil {
		return
	}
	clone := page.Clone()
	clone.Num = len(s.pages) + 1
	for i := range clone.Fields {
		clone.Fields[i].ID = uuid.NewString()
	}

	s.recordHistory()
	s.pages = append(s.pages, clone)
	s.notify(EventStateChanged, "page duplicated", nil)
	s.SelectPage(ctx, clone.Num)
}

// ClearPage removes every field from the current page.
func (s *Session) ClearPage() {
	page := s.findPage(s.currentPage)
	if page == nil || len(page.Fields) == 0 {
		return
	}
	s.recordHistory()
	s.mutateCurrentFields(func([]domain.Field) []domain.Field {
		return []domain.Field{}
	})
	s.canvas.ClearSelection()
	s.notify(EventStateChanged, "page cleared", nil)
}

// Undo replaces the whole page state with the previous snapshot.
func (s *Session) Undo() bool {
	state := s.history.Undo(s.pages)
	if state == nil {
		return false
	}
	s.replacePages(state)
	s.notify(EventStateChanged, "undo", nil)
	return true
}

// Redo replaces the whole page state with the next snapshot.
func (s *Session) Redo() bool {
	state := s.history.Redo(s.pages)
	if state == nil {
		return false
	}
	s.replacePages(state)
	s.notify(EventStateChanged, "redo", nil)
	return true
}

// ExportJSON serializes the page/field set to the wire shape.
func (s *Session) ExportJSON() ([]byte, error) {
	return domain.ExportPages(s.pages)
}

// ImportJSON parses a pasted payload and, when valid, replaces the whole
// page state and resets history to a fresh baseline. On failure the
// session state is left untouched.
func (s *Session) ImportJSON(data []byte) error {
	pages, err := domain.ParseImport(data)
	if err != nil {
		s.notify(EventError, "could not import JSON", err)
		return err
	}

	s.pages = domain.AlignPages(pages, s.pdfPages)
	if s.currentPage > s.TotalPages() {
		s.currentPage = s.TotalPages()
	}
	s.canvas.ClearSelection()
	s.history.Reset()
	s.history.Push(s.pages)
	s.seedCanvas()
	s.notify(EventNotice, "coordinates applied", nil)
	return nil
}

// Save pushes the current page/field set to the template store. In-memory
// edits survive a failure; the user retries the save, not the edits.
// Completions are ordered by issue sequence: a save resolving after a
// newer one has been applied is discarded.
func (s *Session) Save(ctx context.Context) error {
	if s.template == nil {
		return domain.ErrTemplateNotFound
	}
	seq := s.StartSave()
	updated, err := s.store.SavePages(ctx, s.template.ID, domain.ClonePages(s.pages))
	return s.CompleteSave(seq, updated, err)
}

// StartSave issues a save sequence number.
func (s *Session) StartSave() int {
	s.saveSeq++
	return s.saveSeq
}

// CompleteSave applies a finished save. Stale completions (an older save
// resolving after a newer one was applied) are discarded so last write
// wins by issue order, not completion order.
func (s *Session) CompleteSave(seq int, updated *domain.Template, err error) error {
	if seq <= s.saveDone {
		s.logger.Debug("Discarding stale save completion", "seq", seq, "applied", s.saveDone)
		return nil
	}
	if err != nil {
		s.logger.Error("Template save failed", err, "template_id", s.template.ID, "seq", seq)
		s.notify(EventError, "could not save template", err)
		return fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}
	s.saveDone = seq
	if updated != nil {
		s.template = updated
	}
	s.notify(EventNotice, "template saved", nil)
	return nil
}

func (s *Session) recordHistory() {
	s.history.Push(s.pages)
}

func (s *Session) replacePages(pages []domain.Page) {
	s.pages = pages
	if s.currentPage > s.TotalPages() {
		s.currentPage = s.TotalPages()
	}
	s.seedCanvas()
}

func (s *Session) seedCanvas() {
	s.canvas.SetTransform(s.currentTransform())
	if page := s.findPage(s.currentPage); page != nil {
		s.canvas.SetFields(page.Fields)
	} else {
		s.canvas.SetFields(nil)
	}
}

func (s *Session) currentTransform() Transform {
	if s.raster != nil {
		return NewTransform(s.zoom, s.raster.Width, s.raster.Height)
	}
	return NewTransform(s.zoom, defaultPageWidth*s.zoom, defaultPageHeight*s.zoom)
}

// pageSize returns the current page's document-space dimensions.
func (s *Session) pageSize() (float64, float64) {
	t := s.currentTransform()
	return t.PageWidth(), t.PageHeight()
}

func (s *Session) findPage(num int) *domain.Page {
	for i := range s.pages {
		if s.pages[i].Num == num {
			return &s.pages[i]
		}
	}
	return nil
}

func (s *Session) findField(id string) *domain.Field {
	page := s.findPage(s.currentPage)
	if page == nil {
		return nil
	}
	for i := range page.Fields {
		if page.Fields[i].ID == id {
			return &page.Fields[i]
		}
	}
	return nil
}

func (s *Session) mutateCurrentFields(mutate func([]domain.Field) []domain.Field) {
	page := s.findPage(s.currentPage)
	if page == nil {
		return
	}
	page.Fields = mutate(page.Fields)
	s.seedCanvas()
}

func (s *Session) notify(kind EventKind, message string, err error) {
	for _, fn := range s.subscribers {
		fn(Event{Kind: kind, Message: message, Err: err})
	}
}

// lockedFieldViolation reports whether an update touches anything a
// locked field protects. Only the value override and the locked flag
// itself may change while locked.
func lockedFieldViolation(existing, updated domain.Field) bool {
	allowed := existing.Clone()
	allowed.Value = updated.Value
	allowed.Locked = updated.Locked

	return updated.Type != allowed.Type ||
		!floatsEqual(updated.X, allowed.X) ||
		!floatsEqual(updated.Y, allowed.Y) ||
		!floatsEqual(updated.Width, allowed.Width) ||
		!floatsEqual(updated.Height, allowed.Height) ||
		updated.MapField != allowed.MapField ||
		!floatsEqual(updated.FontSize, allowed.FontSize) ||
		updated.Color != allowed.Color ||
		updated.FontFamily != allowed.FontFamily ||
		!floatsEqual(updated.Opacity, allowed.Opacity) ||
		updated.BackgroundColor != allowed.BackgroundColor ||
		updated.Hidden != allowed.Hidden ||
		updated.Multiline != allowed.Multiline
}

func floatsEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
