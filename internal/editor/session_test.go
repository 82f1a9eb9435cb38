package editor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pdf-template-designer/internal/domain"
)

// Mock implementations for session testing

type testLogger struct{}

func (l *testLogger) Info(msg string, fields ...interface{})             {}
func (l *testLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *testLogger) Debug(msg string, fields ...interface{})            {}
func (l *testLogger) Warn(msg string, fields ...interface{})             {}

type MockTemplateRepository struct {
	templates map[string]*domain.Template
	saveErr   error
	saveCalls int
}

func NewMockTemplateRepository() *MockTemplateRepository {
	return &MockTemplateRepository{templates: make(map[string]*domain.Template)}
}

func (m *MockTemplateRepository) List(ctx context.Context) ([]*domain.Template, error) {
	var templates []*domain.Template
	for _, t := range m.templates {
		templates = append(templates, t)
	}
	return templates, nil
}

func (m *MockTemplateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	if t, exists := m.templates[id]; exists {
		clone := t.Clone()
		return &clone, nil
	}
	return nil, domain.ErrTemplateNotFound
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	m.templates[template.ID] = template
	return nil
}

func (m *MockTemplateRepository) Update(ctx context.Context, template *domain.Template) error {
	if _, exists := m.templates[template.ID]; !exists {
		return domain.ErrTemplateNotFound
	}
	m.templates[template.ID] = template
	return nil
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id string) error {
	delete(m.templates, id)
	return nil
}

func (m *MockTemplateRepository) SavePages(ctx context.Context, id string, pages []domain.Page) (*domain.Template, error) {
	m.saveCalls++
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	t, exists := m.templates[id]
	if !exists {
		return nil, domain.ErrTemplateNotFound
	}
	t.Pages = domain.ClonePages(pages)
	t.UpdatedAt = time.Now()
	clone := t.Clone()
	return &clone, nil
}

// MockPageRenderer reports an 800x1100 page scaled by the zoom factor.
type MockPageRenderer struct {
	pageCount   int
	renderErr   error
	renderCalls int
}

func (m *MockPageRenderer) RenderPage(ctx context.Context, ref string, pageNumber int, scale float64) (*domain.PageRaster, error) {
	m.renderCalls++
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	return &domain.PageRaster{
		PageNumber: pageNumber,
		Width:      800 * scale,
		Height:     1100 * scale,
	}, nil
}

func (m *MockPageRenderer) PageCount(ctx context.Context, ref string) (int, error) {
	return m.pageCount, nil
}

func newTestSession(t *testing.T) (*Session, *MockTemplateRepository, *MockPageRenderer) {
	t.Helper()
	repo := NewMockTemplateRepository()
	repo.templates["tpl-1"] = &domain.Template{
		ID:     "tpl-1",
		Name:   "Employment contract",
		PDFRef: "contract.pdf",
		Pages:  []domain.Page{{Num: 1, Fields: []domain.Field{}}},
	}
	renderer := &MockPageRenderer{pageCount: 2}
	session := NewSession(repo, renderer, &testLogger{}, 0)
	if err := session.Load(context.Background(), "tpl-1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return session, repo, renderer
}

func TestLoadNotFound(t *testing.T) {
	repo := NewMockTemplateRepository()
	session := NewSession(repo, &MockPageRenderer{pageCount: 1}, &testLogger{}, 0)

	var errorEvents int
	session.Subscribe(func(e Event) {
		if e.Kind == EventError {
			errorEvents++
		}
	})

	err := session.Load(context.Background(), "missing")
	if !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("Expected ErrTemplateNotFound, got %v", err)
	}
	if errorEvents != 1 {
		t.Errorf("Expected one error notification, got %d", errorEvents)
	}
}

func TestLoadAlignsPagesWithPDF(t *testing.T) {
	session, _, _ := newTestSession(t)

	// PDF reports 2 pages, field data has 1: page 2 is synthesized.
	pages := session.Pages()
	if len(pages) != 2 {
		t.Fatalf("Expected 2 aligned pages, got %d", len(pages))
	}
	if pages[1].Num != 2 || len(pages[1].Fields) != 0 {
		t.Errorf("Page 2 should be empty, got %+v", pages[1])
	}
	if session.TotalPages() != 2 {
		t.Errorf("Expected 2 total pages, got %d", session.TotalPages())
	}
}

func TestAddFieldBeforeLoadIsRejected(t *testing.T) {
	session := NewSession(NewMockTemplateRepository(), &MockPageRenderer{pageCount: 1}, &testLogger{}, 0)

	var stateEvents int
	session.Subscribe(func(e Event) {
		if e.Kind == EventStateChanged {
			stateEvents++
		}
	})

	if field := session.AddField(domain.FieldTypeText, nil); field != nil {
		t.Fatalf("AddField without a loaded page should return nil, got %+v", field)
	}
	if session.CanUndo() {
		t.Error("Rejected add must not record history")
	}
	if stateEvents != 0 {
		t.Errorf("Rejected add must not notify, got %d events", stateEvents)
	}
}

func TestAddDragUndoScenario(t *testing.T) {
	session, _, _ := newTestSession(t)

	field := session.AddField(domain.FieldTypeText, &Point{X: 50, Y: 50})

	pages := session.Pages()
	if len(pages[0].Fields) != 1 {
		t.Fatalf("Expected 1 field after add, got %d", len(pages[0].Fields))
	}
	added := pages[0].Fields[0]
	if added.X != 50 || added.Y != 50 || added.Width != 180 || added.Height != 40 {
		t.Errorf("Unexpected geometry: (%g, %g) %gx%g", added.X, added.Y, added.Width, added.Height)
	}
	if session.SelectedFieldID() != field.ID {
		t.Errorf("New field should be selected, got %q", session.SelectedFieldID())
	}

	// Drag by screen delta (+20, 0). The field's screen frame starts at
	// y=1010 on the 800x1100 surface.
	canvas := session.Canvas()
	canvas.PointerDown(Point{X: 60, Y: 1030})
	canvas.PointerMove(Point{X: 80, Y: 1030})
	canvas.PointerUp(Point{X: 80, Y: 1030})

	moved := session.Pages()[0].Fields[0]
	if moved.X != 70 || moved.Y != 50 {
		t.Errorf("Expected (70, 50) after drag, got (%g, %g)", moved.X, moved.Y)
	}

	if !session.Undo() {
		t.Fatal("Undo should succeed")
	}
	reverted := session.Pages()[0].Fields[0]
	if reverted.X != 50 || reverted.Y != 50 {
		t.Errorf("Expected (50, 50) after undo, got (%g, %g)", reverted.X, reverted.Y)
	}
	if len(session.Pages()[0].Fields) != 1 {
		t.Errorf("Field list length changed across undo")
	}
}

func TestUndoRedoInverseAcrossMutations(t *testing.T) {
	session, _, _ := newTestSession(t)

	session.AddField(domain.FieldTypeText, &Point{X: 10, Y: 10})
	session.AddField(domain.FieldTypeImage, &Point{X: 100, Y: 100})
	before, _ := json.Marshal(session.Pages())

	field := session.Pages()[0].Fields[0]
	field.X = 300
	if err := session.UpdateField(field); err != nil {
		t.Fatalf("UpdateField failed: %v", err)
	}
	session.DeleteField(session.Pages()[0].Fields[1].ID)
	after, _ := json.Marshal(session.Pages())

	session.Undo()
	session.Undo()
	restored, _ := json.Marshal(session.Pages())
	if string(restored) != string(before) {
		t.Errorf("Two undos should restore the pre-mutation state")
	}

	session.Redo()
	session.Redo()
	replayed, _ := json.Marshal(session.Pages())
	if string(replayed) != string(after) {
		t.Errorf("Two redos should restore the post-mutation state")
	}
}

func TestRedoInvalidatedByNewMutation(t *testing.T) {
	session, _, _ := newTestSession(t)

	session.AddField(domain.FieldTypeText, nil)
	session.Undo()
	if !session.CanRedo() {
		t.Fatal("Redo should be available after undo")
	}

	session.AddField(domain.FieldTypeImage, nil)
	if session.CanRedo() {
		t.Error("New mutation should invalidate redo")
	}
	if session.Redo() {
		t.Error("Redo should report nothing to do")
	}
}

func TestLockedFieldImmutability(t *testing.T) {
	session, _, _ := newTestSession(t)

	field := session.AddField(domain.FieldTypeText, &Point{X: 40, Y: 40})
	locked := *field
	locked.Locked = true
	if err := session.UpdateField(locked); err != nil {
		t.Fatalf("Locking failed: %v", err)
	}
	before, _ := json.Marshal(session.Pages())

	moved := locked
	moved.X = 500
	if err := session.UpdateField(moved); !errors.Is(err, domain.ErrFieldLocked) {
		t.Errorf("Expected ErrFieldLocked for geometry change, got %v", err)
	}

	styled := locked
	styled.Color = "#00ff00"
	if err := session.UpdateField(styled); !errors.Is(err, domain.ErrFieldLocked) {
		t.Errorf("Expected ErrFieldLocked for style change, got %v", err)
	}

	if err := session.DeleteField(locked.ID); !errors.Is(err, domain.ErrFieldLocked) {
		t.Errorf("Expected ErrFieldLocked for delete, got %v", err)
	}

	after, _ := json.Marshal(session.Pages())
	if string(before) != string(after) {
		t.Error("Rejected mutations must leave state unchanged")
	}

	// The value override stays editable while locked.
	valued := locked
	valued.SetValue("typed into locked field")
	if err := session.UpdateField(valued); err != nil {
		t.Errorf("Value edit on locked field should be allowed, got %v", err)
	}

	// Unlocking is allowed, after which geometry moves again.
	unlocked := session.Pages()[0].Fields[0]
	unlocked.Locked = false
	if err := session.UpdateField(unlocked); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	unlocked = session.Pages()[0].Fields[0]
	unlocked.X = 500
	if err := session.UpdateField(unlocked); err != nil {
		t.Errorf("Move after unlock failed: %v", err)
	}
}

func TestExportImportRoundTripThroughSession(t *testing.T) {
	session, _, _ := newTestSession(t)

	session.AddField(domain.FieldTypeText, &Point{X: 50, Y: 50})
	session.AddField(domain.FieldTypeImage, &Point{X: 200, Y: 300})
	want, _ := json.Marshal(session.Pages())

	data, err := session.ExportJSON()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if err := session.ImportJSON(data); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	got, _ := json.Marshal(session.Pages())
	if string(want) != string(got) {
		t.Errorf("Round trip mismatch:\nwant %s\ngot  %s", want, got)
	}
	// Import resets history to a fresh baseline snapshot.
	if session.CanRedo() {
		t.Error("Redo should be empty after import")
	}
}

func TestImportMalformedLeavesStateUntouched(t *testing.T) {
	session, _, _ := newTestSession(t)
	session.AddField(domain.FieldTypeText, &Point{X: 50, Y: 50})
	before, _ := json.Marshal(session.Pages())

	var errorEvents int
	session.Subscribe(func(e Event) {
		if e.Kind == EventError {
			errorEvents++
		}
	})

	err := session.ImportJSON([]byte(`{"foo": 1}`))
	if !errors.Is(err, domain.ErrImportInvalid) {
		t.Fatalf("Expected ErrImportInvalid, got %v", err)
	}
	if errorEvents != 1 {
		t.Errorf("Expected one error notification, got %d", errorEvents)
	}

	after, _ := json.Marshal(session.Pages())
	if string(before) != string(after) {
		t.Error("Failed import must not change state")
	}
}

func TestSelectPageClampsAndClearsSelection(t *testing.T) {
	session, _, _ := newTestSession(t)
	session.AddField(domain.FieldTypeText, nil)

	session.SelectPage(context.Background(), 99)
	if session.CurrentPage() != 2 {
		t.Errorf("Expected clamp to page 2, got %d", session.CurrentPage())
	}
	if session.SelectedFieldID() != "" {
		t.Error("Page change should clear the field selection")
	}

	session.SelectPage(context.Background(), -5)
	if session.CurrentPage() != 1 {
		t.Errorf("Expected clamp to page 1, got %d", session.CurrentPage())
	}
}

func TestSetZoomClampsAndPreservesDocumentData(t *testing.T) {
	session, _, _ := newTestSession(t)
	session.AddField(domain.FieldTypeText, &Point{X: 50, Y: 50})

	session.SetZoom(context.Background(), 10)
	if session.Zoom() != 2 {
		t.Errorf("Expected zoom clamped to 2, got %g", session.Zoom())
	}
	session.SetZoom(context.Background(), 0.01)
	if session.Zoom() != 0.25 {
		t.Errorf("Expected zoom clamped to 0.25, got %g", session.Zoom())
	}

	field := session.Pages()[0].Fields[0]
	if field.X != 50 || field.Y != 50 || field.Width != 180 {
		t.Errorf("Zoom changed document-space data: %+v", field)
	}
}

func TestZoomSteps(t *testing.T) {
	session, _, _ := newTestSession(t)
	ctx := context.Background()

	session.ZoomIn(ctx)
	if session.Zoom() != 1.25 {
		t.Errorf("Expected zoom 1.25 after step in, got %g", session.Zoom())
	}
	session.ZoomOut(ctx)
	session.ZoomOut(ctx)
	if session.Zoom() != 0.75 {
		t.Errorf("Expected zoom 0.75 after stepping out twice, got %g", session.Zoom())
	}

	// Stepping past either end is a no-op.
	session.SetZoom(ctx, 2)
	session.ZoomIn(ctx)
	if session.Zoom() != 2 {
		t.Errorf("Expected zoom pinned at 2, got %g", session.Zoom())
	}
	session.SetZoom(ctx, 0.5)
	session.ZoomOut(ctx)
	if session.Zoom() != 0.5 {
		t.Errorf("Expected zoom pinned at 0.5, got %g", session.Zoom())
	}
}

func TestStaleRenderDiscarded(t *testing.T) {
	session, _, _ := newTestSession(t)

	gen1, _, _ := session.StartRender()
	gen2, page, zoom := session.StartRender()

	stale := &domain.PageRaster{PageNumber: page, Width: 1, Height: 1}
	if session.CompleteRender(gen1, stale) {
		t.Error("Stale render completion should be discarded")
	}

	fresh := &domain.PageRaster{PageNumber: page, Width: 800 * zoom, Height: 1100 * zoom}
	if !session.CompleteRender(gen2, fresh) {
		t.Error("Current render completion should be applied")
	}
	if session.Raster() != fresh {
		t.Error("Applied raster should be the fresh one")
	}
}

func TestStaleSaveDiscarded(t *testing.T) {
	session, _, _ := newTestSession(t)

	seq1 := session.StartSave()
	seq2 := session.StartSave()

	newer := &domain.Template{ID: "tpl-1", Name: "newer"}
	older := &domain.Template{ID: "tpl-1", Name: "older"}

	if err := session.CompleteSave(seq2, newer, nil); err != nil {
		t.Fatalf("Newer save failed: %v", err)
	}
	if err := session.CompleteSave(seq1, older, nil); err != nil {
		t.Fatalf("Stale save should be silently discarded, got %v", err)
	}
	if session.Template().Name != "newer" {
		t.Errorf("Stale save overwrote newer state: %q", session.Template().Name)
	}
}

func TestStaleSaveFailureSilenced(t *testing.T) {
	session, _, _ := newTestSession(t)

	seq1 := session.StartSave()
	seq2 := session.StartSave()

	var errorEvents int
	session.Subscribe(func(e Event) {
		if e.Kind == EventError {
			errorEvents++
		}
	})

	newer := &domain.Template{ID: "tpl-1", Name: "newer"}
	if err := session.CompleteSave(seq2, newer, nil); err != nil {
		t.Fatalf("Newer save failed: %v", err)
	}
	if err := session.CompleteSave(seq1, nil, errors.New("connection reset")); err != nil {
		t.Fatalf("Stale save failure should be silently discarded, got %v", err)
	}
	if errorEvents != 0 {
		t.Errorf("Stale save failure must not surface an error, got %d", errorEvents)
	}
	if session.Template().Name != "newer" {
		t.Errorf("Stale save failure disturbed applied state: %q", session.Template().Name)
	}
}

func TestSaveFailureKeepsEdits(t *testing.T) {
	session, repo, _ := newTestSession(t)
	session.AddField(domain.FieldTypeText, &Point{X: 50, Y: 50})

	repo.saveErr = errors.New("connection reset")
	err := session.Save(context.Background())
	if !errors.Is(err, domain.ErrSaveFailed) {
		t.Fatalf("Expected ErrSaveFailed, got %v", err)
	}
	if len(session.Pages()[0].Fields) != 1 {
		t.Error("In-memory edits must survive a save failure")
	}

	repo.saveErr = nil
	if err := session.Save(context.Background()); err != nil {
		t.Fatalf("Retried save failed: %v", err)
	}
	stored := repo.templates["tpl-1"]
	if len(stored.Pages[0].Fields) != 1 {
		t.Error("Retried save did not persist the edits")
	}
}

func TestDuplicateFieldNudgesAndSelects(t *testing.T) {
	session, _, _ := newTestSession(t)
	field := session.AddField(domain.FieldTypeText, &Point{X: 50, Y: 50})

	clone, err := session.DuplicateField(field.ID)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if clone.ID == field.ID {
		t.Error("Clone must get a fresh id")
	}
	if clone.X != 60 || clone.Y != 60 {
		t.Errorf("Expected nudge to (60, 60), got (%g, %g)", clone.X, clone.Y)
	}
	if session.SelectedFieldID() != clone.ID {
		t.Error("Clone should be selected")
	}
	if len(session.Pages()[0].Fields) != 2 {
		t.Errorf("Expected 2 fields, got %d", len(session.Pages()[0].Fields))
	}
}

func TestDuplicatePage(t *testing.T) {
	session, _, _ := newTestSession(t)
	session.AddField(domain.FieldTypeText, &Point{X: 50, Y: 50})

	session.DuplicatePage(context.Background())
	pages := session.Pages()
	if len(pages) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(pages))
	}
	if session.CurrentPage() != 3 {
		t.Errorf("Expected navigation to the new page, got %d", session.CurrentPage())
	}
	if len(pages[2].Fields) != 1 {
		t.Fatalf("Duplicated page should carry the fields")
	}
	if pages[2].Fields[0].ID == pages[0].Fields[0].ID {
		t.Error("Duplicated fields must get fresh ids")
	}
}

func TestClearPage(t *testing.T) {
	session, _, _ := newTestSession(t)
	session.AddField(domain.FieldTypeText, nil)
	session.AddField(domain.FieldTypeImage, nil)

	session.ClearPage()
	if len(session.Pages()[0].Fields) != 0 {
		t.Error("ClearPage should remove all fields")
	}

	session.Undo()
	if len(session.Pages()[0].Fields) != 2 {
		t.Error("Undo should restore the cleared fields")
	}
}

func TestShortcuts(t *testing.T) {
	session, repo, _ := newTestSession(t)
	ctx := context.Background()
	session.AddField(domain.FieldTypeText, &Point{X: 50, Y: 50})

	if !session.HandleShortcut(ctx, Shortcut{Key: "s", Ctrl: true}) {
		t.Error("Ctrl+S should be handled")
	}
	if repo.saveCalls != 1 {
		t.Errorf("Expected one save call, got %d", repo.saveCalls)
	}

	if !session.HandleShortcut(ctx, Shortcut{Key: "z", Ctrl: true}) {
		t.Error("Ctrl+Z should be handled")
	}
	if len(session.Pages()[0].Fields) != 0 {
		t.Error("Ctrl+Z should undo the add")
	}

	if !session.HandleShortcut(ctx, Shortcut{Key: "Z", Meta: true, Shift: true}) {
		t.Error("Cmd+Shift+Z should be handled")
	}
	if len(session.Pages()[0].Fields) != 1 {
		t.Error("Cmd+Shift+Z should redo the add")
	}

	id := session.Pages()[0].Fields[0].ID
	session.Canvas().Select(id)
	if !session.HandleShortcut(ctx, Shortcut{Key: "Delete"}) {
		t.Error("Delete should be handled with a selection")
	}
	if len(session.Pages()[0].Fields) != 0 {
		t.Error("Delete should remove the selected field")
	}
}
