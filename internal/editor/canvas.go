package editor

import (
	"math"
	"strings"

	"pdf-template-designer/internal/domain"
)

// dragThreshold is the cumulative screen-space displacement, in pixels,
// below which a press-release pair counts as a click rather than a drag.
const dragThreshold = 3.0

// snapGridStep is the document-space grid pitch used when snapping is on.
const snapGridStep = 10.0

// CanvasEvents are the callbacks through which the canvas proposes
// mutations. The canvas never commits state itself; the session
// controller owns the field list and applies (and records) changes.
// Exactly one OnUpdate fires per completed gesture.
type CanvasEvents struct {
	// OnSelect fires when a field becomes selected.
	OnSelect func(fieldID string)
	// OnClearSelection fires when a click on empty canvas clears the
	// current selection.
	OnClearSelection func()
	// OnUpdate proposes a committed field mutation (position, size or
	// value) at the end of a gesture.
	OnUpdate func(field domain.Field)
	// OnOpenLocked fires when a locked field is clicked: the field opens
	// for viewing but accepts no geometry mutation.
	OnOpenLocked func(fieldID string)
}

type gestureKind int

const (
	gestureIdle gestureKind = iota
	gesturePressedOnField
	gestureDragging
	gesturePressedOnEmpty
	gestureResizing
)

// editState is an in-flight inline text edit. Literal text entry is
// delegated to the host platform's native input widget; the canvas
// tracks the buffer and the commit/cancel lifecycle.
type editState struct {
	fieldID   string
	buffer    string
	multiline bool
}

// Canvas is the interaction engine for one rendered page: it hit-tests
// pointer gestures against the visible fields, disambiguates clicks from
// drags, runs the resize handles of the selected field and hosts inline
// text edits. It holds a private copy of the page's fields; committed
// mutations flow out through CanvasEvents and the session feeds the
// authoritative list back in with SetFields.
type Canvas struct {
	transform  Transform
	fields     []domain.Field
	selectedID string
	snapToGrid bool
	events     CanvasEvents

	gesture     gestureKind
	activeID    string
	pressScreen Point
	grabOffset  Point
	livePos     Point
	moved       bool

	resizeHandle  HandlePosition
	resizeAnchor  Point
	resizePointer Point

	edit *editState
}

// NewCanvas creates a canvas for a page surface described by the
// transform.
func NewCanvas(transform Transform, events CanvasEvents) *Canvas {
	return &Canvas{transform: transform, events: events}
}

// SetFields replaces the canvas's working copy of the page's fields.
// Any in-flight gesture is abandoned.
func (c *Canvas) SetFields(fields []domain.Field) {
	c.fields = make([]domain.Field, len(fields))
	for i, field := range fields {
		c.fields[i] = field.Clone()
	}
	c.resetGesture()
	if c.selectedID != "" && c.fieldByID(c.selectedID) == nil {
		c.selectedID = ""
	}
}

// SetTransform updates the page surface dimensions and zoom, e.g. after
// a re-render at a new zoom level.
func (c *Canvas) SetTransform(transform Transform) {
	c.transform = transform
	c.resetGesture()
}

// SetSnapToGrid toggles snapping of dragged fields to a coarse grid.
func (c *Canvas) SetSnapToGrid(enabled bool) {
	c.snapToGrid = enabled
}

// SelectedID returns the id of the selected field, or "".
func (c *Canvas) SelectedID() string {
	return c.selectedID
}

// Select marks a field as selected without emitting events; the session
// uses it after add/duplicate operations.
func (c *Canvas) Select(fieldID string) {
	c.selectedID = fieldID
}

// ClearSelection drops the selection without emitting events.
func (c *Canvas) ClearSelection() {
	c.selectedID = ""
}

// PointerDown starts a gesture at a screen point. An open inline edit is
// committed first (pressing elsewhere is a blur).
func (c *Canvas) PointerDown(p Point) {
	if c.edit != nil {
		c.CommitEdit()
	}

	if c.gesture != gestureIdle {
		return
	}
	c.pressScreen = p
	c.moved = false

	if handle, ok := c.handleAt(p); ok {
		field := c.fieldByID(c.selectedID)
		if field != nil && !field.Locked {
			c.gesture = gestureResizing
			c.activeID = field.ID
			c.resizeHandle = handle
			c.resizeAnchor = c.anchorFor(*field, handle)
			return
		}
	}

	field := c.fieldAt(p)
	if field == nil {
		c.gesture = gesturePressedOnEmpty
		return
	}

	c.selectedID = field.ID
	if c.events.OnSelect != nil {
		c.events.OnSelect(field.ID)
	}

	if field.Locked {
		// Locked fields open for viewing and never enter a drag.
		if c.events.OnOpenLocked != nil {
			c.events.OnOpenLocked(field.ID)
		}
		return
	}

	doc := c.transform.ToDocument(p)
	c.gesture = gesturePressedOnField
	c.activeID = field.ID
	c.grabOffset = Point{X: doc.X - field.X, Y: doc.Y - field.Y}
	c.livePos = Point{X: field.X, Y: field.Y}
}

// PointerMove advances an in-flight gesture. Movement is visual only;
// no mutation is emitted until PointerUp.
func (c *Canvas) PointerMove(p Point) {
	switch c.gesture {
	case gesturePressedOnField:
		if c.displacement(p) > dragThreshold {
			c.gesture = gestureDragging
			c.moved = true
		}
		if c.gesture != gestureDragging {
			return
		}
		fallthrough
	case gestureDragging:
		field := c.fieldByID(c.activeID)
		if field == nil {
			c.resetGesture()
			return
		}
		c.livePos = c.dragPosition(p, *field)
	case gestureResizing:
		c.moved = true
		c.resizePointer = p
	default:
	}
}

// PointerUp ends the gesture: a short press resolves to a click
// (selection), a drag commits one position update, a resize commits one
// size update.
func (c *Canvas) PointerUp(p Point) {
	defer c.resetGesture()

	switch c.gesture {
	case gesturePressedOnField:
		// Click: selection already happened on PointerDown.
	case gestureDragging:
		field := c.fieldByID(c.activeID)
		if field == nil {
			return
		}
		pos := c.dragPosition(p, *field)
		updated := field.Clone()
		updated.X = pos.X
		updated.Y = pos.Y
		c.applyLocal(updated)
		if c.events.OnUpdate != nil {
			c.events.OnUpdate(updated)
		}
	case gestureResizing:
		field := c.fieldByID(c.activeID)
		if field == nil || !c.moved {
			return
		}
		updated := c.resizedField(*field, p)
		c.applyLocal(updated)
		if c.events.OnUpdate != nil {
			c.events.OnUpdate(updated)
		}
	case gesturePressedOnEmpty:
		if c.displacement(p) <= dragThreshold {
			c.selectedID = ""
			if c.events.OnClearSelection != nil {
				c.events.OnClearSelection()
			}
		}
	}
}

// DoubleClick opens an inline text edit over the field at the point.
// Locked fields still accept a value edit; everything else about them
// stays immutable.
func (c *Canvas) DoubleClick(p Point) {
	field := c.fieldAt(p)
	if field == nil {
		return
	}
	c.selectedID = field.ID
	c.edit = &editState{
		fieldID:   field.ID,
		buffer:    field.DisplayText(),
		multiline: field.Multiline,
	}
}

// Editing returns the id of the field being inline-edited, or "".
func (c *Canvas) Editing() string {
	if c.edit == nil {
		return ""
	}
	return c.edit.fieldID
}

// SetEditText replaces the edit buffer; the host's native text widget
// forwards its content here.
func (c *Canvas) SetEditText(text string) {
	if c.edit != nil {
		c.edit.buffer = text
	}
}

// EditText returns the current edit buffer.
func (c *Canvas) EditText() string {
	if c.edit == nil {
		return ""
	}
	return c.edit.buffer
}

// PressEnter commits a single-line edit; in a multiline field it inserts
// a newline instead, leaving the commit to an explicit blur.
func (c *Canvas) PressEnter() {
	if c.edit == nil {
		return
	}
	if c.edit.multiline {
		c.edit.buffer += "\n"
		return
	}
	c.CommitEdit()
}

// PressEscape cancels the edit, discarding the buffer.
func (c *Canvas) PressEscape() {
	c.edit = nil
}

// Blur commits the open edit, if any.
func (c *Canvas) Blur() {
	c.CommitEdit()
}

// CommitEdit ends the inline edit and proposes a single value mutation.
func (c *Canvas) CommitEdit() {
	if c.edit == nil {
		return
	}
	edit := c.edit
	c.edit = nil

	field := c.fieldByID(edit.fieldID)
	if field == nil {
		return
	}
	updated := field.Clone()
	updated.SetValue(edit.buffer)
	c.applyLocal(updated)
	if c.events.OnUpdate != nil {
		c.events.OnUpdate(updated)
	}
}

// Widgets projects the visible fields into screen space for drawing.
// A field mid-drag or mid-resize is shown at its live geometry; the
// selected, unlocked field carries resize handles.
func (c *Canvas) Widgets() []Widget {
	widgets := make([]Widget, 0, len(c.fields))
	for _, field := range c.fields {
		if field.Hidden {
			continue
		}
		x, y := field.X, field.Y
		w, h := field.Width, field.Height
		switch {
		case c.gesture == gestureDragging && field.ID == c.activeID:
			x, y = c.livePos.X, c.livePos.Y
		case c.gesture == gestureResizing && field.ID == c.activeID && c.moved:
			live := c.resizedField(field, c.resizePointer)
			x, y, w, h = live.X, live.Y, live.Width, live.Height
		}
		topLeft := c.transform.ToScreen(Point{X: x, Y: y + h})
		frame := Rect{
			X:      topLeft.X,
			Y:      topLeft.Y,
			Width:  w * c.transform.Zoom,
			Height: h * c.transform.Zoom,
		}
		widget := Widget{
			FieldID:         field.ID,
			Frame:           frame,
			Text:            wrapText(field.DisplayText(), field.Multiline),
			FontSize:        field.FontSize * c.transform.Zoom,
			FontFamily:      field.FontFamily,
			Color:           field.Color,
			BackgroundColor: field.BackgroundColor,
			Opacity:         field.Opacity,
			Multiline:       field.Multiline,
			Selected:        field.ID == c.selectedID,
			Locked:          field.Locked,
			Editing:         c.edit != nil && c.edit.fieldID == field.ID,
		}
		if widget.Selected && !field.Locked {
			widget.Handles = cornerHandles(frame)
		}
		widgets = append(widgets, widget)
	}
	return widgets
}

func (c *Canvas) resetGesture() {
	c.gesture = gestureIdle
	c.activeID = ""
	c.moved = false
}

func (c *Canvas) displacement(p Point) float64 {
	return math.Hypot(p.X-c.pressScreen.X, p.Y-c.pressScreen.Y)
}

// fieldAt returns the topmost visible field whose rectangle contains the
// screen point. Later fields draw above earlier ones, so iteration runs
// back to front. Hidden fields take no pointer interaction.
func (c *Canvas) fieldAt(p Point) *domain.Field {
	doc := c.transform.ToDocument(p)
	for i := len(c.fields) - 1; i >= 0; i-- {
		field := &c.fields[i]
		if field.Hidden {
			continue
		}
		if doc.X >= field.X && doc.X <= field.X+field.Width &&
			doc.Y >= field.Y && doc.Y <= field.Y+field.Height {
			return field
		}
	}
	return nil
}

func (c *Canvas) fieldByID(id string) *domain.Field {
	for i := range c.fields {
		if c.fields[i].ID == id {
			return &c.fields[i]
		}
	}
	return nil
}

// handleAt checks the selected field's resize handles, which extend a
// little beyond the widget frame and therefore win over field hits.
func (c *Canvas) handleAt(p Point) (HandlePosition, bool) {
	field := c.fieldByID(c.selectedID)
	if field == nil || field.Hidden || field.Locked {
		return "", false
	}
	topLeft := c.transform.ToScreen(Point{X: field.X, Y: field.Y + field.Height})
	frame := Rect{
		X:      topLeft.X,
		Y:      topLeft.Y,
		Width:  field.Width * c.transform.Zoom,
		Height: field.Height * c.transform.Zoom,
	}
	for _, handle := range cornerHandles(frame) {
		if handle.Rect.Contains(p) {
			return handle.Position, true
		}
	}
	return "", false
}

// anchorFor returns the document-space corner that stays fixed while the
// given handle is dragged.
func (c *Canvas) anchorFor(field domain.Field, handle HandlePosition) Point {
	left, right := field.X, field.X+field.Width
	bottom, top := field.Y, field.Y+field.Height
	switch handle {
	case HandleTopLeft: // screen top-left moves; doc bottom-right fixed
		return Point{X: right, Y: bottom}
	case HandleTopRight:
		return Point{X: left, Y: bottom}
	case HandleBottomLeft:
		return Point{X: right, Y: top}
	default: // HandleBottomRight
		return Point{X: left, Y: top}
	}
}

// dragPosition computes the clamped document-space position of a dragged
// field for the given pointer location.
func (c *Canvas) dragPosition(p Point, field domain.Field) Point {
	doc := c.transform.ToDocument(p)
	x := doc.X - c.grabOffset.X
	y := doc.Y - c.grabOffset.Y
	if c.snapToGrid {
		x = math.Round(x/snapGridStep) * snapGridStep
		y = math.Round(y/snapGridStep) * snapGridStep
	}
	pageW, pageH := c.transform.PageWidth(), c.transform.PageHeight()
	x = clampFloat(x, 0, math.Max(0, pageW-field.Width))
	y = clampFloat(y, 0, math.Max(0, pageH-field.Height))
	return Point{X: x, Y: y}
}

// resizedField scales the field so the dragged corner follows the
// pointer while the opposite corner stays fixed, clamped to the page and
// to a minimum size.
func (c *Canvas) resizedField(field domain.Field, p Point) domain.Field {
	doc := c.transform.ToDocument(p)
	updated := field.Clone()
	updated.X, updated.Width = resizeAxis(doc.X, c.resizeAnchor.X, c.transform.PageWidth())
	updated.Y, updated.Height = resizeAxis(doc.Y, c.resizeAnchor.Y, c.transform.PageHeight())
	return updated
}

func resizeAxis(pointer, anchor, pageMax float64) (pos, size float64) {
	pointer = clampFloat(pointer, 0, pageMax)
	size = math.Abs(pointer - anchor)
	if size < domain.MinFieldSize {
		size = domain.MinFieldSize
	}
	if pointer < anchor {
		pos = anchor - size
		if pos < 0 {
			pos = 0
			size = anchor
		}
	} else {
		pos = anchor
		if pos+size > pageMax {
			size = pageMax - pos
		}
	}
	return pos, size
}

// applyLocal mirrors a proposed mutation into the working copy so the
// canvas stays visually consistent until the session re-seeds it.
func (c *Canvas) applyLocal(field domain.Field) {
	for i := range c.fields {
		if c.fields[i].ID == field.ID {
			c.fields[i] = field.Clone()
			return
		}
	}
}

// wrapText normalizes line endings; single-line fields collapse any
// newlines to spaces.
func wrapText(text string, multiline bool) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !multiline {
		return strings.ReplaceAll(text, "\n", " ")
	}
	return text
}

func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
