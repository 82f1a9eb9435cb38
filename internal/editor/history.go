// Package editor implements the field-placement engine: the undo/redo
// history, the screen/document coordinate transform, the pointer-driven
// annotation canvas and the session controller that ties them to a
// template store and a page renderer.
package editor

import "pdf-template-designer/internal/domain"

// DefaultHistoryLimit caps how many snapshots the undo stack retains.
const DefaultHistoryLimit = 30

// History is a bounded undo/redo stack over full page/field snapshots.
// Every push and pop deep-copies, so mutating live state after a push
// never corrupts a stored snapshot. Callers push the pre-mutation state
// before applying a mutation.
type History struct {
	limit     int
	undoStack [][]domain.Page
	redoStack [][]domain.Page
}

// NewHistory creates a history bounded to the given number of snapshots.
// Non-positive limits fall back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records a snapshot and invalidates the redo stack. The oldest
// snapshot is evicted once the limit is reached.
func (h *History) Push(state []domain.Page) {
	h.undoStack = append(h.undoStack, domain.ClonePages(state))
	if len(h.undoStack) > h.limit {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = nil
}

// Undo returns the most recent snapshot and moves the current state onto
// the redo stack. Returns nil when there is nothing to undo.
func (h *History) Undo(current []domain.Page) []domain.Page {
	if len(h.undoStack) == 0 {
		return nil
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, domain.ClonePages(current))
	return domain.ClonePages(last)
}

// Redo reverses the most recent undo. Returns nil when there is nothing
// to redo.
func (h *History) Redo(current []domain.Page) []domain.Page {
	if len(h.redoStack) == 0 {
		return nil
	}
	next := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, domain.ClonePages(current))
	return domain.ClonePages(next)
}

// CanUndo reports whether an undo snapshot is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo reports whether a redo snapshot is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Reset drops both stacks.
func (h *History) Reset() {
	h.undoStack = nil
	h.redoStack = nil
}
