package editor

import (
	"context"
	"strings"
)

// Shortcut is a normalized keyboard chord reported by the host.
type Shortcut struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
}

// HandleShortcut dispatches the editor's keyboard bindings: Ctrl/Cmd+S
// saves, Ctrl/Cmd+Z undoes (Shift redoes), Ctrl/Cmd+Y redoes, Delete and
// Backspace remove the selected field. Returns true when the chord was
// handled, so the host can suppress its default behavior.
func (s *Session) HandleShortcut(ctx context.Context, shortcut Shortcut) bool {
	key := strings.ToLower(shortcut.Key)
	modifier := shortcut.Ctrl || shortcut.Meta

	switch {
	case modifier && key == "s":
		if err := s.Save(ctx); err != nil {
			s.logger.Warn("Save shortcut failed", "error", err)
		}
		return true
	case modifier && key == "z" && shortcut.Shift:
		s.Redo()
		return true
	case modifier && key == "z":
		s.Undo()
		return true
	case modifier && key == "y":
		s.Redo()
		return true
	case key == "delete" || key == "backspace":
		if s.canvas.Editing() != "" {
			return false
		}
		if id := s.canvas.SelectedID(); id != "" {
			if err := s.DeleteField(id); err != nil {
				s.logger.Debug("Delete shortcut ignored", "field_id", id, "error", err)
			}
			return true
		}
		return false
	}
	return false
}
