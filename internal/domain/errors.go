package domain

import "errors"

// Domain errors
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrPageNotFound     = errors.New("page not found")
	ErrFieldNotFound    = errors.New("field not found")
	ErrFieldLocked      = errors.New("field is locked")
	ErrImportInvalid    = errors.New("import payload is not a valid page set")
	ErrRenderFailed     = errors.New("page render failed")
	ErrSaveFailed       = errors.New("template save failed")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
