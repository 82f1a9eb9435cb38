package errors

import (
	"errors"
	"fmt"
	"net/http"

	"pdf-template-designer/internal/domain"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeImport     ErrorType = "import"
	ErrorTypeLocked     ErrorType = "locked"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeSave       ErrorType = "save"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Details:    detail,
		StatusCode: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewImportError creates a new import error
func NewImportError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeImport,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewLockedError creates a new locked-field error
func NewLockedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeLocked,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewRenderError creates a new render error
func NewRenderError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeRender,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewSaveError creates a new save error
func NewSaveError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeSave,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// FromDomain classifies a domain error into an AppError with the
// matching HTTP status.
func FromDomain(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrTemplateNotFound),
		errors.Is(err, domain.ErrPageNotFound),
		errors.Is(err, domain.ErrFieldNotFound):
		e := NewNotFoundError(err.Error())
		e.Cause = err
		return e
	case errors.Is(err, domain.ErrImportInvalid):
		return NewImportError(err.Error(), err)
	case errors.Is(err, domain.ErrFieldLocked):
		e := NewLockedError(err.Error())
		e.Cause = err
		return e
	case errors.Is(err, domain.ErrRenderFailed):
		return NewRenderError(err.Error(), err)
	case errors.Is(err, domain.ErrSaveFailed):
		return NewSaveError(err.Error(), err)
	case errors.As(err, &validationErr):
		return NewValidationError(validationErr.Message, validationErr.Field)
	default:
		return NewInternalError(err.Error(), err)
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	return FromDomain(err).StatusCode
}
