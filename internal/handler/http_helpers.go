package handler

import (
	"encoding/json"
	"net/http"

	apperrors "pdf-template-designer/pkg/errors"
)

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeDomainError classifies a domain error and writes it with the
// matching HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	appErr := apperrors.FromDomain(err)
	writeJSON(w, appErr.StatusCode, appErr)
}
