// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"pdf-template-designer/internal/domain"

	"github.com/gorilla/mux"
)

// TemplateHandler handles template-related HTTP requests
type TemplateHandler struct {
	templateService domain.TemplateService
	logger          domain.Logger
	maxBodySize     int64
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateService domain.TemplateService, logger domain.Logger, maxBodySize int64) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		logger:          logger,
		maxBodySize:     maxBodySize,
	}
}

// ListTemplates handles GET /templates
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateService.ListTemplates(r.Context())
	if err != nil {
		h.logger.Error("Failed to list templates", err)
		writeDomainError(w, err)
		return
	}
	// Ensure JSON is [] not null when there are no templates.
	if templates == nil {
		templates = make([]*domain.Template, 0)
	}
	writeJSON(w, http.StatusOK, templates)
}

// GetTemplate handles GET /templates/{id}
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	template, err := h.templateService.GetTemplate(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// CreateTemplate handles POST /templates
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var payload domain.TemplatePayload
	if err := h.decodeBody(w, r, &payload); err != nil {
		return
	}

	template, err := h.templateService.CreateTemplate(r.Context(), payload)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, template)
}

// UpdateTemplate handles PUT /templates/{id}
func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var payload domain.TemplatePayload
	if err := h.decodeBody(w, r, &payload); err != nil {
		return
	}

	template, err := h.templateService.UpdateTemplate(r.Context(), id, payload)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// DeleteTemplate handles DELETE /templates/{id}
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.templateService.DeleteTemplate(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// SavePages handles PUT /templates/{id}/pages
func (h *TemplateHandler) SavePages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var payload domain.ExportPayload
	if err := h.decodeBody(w, r, &payload); err != nil {
		return
	}

	template, err := h.templateService.SavePages(r.Context(), id, payload.Pages)
	if err != nil {
		h.logger.Error("Failed to save template pages", err, "template_id", id)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

// ExportPages handles GET /templates/{id}/export
func (h *TemplateHandler) ExportPages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data, err := h.templateService.ExportPages(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="template-`+id+`.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportPages handles POST /templates/{id}/import. The body is the raw
// pasted payload: either {"pages": [...]} or a bare page array.
func (h *TemplateHandler) ImportPages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	template, err := h.templateService.ImportPages(r.Context(), id, body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (h *TemplateHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, h.maxBodySize))
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return err
	}
	return nil
}
