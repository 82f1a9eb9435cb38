package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pdf-template-designer/internal/domain"

	"github.com/gorilla/mux"
)

// RenderHandler serves rasterized PDF pages for the editor surface.
type RenderHandler struct {
	templateService domain.TemplateService
	renderer        domain.PageRenderer
	logger          domain.Logger
}

// NewRenderHandler creates a new render handler
func NewRenderHandler(templateService domain.TemplateService, renderer domain.PageRenderer, logger domain.Logger) *RenderHandler {
	return &RenderHandler{
		templateService: templateService,
		renderer:        renderer,
		logger:          logger,
	}
}

// GetPDFInfo handles GET /templates/{id}/pdf. It reports the page count
// of the template's PDF so clients can align their page lists.
func (h *RenderHandler) GetPDFInfo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	template, err := h.templateService.GetTemplate(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	count, err := h.renderer.PageCount(r.Context(), template.PDFRef)
	if err != nil {
		h.logger.Warn("PDF page count unavailable", "template_id", id, "pdf_ref", template.PDFRef, "error", err)
		// Fall back to the page list defined by the field data.
		count = len(template.Pages)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"templateId": template.ID,
		"pdfRef":     template.PDFRef,
		"pageCount":  count,
	})
}

// RenderPage handles GET /templates/{id}/pages/{num}/render?scale=1.
// The response is the rendered PNG; pixel dimensions travel in headers so
// clients can size the overlay without decoding the image.
func (h *RenderHandler) RenderPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	pageNumber, err := strconv.Atoi(vars["num"])
	if err != nil || pageNumber < 1 {
		writeError(w, http.StatusBadRequest, "page number must be a positive integer")
		return
	}

	scale := 1.0
	if raw := r.URL.Query().Get("scale"); raw != "" {
		scale, err = strconv.ParseFloat(raw, 64)
		if err != nil || scale <= 0 {
			writeError(w, http.StatusBadRequest, "scale must be a positive number")
			return
		}
	}

	template, err := h.templateService.GetTemplate(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	raster, err := h.renderer.RenderPage(r.Context(), template.PDFRef, pageNumber, scale)
	if err != nil {
		if errors.Is(err, domain.ErrPageNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("Page render failed", err, "template_id", id, "page", pageNumber, "scale", scale)
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Page-Width", strconv.FormatFloat(raster.Width, 'f', -1, 64))
	w.Header().Set("X-Page-Height", strconv.FormatFloat(raster.Height, 'f', -1, 64))
	w.WriteHeader(http.StatusOK)
	w.Write(raster.PNG)
}
