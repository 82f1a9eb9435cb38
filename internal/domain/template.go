package domain

import (
	"encoding/json"
	"time"
)

// Template is one PDF form template owned by the template store. The
// editor loads it once per session and treats it as a value object that
// is replaced wholesale on save.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PDFRef      string    `json:"pdfRef"`
	Pages       []Page    `json:"pages"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	clone := t
	clone.Pages = ClonePages(t.Pages)
	return clone
}

// TemplatePayload is the create/update request body for a template.
type TemplatePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PDFRef      string `json:"pdfRef"`
	Pages       []Page `json:"pages"`
}

// ExportPayload is the persisted/exchanged wire shape for the page and
// field set, used both for save and for JSON import/export.
type ExportPayload struct {
	Pages []Page `json:"pages"`
}

// ExportPages serializes pages to the wire shape, pretty-printed the way
// the editor shows it.
func ExportPages(pages []Page) ([]byte, error) {
	return json.MarshalIndent(ExportPayload{Pages: ClonePages(pages)}, "", "  ")
}

// ParseImport parses a pasted payload. Both the canonical object shape
// {"pages": [...]} and a bare page array are accepted. Structural
// violations reject the whole import with ErrImportInvalid; field-level
// invariant violations are normalized instead.
func ParseImport(data []byte) ([]Page, error) {
	var payload ExportPayload
	if err := json.Unmarshal(data, &payload); err == nil && payload.Pages != nil {
		NormalizePages(payload.Pages)
		return payload.Pages, nil
	}

	var pages []Page
	if err := json.Unmarshal(data, &pages); err != nil || pages == nil {
		return nil, ErrImportInvalid
	}
	NormalizePages(pages)
	return pages, nil
}
