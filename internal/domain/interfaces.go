package domain

import "context"

// TemplateRepository defines persistence operations for templates.
type TemplateRepository interface {
	List(ctx context.Context) ([]*Template, error)
	GetByID(ctx context.Context, id string) (*Template, error)
	Create(ctx context.Context, template *Template) error
	Update(ctx context.Context, template *Template) error
	Delete(ctx context.Context, id string) error
	SavePages(ctx context.Context, id string, pages []Page) (*Template, error)
}

// TemplateService defines the use-case operations for templates.
type TemplateService interface {
	ListTemplates(ctx context.Context) ([]*Template, error)
	GetTemplate(ctx context.Context, id string) (*Template, error)
	CreateTemplate(ctx context.Context, payload TemplatePayload) (*Template, error)
	UpdateTemplate(ctx context.Context, id string, payload TemplatePayload) (*Template, error)
	DeleteTemplate(ctx context.Context, id string) error
	SavePages(ctx context.Context, id string, pages []Page) (*Template, error)
	ExportPages(ctx context.Context, id string) ([]byte, error)
	ImportPages(ctx context.Context, id string, payload []byte) (*Template, error)
}

// PageRaster is the result of rendering one PDF page to pixels. Width and
// Height are the final pixel dimensions at the requested scale; the
// overlay is sized from them.
type PageRaster struct {
	PageNumber int
	Width      float64
	Height     float64
	PNG        []byte
}

// PageRenderer is the external PDF raster capability. Implementations
// resolve refs to actual PDF content; the editor never parses PDFs itself.
type PageRenderer interface {
	RenderPage(ctx context.Context, ref string, pageNumber int, scale float64) (*PageRaster, error)
	PageCount(ctx context.Context, ref string) (int, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetPDFDir() string
	GetMaxFileSize() int64
	GetTemplateStore() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetHistoryLimit() int
}
