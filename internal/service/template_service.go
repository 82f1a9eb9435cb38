package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pdf-template-designer/internal/domain"
)

// TemplateService implements the template use cases on top of a
// TemplateRepository.
type TemplateService struct {
	repo   domain.TemplateRepository
	logger domain.Logger
}

// NewTemplateService creates a new template service.
func NewTemplateService(repo domain.TemplateRepository, logger domain.Logger) domain.TemplateService {
	return &TemplateService{
		repo:   repo,
		logger: logger,
	}
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]*domain.Template, error) {
	templates, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &domain.ValidationError{Field: "id", Message: "template id is required"}
	}
	return s.repo.GetByID(ctx, id)
}

func (s *TemplateService) CreateTemplate(ctx context.Context, payload domain.TemplatePayload) (*domain.Template, error) {
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Message: "template name is required"}
	}

	pages := domain.ClonePages(payload.Pages)
	if len(pages) == 0 {
		pages = []domain.Page{{Num: 1, Fields: []domain.Field{}}}
	}
	domain.NormalizePages(pages)

	template := &domain.Template{
		Name:        name,
		Description: strings.TrimSpace(payload.Description),
		PDFRef:      strings.TrimSpace(payload.PDFRef),
		Pages:       pages,
	}
	if err := s.repo.Create(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, payload domain.TemplatePayload) (*domain.Template, error) {
	template, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(payload.Name); name != "" {
		template.Name = name
	}
	if desc := strings.TrimSpace(payload.Description); desc != "" {
		template.Description = desc
	}
	if ref := strings.TrimSpace(payload.PDFRef); ref != "" {
		template.PDFRef = ref
	}
	if payload.Pages != nil {
		pages := domain.ClonePages(payload.Pages)
		domain.NormalizePages(pages)
		template.Pages = pages
	}

	if err := s.repo.Update(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *TemplateService) SavePages(ctx context.Context, id string, pages []domain.Page) (*domain.Template, error) {
	pages = domain.ClonePages(pages)
	domain.NormalizePages(pages)
	updated, err := s.repo.SavePages(ctx, id, pages)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}
	return updated, nil
}

// ExportPages serializes a template's page/field set to the exchange
// format.
func (s *TemplateService) ExportPages(ctx context.Context, id string) ([]byte, error) {
	template, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.ExportPages(template.Pages)
}

// ImportPages parses a pasted coordinate payload and replaces the
// template's page set with it. Invalid payloads leave the stored template
// untouched.
func (s *TemplateService) ImportPages(ctx context.Context, id string, payload []byte) (*domain.Template, error) {
	pages, err := domain.ParseImport(payload)
	if err != nil {
		s.logger.Warn("Rejected template import", "template_id", id, "error", err)
		return nil, err
	}
	return s.SavePages(ctx, id, pages)
}
