package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"pdf-template-designer/internal/domain"

	"github.com/google/uuid"
)

// SupabaseTemplateRepository implements domain.TemplateRepository against
// the "templates" table of a Supabase project. Page/field data is stored
// as a jsonb column in the wire shape, so exported payloads and stored
// rows stay interchangeable.
type SupabaseTemplateRepository struct {
	supabaseClient *SupabaseClient
	logger         domain.Logger
}

// templateRow mirrors a row of the templates table.
type templateRow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PDFRef      string          `json:"pdf_ref"`
	Pages       json.RawMessage `json:"pages"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewSupabaseTemplateRepository creates a Supabase-backed template store.
func NewSupabaseTemplateRepository(supabaseClient *SupabaseClient, logger domain.Logger) domain.TemplateRepository {
	return &SupabaseTemplateRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

func (r *SupabaseTemplateRepository) List(ctx context.Context) ([]*domain.Template, error) {
	client := r.supabaseClient.GetSupabaseClient()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("templates").
		Select("*", "", false).
		Execute()
	if err != nil {
		r.logger.Error("Failed to list templates", err)
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	var rows []templateRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse template rows: %w", err)
	}

	templates := make([]*domain.Template, 0, len(rows))
	for _, row := range rows {
		template, err := rowToTemplate(row)
		if err != nil {
			r.logger.Warn("Skipping unreadable template row", "template_id", row.ID, "error", err)
			continue
		}
		templates = append(templates, template)
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

func (r *SupabaseTemplateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	client := r.supabaseClient.GetSupabaseClient()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("templates").
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		r.logger.Error("Failed to get template", err, "template_id", id)
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	var rows []templateRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse template row: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrTemplateNotFound
	}
	return rowToTemplate(rows[0])
}

func (r *SupabaseTemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	client := r.supabaseClient.GetSupabaseClient()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	row, err := templateToRow(template)
	if err != nil {
		return err
	}

	_, _, err = client.From("templates").Insert(row, false, "", "", "").Execute()
	if err != nil {
		r.logger.Error("Failed to create template", err, "template_id", template.ID)
		return fmt.Errorf("failed to create template: %w", err)
	}

	r.logger.Info("Template created", "template_id", template.ID, "name", template.Name)
	return nil
}

func (r *SupabaseTemplateRepository) Update(ctx context.Context, template *domain.Template) error {
	client := r.supabaseClient.GetSupabaseClient()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	template.UpdatedAt = time.Now().UTC()
	row, err := templateToRow(template)
	if err != nil {
		return err
	}

	data, _, err := client.From("templates").
		Update(row, "", "").
		Eq("id", template.ID).
		Execute()
	if err != nil {
		r.logger.Error("Failed to update template", err, "template_id", template.ID)
		return fmt.Errorf("failed to update template: %w", err)
	}

	var updated []templateRow
	if err := json.Unmarshal(data, &updated); err == nil && len(updated) == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *SupabaseTemplateRepository) Delete(ctx context.Context, id string) error {
	client := r.supabaseClient.GetSupabaseClient()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	_, _, err := client.From("templates").
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		r.logger.Error("Failed to delete template", err, "template_id", id)
		return fmt.Errorf("failed to delete template: %w", err)
	}

	r.logger.Info("Template deleted", "template_id", id)
	return nil
}

func (r *SupabaseTemplateRepository) SavePages(ctx context.Context, id string, pages []domain.Page) (*domain.Template, error) {
	client := r.supabaseClient.GetSupabaseClient()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	pagesJSON, err := json.Marshal(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pages: %w", err)
	}

	patch := map[string]interface{}{
		"pages":      json.RawMessage(pagesJSON),
		"updated_at": time.Now().UTC(),
	}

	data, _, err := client.From("templates").
		Update(patch, "", "").
		Eq("id", id).
		Execute()
	if err != nil {
		r.logger.Error("Failed to save template pages", err, "template_id", id)
		return nil, fmt.Errorf("failed to save pages: %w", err)
	}

	var rows []templateRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse saved template: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrTemplateNotFound
	}

	r.logger.Info("Template pages saved", "template_id", id, "pages", len(pages))
	return rowToTemplate(rows[0])
}

func rowToTemplate(row templateRow) (*domain.Template, error) {
	var pages []domain.Page
	if len(row.Pages) > 0 {
		if err := json.Unmarshal(row.Pages, &pages); err != nil {
			return nil, fmt.Errorf("failed to parse pages column: %w", err)
		}
	}
	domain.NormalizePages(pages)

	return &domain.Template{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		PDFRef:      row.PDFRef,
		Pages:       pages,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func templateToRow(template *domain.Template) (map[string]interface{}, error) {
	pagesJSON, err := json.Marshal(template.Pages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pages: %w", err)
	}
	return map[string]interface{}{
		"id":          template.ID,
		"name":        template.Name,
		"description": template.Description,
		"pdf_ref":     template.PDFRef,
		"pages":       json.RawMessage(pagesJSON),
		"created_at":  template.CreatedAt,
		"updated_at":  template.UpdatedAt,
	}, nil
}
