package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"pdf-template-designer/internal/domain"

	"github.com/google/uuid"
)

// MemoryTemplateRepository is an in-memory domain.TemplateRepository used
// when no Supabase project is configured. It starts seeded with sample
// templates so the editor has something to open out of the box.
type MemoryTemplateRepository struct {
	mu        sync.RWMutex
	templates map[string]*domain.Template
	logger    domain.Logger
}

// NewMemoryTemplateRepository creates a seeded in-memory template store.
func NewMemoryTemplateRepository(logger domain.Logger) domain.TemplateRepository {
	repo := &MemoryTemplateRepository{
		templates: make(map[string]*domain.Template),
		logger:    logger,
	}
	for _, t := range seedTemplates() {
		repo.templates[t.ID] = t
	}
	return repo
}

func (r *MemoryTemplateRepository) List(ctx context.Context) ([]*domain.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := make([]*domain.Template, 0, len(r.templates))
	for _, t := range r.templates {
		clone := t.Clone()
		templates = append(templates, &clone)
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

func (r *MemoryTemplateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.templates[id]
	if !exists {
		return nil, domain.ErrTemplateNotFound
	}
	clone := t.Clone()
	return &clone, nil
}

func (r *MemoryTemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	clone := template.Clone()
	r.templates[template.ID] = &clone
	r.logger.Info("Template created", "template_id", template.ID, "name", template.Name)
	return nil
}

func (r *MemoryTemplateRepository) Update(ctx context.Context, template *domain.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.templates[template.ID]
	if !exists {
		return domain.ErrTemplateNotFound
	}
	clone := template.Clone()
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now().UTC()
	r.templates[template.ID] = &clone
	return nil
}

func (r *MemoryTemplateRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[id]; !exists {
		return domain.ErrTemplateNotFound
	}
	delete(r.templates, id)
	r.logger.Info("Template deleted", "template_id", id)
	return nil
}

func (r *MemoryTemplateRepository) SavePages(ctx context.Context, id string, pages []domain.Page) (*domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, exists := r.templates[id]
	if !exists {
		return nil, domain.ErrTemplateNotFound
	}
	t.Pages = domain.ClonePages(pages)
	t.UpdatedAt = time.Now().UTC()
	clone := t.Clone()
	r.logger.Info("Template pages saved", "template_id", id, "pages", len(pages))
	return &clone, nil
}

// seedTemplates builds the sample templates the in-memory store starts
// with.
func seedTemplates() []*domain.Template {
	created := time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC)

	employeeName := domain.NewField(domain.FieldTypeText, 72, 640)
	employeeName.MapField = "employee_name"

	startDate := domain.NewField(domain.FieldTypeText, 72, 580)
	startDate.MapField = "start_date"
	startDate.Width = 140

	salary := domain.NewField(domain.FieldTypeText, 320, 580)
	salary.MapField = "monthly_salary"
	salary.Width = 140

	signature := domain.NewField(domain.FieldTypeImage, 72, 120)
	signature.MapField = "employee_signature"
	signature.Locked = true

	vendor := domain.NewField(domain.FieldTypeText, 60, 660)
	vendor.MapField = "vendor_name"

	orderTotal := domain.NewField(domain.FieldTypeText, 400, 200)
	orderTotal.MapField = "order_total"
	orderTotal.Width = 120

	notes := domain.NewField(domain.FieldTypeText, 60, 160)
	notes.MapField = "delivery_notes"
	notes.Multiline = true
	notes.Width = 460
	notes.Height = 96

	return []*domain.Template{
		{
			ID:          "employment-contract",
			Name:        "Employment Contract",
			Description: "Standard employment contract with salary and signature fields",
			PDFRef:      "employment-contract.pdf",
			Pages: []domain.Page{
				{Num: 1, Fields: []domain.Field{employeeName, startDate, salary}},
				{Num: 2, Fields: []domain.Field{signature}},
			},
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:          "purchase-order",
			Name:        "Purchase Order",
			Description: "Single page purchase order form",
			PDFRef:      "purchase-order.pdf",
			Pages: []domain.Page{
				{Num: 1, Fields: []domain.Field{vendor, orderTotal, notes}},
			},
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}
