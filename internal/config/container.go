package config

import (
	"pdf-template-designer/internal/domain"
	"pdf-template-designer/internal/repository"
	"pdf-template-designer/internal/service"
	"pdf-template-designer/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config             domain.Config
	Logger             domain.Logger
	TemplateRepository domain.TemplateRepository
	TemplateService    domain.TemplateService
	PageRenderer       domain.PageRenderer
}

// NewContainer creates a new dependency injection container. The template
// store backend is selected by TEMPLATE_STORE: the in-memory seeded store
// by default, Supabase when configured.
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	var templateRepo domain.TemplateRepository
	if config.GetTemplateStore() == StoreSupabase {
		supabaseClient := repository.NewSupabaseClient(config, appLogger)
		if err := supabaseClient.Initialize(); err != nil {
			appLogger.Error("Supabase unavailable, falling back to in-memory store", err)
			templateRepo = repository.NewMemoryTemplateRepository(appLogger)
		} else {
			templateRepo = repository.NewSupabaseTemplateRepository(supabaseClient, appLogger)
		}
	} else {
		templateRepo = repository.NewMemoryTemplateRepository(appLogger)
	}

	templateService := service.NewTemplateService(templateRepo, appLogger)
	renderer := service.NewPDFRenderer(config.GetPDFDir(), appLogger)

	return &Container{
		Config:             config,
		Logger:             appLogger,
		TemplateRepository: templateRepo,
		TemplateService:    templateService,
		PageRenderer:       renderer,
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetTemplateRepository returns the template repository instance
func (c *Container) GetTemplateRepository() domain.TemplateRepository {
	return c.TemplateRepository
}

// GetTemplateService returns the template service instance
func (c *Container) GetTemplateService() domain.TemplateService {
	return c.TemplateService
}

// GetPageRenderer returns the PDF page renderer instance
func (c *Container) GetPageRenderer() domain.PageRenderer {
	return c.PageRenderer
}
