package handler

import (
	"net/http"

	"pdf-template-designer/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"pdf-template-designer"}`))
	}).Methods("GET")

	// Initialize handlers
	templateHandler := NewTemplateHandler(container.GetTemplateService(), container.GetLogger(), container.GetConfig().GetMaxFileSize())
	renderHandler := NewRenderHandler(container.GetTemplateService(), container.GetPageRenderer(), container.GetLogger())

	api.Use(LoggingMiddleware(container.GetLogger()))
	api.Use(RecoveryMiddleware(container.GetLogger()))

	// Template routes
	api.HandleFunc("/templates", templateHandler.ListTemplates).Methods("GET")
	api.HandleFunc("/templates", templateHandler.CreateTemplate).Methods("POST")
	api.HandleFunc("/templates/{id}", templateHandler.GetTemplate).Methods("GET")
	api.HandleFunc("/templates/{id}", templateHandler.UpdateTemplate).Methods("PUT")
	api.HandleFunc("/templates/{id}", templateHandler.DeleteTemplate).Methods("DELETE")
	api.HandleFunc("/templates/{id}/pages", templateHandler.SavePages).Methods("PUT")
	api.HandleFunc("/templates/{id}/export", templateHandler.ExportPages).Methods("GET")
	api.HandleFunc("/templates/{id}/import", templateHandler.ImportPages).Methods("POST")

	// Render routes
	api.HandleFunc("/templates/{id}/pdf", renderHandler.GetPDFInfo).Methods("GET")
	api.HandleFunc("/templates/{id}/pages/{num}/render", renderHandler.RenderPage).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // Vite dev server
			"http://localhost:4200", // Angular dev server
			"http://localhost:3000", // Alternative dev port
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"X-Page-Width",
			"X-Page-Height",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
