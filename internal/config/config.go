package config

import (
	"os"
	"strconv"

	"pdf-template-designer/internal/domain"
)

// Template store backends.
const (
	StoreMemory   = "memory"
	StoreSupabase = "supabase"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort    string
	PDFDir        string
	MaxFileSize   int64
	LogLevel      string
	TemplateStore string
	SupabaseURL   string
	SupabaseKey   string
	HistoryLimit  int
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:    getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		PDFDir:        getEnvOrDefault("PDF_DIR", "./pdfs"),
		MaxFileSize:   getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		TemplateStore: getEnvOrDefault("TEMPLATE_STORE", StoreMemory),
		SupabaseURL:   getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:   getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		HistoryLimit:  getEnvIntOrDefault("HISTORY_LIMIT", 30),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetPDFDir returns the directory template PDFs are served from
func (c *AppConfig) GetPDFDir() string {
	return c.PDFDir
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetTemplateStore returns the configured template store backend
func (c *AppConfig) GetTemplateStore() string {
	return c.TemplateStore
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetHistoryLimit returns the undo history snapshot cap
func (c *AppConfig) GetHistoryLimit() int {
	return c.HistoryLimit
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
