package repository

import (
	"fmt"

	"pdf-template-designer/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// SupabaseClient wraps the connection to the Supabase project that stores
// template rows.
type SupabaseClient struct {
	client *supabase.Client
	config domain.Config
	logger domain.Logger
}

// NewSupabaseClient creates an unconnected Supabase client wrapper.
func NewSupabaseClient(config domain.Config, logger domain.Logger) *SupabaseClient {
	return &SupabaseClient{
		config: config,
		logger: logger,
	}
}

// Initialize establishes the connection to Supabase.
func (s *SupabaseClient) Initialize() error {
	supabaseURL := s.config.GetSupabaseURL()
	supabaseKey := s.config.GetSupabaseKey()

	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("Supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Supabase client: %w", err)
	}

	s.client = client
	s.logger.Info("Supabase client initialized", "url", supabaseURL)
	return nil
}

// GetSupabaseClient returns the typed Supabase client for repository use.
func (s *SupabaseClient) GetSupabaseClient() *supabase.Client {
	return s.client
}
