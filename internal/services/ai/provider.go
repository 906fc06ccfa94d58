package ai

import (
	"context"
)

// SummaryProvider generates a natural-language summary from a report prompt
type SummaryProvider interface {
	GenerateSummary(ctx context.Context, prompt string) (string, error)
}

// ProviderFactory creates a summary provider based on the provider type
type ProviderFactory func(config map[string]string) (SummaryProvider, error)

// ProviderRegistry stores available summary providers
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register registers a provider factory
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider gets a provider by name
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (SummaryProvider, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}

	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not found
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "summary provider not found: " + e.Name
}
