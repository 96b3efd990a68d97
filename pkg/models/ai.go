package models

import "context"

// Provider is the core interface every text-generation backend must implement.
// Never call a specific backend directly — always inject this interface.
type Provider interface {
	// Generate produces a replacement content page for the given context.
	Generate(ctx context.Context, gc GenerationContext) (GeneratedContent, error)
	// Name returns the backend identifier (e.g. "openai", "anthropic").
	Name() string
}
