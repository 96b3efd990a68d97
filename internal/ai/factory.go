// Package ai implements the text-generation backends. The backend is selected
// by substring match on the configured model identifier, each adapter turns a
// GenerationContext into a prompt pair and parses the reply into structured
// content.
package ai

import (
	"fmt"
	"strings"

	"github.com/verygoodplugins/llm-url-solution/internal/config"
	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

// NewProvider returns the generation backend for the configured model.
// Identifiers containing "gpt" or "openai" route to the OpenAI-compatible
// backend, identifiers containing "claude" route to Anthropic. Anything else
// is an error.
func NewProvider(cfg config.AIConfig) (models.Provider, error) {
	model := strings.ToLower(cfg.Model)
	switch {
	case strings.Contains(model, "gpt") || strings.Contains(model, "openai"):
		return NewOpenAIProvider(cfg), nil
	case strings.Contains(model, "claude"):
		return NewAnthropicProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported model %q: expected a gpt/openai or claude identifier", cfg.Model)
	}
}
