package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verygoodplugins/llm-url-solution/internal/config"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		model    string
		wantName string
	}{
		{"gpt-4", "openai"},
		{"gpt-3.5-turbo", "openai"},
		{"openai/o3-mini", "openai"},
		{"claude-3-opus", "anthropic"},
		{"claude-sonnet-4", "anthropic"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			p, err := NewProvider(config.AIConfig{Model: tt.model})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNewProvider_UnsupportedModel(t *testing.T) {
	_, err := NewProvider(config.AIConfig{Model: "llama-3"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "llama-3")
}
