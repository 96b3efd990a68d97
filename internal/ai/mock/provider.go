// Package mock provides a configurable Provider implementation for tests.
package mock

import (
	"context"

	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

// Provider records the contexts it was asked to generate from and returns a
// canned result or error.
type Provider struct {
	Result models.GeneratedContent
	Err    error
	Calls  []models.GenerationContext
}

func (p *Provider) Name() string { return "mock" }

func (p *Provider) Generate(_ context.Context, gc models.GenerationContext) (models.GeneratedContent, error) {
	p.Calls = append(p.Calls, gc)
	if p.Err != nil {
		return models.GeneratedContent{}, p.Err
	}
	return p.Result, nil
}

var _ models.Provider = (*Provider)(nil)
