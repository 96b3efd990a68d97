package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/verygoodplugins/llm-url-solution/internal/config"
	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

// AnthropicProvider calls the Anthropic messages API through the official SDK.
type AnthropicProvider struct {
	cfg    config.AIConfig
	client anthropic.Client
}

func NewAnthropicProvider(cfg config.AIConfig) *AnthropicProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.AnthropicAPIKey)}
	if cfg.AnthropicBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.AnthropicBaseURL))
	}
	return &AnthropicProvider{
		cfg:    cfg,
		client: anthropic.NewClient(opts...),
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Generate(ctx context.Context, gc models.GenerationContext) (models.GeneratedContent, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.cfg.Model),
		MaxTokens:   int64(p.cfg.MaxTokens),
		Temperature: anthropic.Float(p.cfg.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(gc))),
		},
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return models.GeneratedContent{}, fmt.Errorf("%w: %v", ErrRequestTimeout, err)
		}
		return models.GeneratedContent{}, fmt.Errorf("%w: %v", ErrAPIError, err)
	}

	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			return ParseResponse(block.Text), nil
		}
	}
	return models.GeneratedContent{}, fmt.Errorf("%w: no text content in response", ErrInvalidResponse)
}

var _ models.Provider = (*AnthropicProvider)(nil)
