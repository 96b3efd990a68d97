package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/verygoodplugins/llm-url-solution/internal/config"
	"github.com/verygoodplugins/llm-url-solution/pkg/models"
)

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// OpenAIProvider calls the OpenAI chat completions API over plain HTTP. The
// base URL is configurable so tests can point it at a local server.
type OpenAIProvider struct {
	cfg    config.AIConfig
	client *http.Client
}

func NewOpenAIProvider(cfg config.AIConfig) *OpenAIProvider {
	return &OpenAIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, gc models.GenerationContext) (models.GeneratedContent, error) {
	reqBody := openAIRequest{
		Model: p.cfg.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: SystemPrompt()},
			{Role: "user", Content: BuildPrompt(gc)},
		},
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return models.GeneratedContent{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := p.cfg.OpenAIBaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return models.GeneratedContent{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.OpenAIAPIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return models.GeneratedContent{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.GeneratedContent{}, fmt.Errorf("reading response: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return models.GeneratedContent{}, fmt.Errorf("%w: parsing response: %v", ErrInvalidResponse, err)
	}

	if parsed.Error != nil {
		return models.GeneratedContent{}, fmt.Errorf("%w: %s", ErrAPIError, parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return models.GeneratedContent{}, fmt.Errorf("%w: no choices in response", ErrInvalidResponse)
	}

	return ParseResponse(parsed.Choices[0].Message.Content), nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return fmt.Errorf("%w: %v", ErrRequestTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

var _ models.Provider = (*OpenAIProvider)(nil)
