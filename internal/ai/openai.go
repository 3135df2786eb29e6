package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIClient generates text through any OpenAI-compatible endpoint
type OpenAIClient struct {
	llm llms.Model
}

// NewOpenAIClient creates a client. An empty baseURL uses api.openai.com.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) (*OpenAIClient, error) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return &OpenAIClient{llm: llm}, nil
}

// Generate sends prompt as a single user message
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("empty response text")
	}
	return text, nil
}
