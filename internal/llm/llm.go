// Package llm implements the upstream generative-AI clients used by
// the room AI gateway.
package llm

import (
	"context"
	"fmt"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResult struct {
	Text         string `json:"text"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
}

type Client interface {
	Chat(ctx context.Context, messages []ChatMessage, systemPrompt string, maxTokens int) (*ChatResult, error)
}

type ClientOptions struct {
	BaseURL string
	ModelID string
}

// ProviderError is a non-2xx reply from the provider API. The status
// code drives retry classification in the gateway.
type ProviderError struct {
	Provider   Provider
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Provider, e.StatusCode, e.Body)
}

func NewClient(provider Provider, apiKey string, options *ClientOptions) (Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for provider %s", provider)
	}

	opts := ClientOptions{}
	if options != nil {
		opts = *options
	}

	switch provider {
	case ProviderGemini:
		return newGeminiClient(apiKey, opts.ModelID), nil
	case ProviderOpenAI:
		modelID := opts.ModelID
		if modelID == "" {
			modelID = openaiDefaultModel
		}
		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		return newOpenAICompatClient(apiKey, baseURL, modelID), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
