package llm

import (
	"context"
	"fmt"

	"github.com/codehaven/collab-server/internal/domain"
)

const defaultMaxTokens = 2000

// Service turns a room question into a single provider chat call. It
// implements the gateway's Asker port.
type Service struct {
	client    Client
	maxTokens int
}

func NewService(client Client, maxTokens int) *Service {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Service{client: client, maxTokens: maxTokens}
}

func (s *Service) Ask(ctx context.Context, q domain.Question) (string, error) {
	system := BuildSystemPrompt(q)
	messages := []ChatMessage{{Role: "user", Content: q.Prompt}}

	res, err := s.client.Chat(ctx, messages, system, s.maxTokens)
	if err != nil {
		return "", fmt.Errorf("ask AI: %w", err)
	}
	return res.Text, nil
}
