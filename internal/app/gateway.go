package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codehaven/collab-server/internal/domain"
	"github.com/codehaven/collab-server/internal/llm"
	"github.com/codehaven/collab-server/internal/protocol"
)

// Asker is the upstream AI call. Implemented by llm.Service.
type Asker interface {
	Ask(ctx context.Context, q domain.Question) (string, error)
}

const (
	defaultRetryBase  = 2 * time.Second
	defaultMaxRetries = 3
)

// Terminal messages per failure class.
const (
	msgBusy          = "AI service is temporarily busy. Please wait a moment and try again."
	msgTimedOut      = "AI service timed out. Please try again."
	msgConfigError   = "AI service configuration error. Please check API key settings."
	msgContentFilter = "Your request was flagged by content filters. Please rephrase your question."
)

// Gateway wraps the upstream AI call with bounded linear backoff for
// the two recoverable failure classes (rate limit and timeout) and
// broadcasts both the pending state and the outcome to the whole room.
type Gateway struct {
	Hub   *SessionHub
	Asker Asker

	// RetryBase and MaxRetries default when zero; tests shrink them.
	RetryBase  time.Duration
	MaxRetries int

	// sleep is swappable in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

func NewGateway(hub *SessionHub, asker Asker) *Gateway {
	return &Gateway{
		Hub:        hub,
		Asker:      asker,
		RetryBase:  defaultRetryBase,
		MaxRetries: defaultMaxRetries,
		sleep:      time.Sleep,
	}
}

// HandleAsk runs one room question to completion: thinking indicator,
// the upstream call chain with retries, and exactly one terminal
// ai-response broadcast. Callers run it off the dispatch path; a room
// emptied mid-flight just makes the final broadcast a no-op.
func (g *Gateway) HandleAsk(ctx context.Context, room domain.RoomID, q domain.Question) {
	g.Hub.BroadcastRoom(room, protocol.Encode(protocol.AIThinkingEvent{Type: protocol.EvtAIThinking, RoomID: room}))

	success, message := g.ask(ctx, room, q)
	g.Hub.BroadcastRoom(room, protocol.Encode(protocol.AIResponseEvent{
		Type:    protocol.EvtAIResponse,
		RoomID:  room,
		Success: success,
		Message: message,
	}))
}

func (g *Gateway) ask(ctx context.Context, room domain.RoomID, q domain.Question) (bool, string) {
	base := g.RetryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	maxRetries := g.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	sleep := g.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for retry := 0; ; retry++ {
		text, err := g.Asker.Ask(ctx, q)
		if err == nil {
			log.Info().Str("module", "app.gateway").Str("room", string(room)).Int("retries", retry).Msg("AI answered")
			return true, text
		}

		class := classifyUpstream(err)
		log.Warn().Err(err).Str("module", "app.gateway").Str("room", string(room)).Str("class", string(class)).Int("retry", retry).Msg("AI call failed")

		switch class {
		case failRateLimited, failTimedOut:
			if retry < maxRetries {
				// Linear backoff: base * retry number.
				sleep(base * time.Duration(retry+1))
				continue
			}
			if class == failRateLimited {
				return false, msgBusy
			}
			return false, msgTimedOut
		case failAuth:
			return false, msgConfigError
		case failContentFilter:
			return false, msgContentFilter
		default:
			return false, "Sorry, I encountered an error: " + err.Error()
		}
	}
}

type failureClass string

const (
	failRateLimited   failureClass = "rate_limited"
	failTimedOut      failureClass = "timed_out"
	failAuth          failureClass = "auth"
	failContentFilter failureClass = "content_filter"
	failUnknown       failureClass = "unknown"
)

// classifyUpstream sorts an upstream error into the retry taxonomy.
// Provider errors carry an HTTP status; everything else is matched on
// error text, since SDK-shaped errors vary by provider.
func classifyUpstream(err error) failureClass {
	var pe *llm.ProviderError
	if errors.As(err, &pe) {
		switch pe.StatusCode {
		case 429:
			return failRateLimited
		case 401, 403:
			return failAuth
		}
		if strings.Contains(pe.Body, "API key") {
			return failAuth
		}
		if strings.Contains(pe.Body, "SAFETY") || strings.Contains(pe.Body, "content filter") {
			return failContentFilter
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return failTimedOut
	}

	text := err.Error()
	switch {
	case strings.Contains(text, "429"), strings.Contains(text, "rate limit"):
		return failRateLimited
	case strings.Contains(text, "timeout"), strings.Contains(text, "ETIMEDOUT"), strings.Contains(text, "deadline exceeded"):
		return failTimedOut
	case strings.Contains(text, "API key"), strings.Contains(text, "authentication"):
		return failAuth
	case strings.Contains(text, "content filter"):
		return failContentFilter
	}
	return failUnknown
}
