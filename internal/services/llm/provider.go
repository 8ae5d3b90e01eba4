// Package llm hosts the chat-model providers and the structured
// generation built on top of them: filing/article summarization, tag and
// ticker classification, and PDF form parsing.
package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/sahamlabs/emiten/internal/interfaces"
)

// Provider is one chat-capable model backend.
type Provider interface {
	// Name returns the provider name (e.g., "claude", "gemini")
	Name() string

	// Chat generates a completion for the conversation history.
	Chat(ctx context.Context, messages []interfaces.Message) (string, error)

	// Close releases provider resources.
	Close() error
}

// Collection iterates providers in configured order and returns the
// first successful completion. One shared rate limiter covers all
// providers; upstream quotas are per deployment, not per backend.
type Collection struct {
	providers []Provider
	limiter   *rate.Limiter
	logger    arbor.ILogger
}

// NewCollection builds the fallback chain. ratePerMinute <= 0 disables
// rate limiting.
func NewCollection(providers []Provider, ratePerMinute float64, logger arbor.ILogger) *Collection {
	var limiter *rate.Limiter
	if ratePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerMinute/60), 1)
	}
	return &Collection{
		providers: providers,
		limiter:   limiter,
		logger:    logger,
	}
}

// Chat tries each provider in order until one succeeds.
func (c *Collection) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(c.providers) == 0 {
		return "", fmt.Errorf("no LLM providers configured")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	var lastErr error
	for _, provider := range c.providers {
		response, err := provider.Chat(ctx, messages)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("provider", provider.Name()).
				Msg("Provider chat failed, trying next")
			lastErr = err
			continue
		}
		return response, nil
	}
	return "", fmt.Errorf("all LLM providers failed: %w", lastErr)
}

// Close closes every provider.
func (c *Collection) Close() error {
	var firstErr error
	for _, provider := range c.providers {
		if err := provider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
