// Package feedback asks an LLM writing coach for structured craft feedback.
package feedback

import (
	"context"
	"time"

	"github.com/verte-zerg/pages/internal/model"
)

// Provider sends one prompt to a model and returns its text reply.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single-turn completion request.
type Request struct {
	Prompt    string
	Model     string
	MaxTokens int
}

// Config holds provider settings.
type Config struct {
	// Provider is "anthropic", "openai", "ollama" or "" (disabled).
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	// MaxTokens caps the reply length.
	MaxTokens int
	// RateSeconds is the minimum gap between upstream calls.
	RateSeconds float64
}

// Defaults.
const (
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	DefaultMaxTokens      = 1024
	DefaultTimeout        = 60 * time.Second
	DefaultRateSeconds    = 5
)

// DefaultConfig returns the Anthropic setup with no key.
func DefaultConfig() Config {
	return Config{
		Provider:    "anthropic",
		Model:       DefaultAnthropicModel,
		Timeout:     DefaultTimeout,
		MaxTokens:   DefaultMaxTokens,
		RateSeconds: DefaultRateSeconds,
	}
}

// ConfigFromModel converts model.FeedbackConfig to Config.
func ConfigFromModel(cfg model.FeedbackConfig) Config {
	return Config{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		MaxTokens:   cfg.MaxTokens,
		RateSeconds: cfg.RateSeconds,
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c Config) maxTokens(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}

func (c Config) model(req Request, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}
