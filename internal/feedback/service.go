// Package feedback asks an LLM writing coach for structured craft feedback.
package feedback

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/verte-zerg/pages/internal/analysis"
	"github.com/verte-zerg/pages/internal/log"
)

const (
	cacheTTL     = time.Hour
	cacheCleanup = 10 * time.Minute
)

// Service validates drafts, calls the provider and caches results.
type Service struct {
	provider Provider
	config   Config
	limiter  *rate.Limiter
	cache    *gocache.Cache
	log      *log.Logger
}

// NewService wraps provider. A nil provider yields a service that always
// returns ErrDisabled.
func NewService(provider Provider, cfg Config, logger *log.Logger) *Service {
	limit := rate.Inf
	if cfg.RateSeconds > 0 {
		limit = rate.Every(time.Duration(cfg.RateSeconds * float64(time.Second)))
	}
	return &Service{
		provider: provider,
		config:   cfg,
		limiter:  rate.NewLimiter(limit, 1),
		cache:    gocache.New(cacheTTL, cacheCleanup),
		log:      logger,
	}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider name, or "".
func (s *Service) ProviderName() string {
	if !s.Enabled() {
		return ""
	}
	return s.provider.Name()
}

// Analyze returns coach feedback for text. Drafts under MinWords fail with
// ErrTooShort; every upstream or decoding failure wraps ErrFailed.
func (s *Service) Analyze(ctx context.Context, text string) (Feedback, error) {
	if !s.Enabled() {
		return Feedback{}, ErrDisabled
	}
	if words := analysis.WordCount(text); words < MinWords {
		return Feedback{}, fmt.Errorf("%w: need %d more words", ErrTooShort, NeedMoreWords(words))
	}

	prompt := BuildPrompt(text)
	key := cacheKey(prompt)
	if cached, ok := s.cache.Get(key); ok {
		s.log.Printf("feedback: cache hit %s", key[:12])
		return cached.(Feedback), nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return Feedback{}, fmt.Errorf("%w: %w", ErrFailed, err)
	}

	started := time.Now()
	reply, err := s.provider.Complete(ctx, Request{
		Prompt:    prompt,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		s.log.Printf("feedback: %s failed after %s: %v", s.provider.Name(), time.Since(started).Round(time.Millisecond), err)
		return Feedback{}, fmt.Errorf("%w: %w", ErrFailed, err)
	}
	fb, err := Parse(reply)
	if err != nil {
		s.log.Printf("feedback: %s returned unparseable reply: %v", s.provider.Name(), err)
		return Feedback{}, fmt.Errorf("%w: %w", ErrFailed, err)
	}
	s.log.Printf("feedback: %s answered in %s", s.provider.Name(), time.Since(started).Round(time.Millisecond))

	s.cache.SetDefault(key, fb)
	return fb, nil
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
