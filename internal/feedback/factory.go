// Package feedback asks an LLM writing coach for structured craft feedback.
package feedback

import (
	"fmt"
	"strings"
)

// NewProvider builds the provider named in cfg. An empty name returns a nil
// provider, which disables feedback.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "anthropic", "claude":
		return NewAnthropicProvider(cfg)
	case "openai":
		return NewOpenAIProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	case "", "none", "off":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown feedback provider: %s (supported: anthropic, openai, ollama)", cfg.Provider)
	}
}
