// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Editor   EditorConfig   `toml:"editor"`
	Feedback FeedbackConfig `toml:"feedback"`
}

// EditorConfig maps editor-related settings.
type EditorConfig struct {
	Panel *bool `toml:"panel"`
	Goal  *int  `toml:"goal"`
}

// FeedbackConfig maps LLM feedback settings. API keys are read from the
// environment only.
type FeedbackConfig struct {
	Provider    *string  `toml:"provider"`
	Model       *string  `toml:"model"`
	BaseURL     *string  `toml:"base-url"`
	Timeout     *string  `toml:"timeout"`
	MaxTokens   *int     `toml:"max-tokens"`
	RateSeconds *float64 `toml:"rate-seconds"`
}

// TimeoutDuration parses Timeout. A nil Timeout returns zero.
func (c FeedbackConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == nil {
		return 0, nil
	}
	d, err := time.ParseDuration(*c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid feedback timeout %q: %w", *c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid feedback timeout %q: must not be negative", *c.Timeout)
	}
	return d, nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}
