// Package config provides configuration helpers and TOML parsing.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Env holds settings taken from PAGES_* environment variables.
type Env struct {
	Provider string
	Model    string
	APIKey   string
}

// LoadEnv reads environment overrides. The API key comes from PAGES_API_KEY,
// then from the provider's own variable (ANTHROPIC_API_KEY or OPENAI_API_KEY).
// provider is the name already resolved from flags and the config file; a
// PAGES_FEEDBACK_PROVIDER value takes its place.
func LoadEnv(provider string) Env {
	v := viper.New()
	v.SetEnvPrefix("PAGES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	env := Env{
		Provider: v.GetString("feedback.provider"),
		Model:    v.GetString("feedback.model"),
	}
	if env.Provider != "" {
		provider = env.Provider
	}

	names := []string{"api_key", "PAGES_API_KEY"}
	switch strings.ToLower(provider) {
	case "anthropic", "claude":
		names = append(names, "ANTHROPIC_API_KEY")
	case "openai":
		names = append(names, "OPENAI_API_KEY")
	}
	_ = v.BindEnv(names...)
	env.APIKey = strings.TrimSpace(v.GetString("api_key"))
	return env
}
