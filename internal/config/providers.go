package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/chimeraproto/chimera/pkg/log"
)

// ProviderConfig holds the API keys the CLI harness hands to the
// dispatcher. In the API deployment credentials come from the
// CredentialStore instead; these env vars are a local convenience.
type ProviderConfig struct {
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GoogleAPIKey    string `env:"GOOGLE_API_KEY"`
	GroqAPIKey      string `env:"GROQ_API_KEY"`
	DeepSeekAPIKey  string `env:"DEEPSEEK_API_KEY"`

	Model string `env:"CHIMERA_MODEL" envDefault:"echo"`
}

func NewProviderConfig(ctx context.Context) *ProviderConfig {
	c := &ProviderConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse provider config")
	}
	return c
}

// KeyFor returns the configured key for a provider tag, empty when the
// provider has no local key.
func (c ProviderConfig) KeyFor(provider string) string {
	switch provider {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	case "google":
		return c.GoogleAPIKey
	case "groq":
		return c.GroqAPIKey
	case "deepseek":
		return c.DeepSeekAPIKey
	default:
		return ""
	}
}
