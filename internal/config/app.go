package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/chimeraproto/chimera/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"CHIMERA_RUNTIME_PATH" envDefault:".chimera"`

	SystemPrompt string `env:"CHIMERA_SYSTEM_PROMPT" envDefault:"You are a helpful AI assistant in the Chimera Protocol system."`

	// Context budget
	MaxInjectedMemories int `env:"CHIMERA_MAX_INJECTED_MEMORIES" envDefault:"5"`
	MemoryCharLimit     int `env:"CHIMERA_MEMORY_CHAR_LIMIT" envDefault:"1000"`
	HistoryDepth        int `env:"CHIMERA_HISTORY_DEPTH" envDefault:"5"`

	// Relevance search
	CandidatePoolSize int `env:"CHIMERA_CANDIDATE_POOL" envDefault:"100"`
	DefaultTopK       int `env:"CHIMERA_SEARCH_TOP_K" envDefault:"5"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse app config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "chimera.db")
}
