package main

import (
	"context"
	"fmt"

	"github.com/chimeraproto/chimera/internal/config"
	"github.com/chimeraproto/chimera/internal/providers/llm"
	"github.com/chimeraproto/chimera/internal/service/engine"
	"github.com/chimeraproto/chimera/internal/storage/sqlite"
)

// envCredentials satisfies the credential store from local env vars so
// the harness works without an integrations table row.
type envCredentials struct {
	cfg  *config.ProviderConfig
	repo *sqlite.CredentialsRepo
}

func (c *envCredentials) CredentialFor(ctx context.Context, accountID, provider string) (string, bool, error) {
	if key := c.cfg.KeyFor(provider); key != "" {
		return key, true, nil
	}
	return c.repo.CredentialFor(ctx, accountID, provider)
}

func newEngine(ctx context.Context, appCfg *config.AppConfig, provCfg *config.ProviderConfig) (*engine.Engine, error) {
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	creds := &envCredentials{cfg: provCfg, repo: sqlite.NewCredentialsRepo(db)}

	return engine.New(
		appCfg,
		sqlite.NewMemoriesRepo(db),
		sqlite.NewConversationsRepo(db),
		creds,
		llm.NewDefaultDispatcher(),
	), nil
}
