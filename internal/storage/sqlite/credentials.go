package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CredentialsRepo hands out provider secrets stored by the integrations
// layer. Secrets arrive here already decrypted and are treated as opaque
// strings; they are never logged.
type CredentialsRepo struct {
	db *sql.DB
}

func NewCredentialsRepo(db *sql.DB) *CredentialsRepo {
	return &CredentialsRepo{db: db}
}

func (r *CredentialsRepo) CredentialFor(ctx context.Context, accountID, provider string) (string, bool, error) {
	var key string
	err := r.db.QueryRowContext(ctx,
		`SELECT api_key FROM integrations WHERE account_id = ? AND provider = ?`,
		accountID, provider,
	).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query integration: %w", err)
	}
	return key, key != "", nil
}

// SetCredential upserts the secret for (account, provider).
func (r *CredentialsRepo) SetCredential(ctx context.Context, accountID, provider, key string) error {
	query := `INSERT INTO integrations (account_id, provider, api_key) VALUES (?, ?, ?)
		ON CONFLICT (account_id, provider) DO UPDATE SET api_key = excluded.api_key`
	if _, err := r.db.ExecContext(ctx, query, accountID, provider, key); err != nil {
		return fmt.Errorf("upsert integration: %w", err)
	}
	return nil
}
