package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chimeraproto/chimera/internal/core"
)

type MemoriesRepo struct {
	db *sql.DB
}

func NewMemoriesRepo(db *sql.DB) *MemoriesRepo {
	return &MemoriesRepo{db: db}
}

func newID(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (r *MemoriesRepo) FetchCandidates(ctx context.Context, workspaceID string, limit int) ([]core.MemoryRecord, error) {
	query := `SELECT id, workspace_id, title, content, snippet, tags, metadata, version, created_at, updated_at
		FROM memories WHERE workspace_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, workspaceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer rows.Close()

	var records []core.MemoryRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *MemoriesRepo) Save(ctx context.Context, record *core.MemoryRecord) error {
	if record.ID == "" {
		record.ID = newID("memory")
	}
	if record.Snippet == "" {
		record.Snippet = core.MakeSnippet(record.Content)
	}
	if record.Version == 0 {
		record.Version = 1
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	tags, err := json.Marshal(record.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `INSERT INTO memories (id, workspace_id, title, content, snippet, tags, metadata, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		record.ID, record.WorkspaceID, record.Title, record.Content, record.Snippet,
		string(tags), string(metadata), record.Version, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

// UpdateContent replaces a record's body. The snippet is regenerated and
// the version bumped in the same statement, so it can only move forward.
func (r *MemoriesRepo) UpdateContent(ctx context.Context, id, content string) error {
	query := `UPDATE memories
		SET content = ?, snippet = ?, version = version + 1, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, content, core.MakeSnippet(content), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update memory: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("memory %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (core.MemoryRecord, error) {
	var record core.MemoryRecord
	var tags, metadata string

	if err := row.Scan(
		&record.ID, &record.WorkspaceID, &record.Title, &record.Content, &record.Snippet,
		&tags, &metadata, &record.Version, &record.CreatedAt, &record.UpdatedAt,
	); err != nil {
		return core.MemoryRecord{}, fmt.Errorf("scan memory: %w", err)
	}

	if tags != "" && tags != "null" {
		if err := json.Unmarshal([]byte(tags), &record.Tags); err != nil {
			return core.MemoryRecord{}, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if metadata != "" && metadata != "null" {
		if err := json.Unmarshal([]byte(metadata), &record.Metadata); err != nil {
			return core.MemoryRecord{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return record, nil
}
