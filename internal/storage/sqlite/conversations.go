package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chimeraproto/chimera/internal/core"
	"github.com/chimeraproto/chimera/pkg/log"
)

type ConversationsRepo struct {
	db *sql.DB
}

func NewConversationsRepo(db *sql.DB) *ConversationsRepo {
	return &ConversationsRepo{db: db}
}

// History returns the last limit messages in chronological order.
func (r *ConversationsRepo) History(ctx context.Context, conversationID string, limit int) ([]core.Message, error) {
	query := `SELECT role, content, created_at FROM messages
		WHERE conversation_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var msg core.Message
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Fetched newest-first for the LIMIT; callers want oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded history")
	return messages, nil
}

func (r *ConversationsRepo) AppendMessage(ctx context.Context, conversationID string, msg core.Message) error {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		newID("msg"), conversationID, msg.Role, msg.Content, ts,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *ConversationsRepo) ActiveInjectedMemories(ctx context.Context, conversationID string) ([]core.MemoryRecord, error) {
	query := `SELECT m.id, m.workspace_id, m.title, m.content, m.snippet, m.tags, m.metadata, m.version, m.created_at, m.updated_at
		FROM injected_memories im
		JOIN memories m ON m.id = im.memory_id
		WHERE im.conversation_id = ? AND im.is_active = 1
		ORDER BY im.injected_at, m.id`

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query injected memories: %w", err)
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

// InjectMemory links a memory into a conversation. The link is unique
// per (conversation, memory): re-injecting re-activates instead of
// duplicating.
func (r *ConversationsRepo) InjectMemory(ctx context.Context, conversationID, memoryID string) error {
	query := `INSERT INTO injected_memories (conversation_id, memory_id, is_active, injected_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (conversation_id, memory_id) DO UPDATE SET is_active = 1`
	_, err := r.db.ExecContext(ctx, query, conversationID, memoryID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("inject memory: %w", err)
	}
	return nil
}

func (r *ConversationsRepo) SetInjectedActive(ctx context.Context, conversationID, memoryID string, active bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE injected_memories SET is_active = ? WHERE conversation_id = ? AND memory_id = ?`,
		active, conversationID, memoryID,
	)
	if err != nil {
		return fmt.Errorf("set injected active: %w", err)
	}
	return nil
}
