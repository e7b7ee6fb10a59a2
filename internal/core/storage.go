package core

import "context"

// MemoryStore is the persistence collaborator for memory records. The
// core only needs a bounded, recency-ordered candidate pool plus writes.
type MemoryStore interface {
	// FetchCandidates returns up to limit records for the workspace,
	// newest first.
	FetchCandidates(ctx context.Context, workspaceID string, limit int) ([]MemoryRecord, error)
	Save(ctx context.Context, record *MemoryRecord) error
	// UpdateContent replaces a record's body, regenerating its snippet
	// and bumping its version.
	UpdateContent(ctx context.Context, id, content string) error
}

// ConversationStore exposes the slices of a conversation the context
// assembler needs.
type ConversationStore interface {
	// History returns the last limit messages in chronological order.
	History(ctx context.Context, conversationID string, limit int) ([]Message, error)
	ActiveInjectedMemories(ctx context.Context, conversationID string) ([]MemoryRecord, error)
	AppendMessage(ctx context.Context, conversationID string, msg Message) error
	// InjectMemory links a memory into a conversation. Linking the same
	// memory twice is a no-op on the link itself.
	InjectMemory(ctx context.Context, conversationID, memoryID string) error
	SetInjectedActive(ctx context.Context, conversationID, memoryID string, active bool) error
}

// CredentialStore hands out already-decrypted provider secrets. The core
// treats them as opaque strings and never logs them.
type CredentialStore interface {
	CredentialFor(ctx context.Context, accountID, provider string) (string, bool, error)
}
