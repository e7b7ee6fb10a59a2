package core

import "time"

const (
	ChimeraName      = "Chimera"
	ChimeraUserAgent = "Chimera-Core/0.1"
	ChimeraVersion   = "0.1.0"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

const snippetLength = 150

// MemoryRecord is a stored memory fragment scoped to a workspace.
type MemoryRecord struct {
	ID          string            `json:"id"`
	WorkspaceID string            `json:"workspace_id"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Snippet     string            `json:"snippet"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Version     int               `json:"version"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// MakeSnippet derives the short preview stored alongside a record.
func MakeSnippet(content string) string {
	if len(content) > snippetLength {
		return content[:snippetLength] + "..."
	}
	return content
}

// SetContent replaces the record body, regenerates the snippet and bumps
// the version. The version only ever moves forward.
func (m *MemoryRecord) SetContent(content string) {
	m.Content = content
	m.Snippet = MakeSnippet(content)
	m.Version++
	m.UpdatedAt = time.Now()
}

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// InjectedMemory links a memory record into a conversation. A link is
// unique per (conversation, memory); only active links reach the prompt.
type InjectedMemory struct {
	Record     MemoryRecord `json:"record"`
	Active     bool         `json:"active"`
	InjectedAt time.Time    `json:"injected_at"`
}

// ScoredResult pairs a record with its relevance score in [0,1].
type ScoredResult struct {
	Record MemoryRecord `json:"record"`
	Score  float64      `json:"score"`
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

type CandidateSource string

const (
	SourcePattern CandidateSource = "pattern"
	SourceKeyword CandidateSource = "keyword"
)

// FactCandidate is a span of text worth persisting as a memory.
// Candidates may overlap; deduplication is the caller's concern.
type FactCandidate struct {
	Text       string          `json:"text"`
	Confidence Confidence      `json:"confidence"`
	Source     CandidateSource `json:"source"`
}

type Importance string

const (
	ImportanceNone   Importance = "none"
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

func (i Importance) ShouldPersist() bool {
	return i != ImportanceNone && i != ""
}

// ProviderModel is the canonical (provider, model) pair a raw model
// identifier resolves to.
type ProviderModel struct {
	ID          string `json:"id"`
	Provider    string `json:"provider"`
	DisplayName string `json:"display_name"`
}

// Bundle is the assembled request fed to a provider adapter: system
// instructions, the optional injected-memories block, bounded history and
// the current user message, in that order.
type Bundle struct {
	SystemPrompt    string    `json:"system_prompt"`
	MemoriesText    string    `json:"memories_text,omitempty"`
	History         []Message `json:"history,omitempty"`
	UserMessage     string    `json:"user_message"`
	EstimatedTokens int       `json:"estimated_tokens"`
}

// SystemText is the system instruction block as providers consume it:
// the prompt followed by the memories block when one is present.
func (b Bundle) SystemText() string {
	return b.SystemPrompt + b.MemoriesText
}

type DispatchStatus string

const (
	StatusSucceeded DispatchStatus = "succeeded"
	StatusFailed    DispatchStatus = "failed"
)

type ErrorKind string

const (
	ErrorKindAuth      ErrorKind = "auth"
	ErrorKindTimeout   ErrorKind = "timeout"
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindUpstream  ErrorKind = "upstream"
	ErrorKindInternal  ErrorKind = "internal"
)

// DispatchResult is the uniform outcome of one provider call. Every
// failure mode is represented as a value; dispatch never returns an error
// and never lets a panic escape its boundary.
type DispatchResult struct {
	Reply       string         `json:"reply"`
	Provider    string         `json:"provider"`
	Model       string         `json:"model"`
	TokenUsage  int            `json:"token_usage"`
	Status      DispatchStatus `json:"status"`
	ErrorKind   ErrorKind      `json:"error_kind,omitempty"`
	ErrorDetail string         `json:"error_detail,omitempty"`
}

func (r DispatchResult) Succeeded() bool {
	return r.Status == StatusSucceeded
}
