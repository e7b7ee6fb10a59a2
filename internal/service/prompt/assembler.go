package prompt

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/chimeraproto/chimera/internal/core"
	"github.com/chimeraproto/chimera/pkg/log"
)

const (
	memoriesHeader    = "\n\n=== Injected Context ===\n"
	memoriesFooter    = "\n=== End Context ===\n"
	truncationMarker  = "... [truncated]"
	tiktokenEncoding  = "cl100k_base"
	defaultMemoryCap  = 5
	defaultCharLimit  = 1000
	defaultHistoryCap = 5
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

// Assembler merges system instructions, active injected memories,
// bounded history and the current message into one budgeted bundle.
type Assembler struct {
	conversations core.ConversationStore

	systemPrompt string
	memoryCap    int
	charLimit    int
	historyCap   int
}

type Options struct {
	SystemPrompt string
	MemoryCap    int // max injected memories per bundle
	CharLimit    int // max characters per memory body
	HistoryCap   int // max history messages
}

func NewAssembler(conversations core.ConversationStore, opts Options) *Assembler {
	if opts.MemoryCap <= 0 {
		opts.MemoryCap = defaultMemoryCap
	}
	if opts.CharLimit <= 0 {
		opts.CharLimit = defaultCharLimit
	}
	if opts.HistoryCap <= 0 {
		opts.HistoryCap = defaultHistoryCap
	}
	return &Assembler{
		conversations: conversations,
		systemPrompt:  opts.SystemPrompt,
		memoryCap:     opts.MemoryCap,
		charLimit:     opts.CharLimit,
		historyCap:    opts.HistoryCap,
	}
}

// Build assembles the request bundle for a conversation. Ordering is
// fixed: system block (with the memories block when any active memory
// exists), chronological history, then the user message last.
func (a *Assembler) Build(ctx context.Context, conversationID, userMessage string) (core.Bundle, error) {
	memories, err := a.conversations.ActiveInjectedMemories(ctx, conversationID)
	if err != nil {
		return core.Bundle{}, fmt.Errorf("active memories: %w", err)
	}

	history, err := a.conversations.History(ctx, conversationID, a.historyCap)
	if err != nil {
		return core.Bundle{}, fmt.Errorf("history: %w", err)
	}

	bundle := core.Bundle{
		SystemPrompt: a.systemPrompt,
		MemoriesText: a.renderMemories(memories),
		History:      history,
		UserMessage:  userMessage,
	}
	bundle.EstimatedTokens = estimateTokens(bundle)

	log.FromCtx(ctx).Debug().
		Str("conversation", conversationID).
		Int("memories", len(memories)).
		Int("history", len(history)).
		Int("tokens", bundle.EstimatedTokens).
		Msg("context assembled")

	return bundle, nil
}

// renderMemories formats the injected memories block. Empty when there
// are no active memories; the block is never emitted empty. Selection
// order is the caller's order, capped, each body truncated with an
// explicit marker rather than cut silently.
func (a *Assembler) renderMemories(memories []core.MemoryRecord) string {
	if len(memories) == 0 {
		return ""
	}
	if len(memories) > a.memoryCap {
		memories = memories[:a.memoryCap]
	}

	var sb strings.Builder
	sb.WriteString(memoriesHeader)
	for _, m := range memories {
		content := m.Content
		if len(content) > a.charLimit {
			content = content[:a.charLimit] + truncationMarker
		}
		fmt.Fprintf(&sb, "\n[%s]\n%s\n", m.Title, content)
	}
	sb.WriteString(memoriesFooter)
	return sb.String()
}

// estimateTokens counts bundle tokens with tiktoken, falling back to a
// whitespace split when the encoding cannot be loaded offline.
func estimateTokens(b core.Bundle) int {
	var sb strings.Builder
	sb.WriteString(b.SystemText())
	for _, m := range b.History {
		sb.WriteString(m.Content)
		sb.WriteByte('\n')
	}
	sb.WriteString(b.UserMessage)
	text := sb.String()

	tkOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tiktokenEncoding)
		if err == nil {
			tk = enc
		}
	})
	if tk == nil {
		return len(strings.Fields(text))
	}
	return len(tk.Encode(text, nil, nil))
}
