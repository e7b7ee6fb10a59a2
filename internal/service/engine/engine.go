package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/chimeraproto/chimera/internal/config"
	"github.com/chimeraproto/chimera/internal/core"
	"github.com/chimeraproto/chimera/internal/providers/llm"
	"github.com/chimeraproto/chimera/internal/service/memory"
	"github.com/chimeraproto/chimera/internal/service/prompt"
	"github.com/chimeraproto/chimera/pkg/log"
)

// Engine is the composition root of the memory/dispatch core: the
// library surface the surrounding API layer consumes. It is constructed
// once and holds no global state, so tests can substitute any
// collaborator.
type Engine struct {
	memories      core.MemoryStore
	conversations core.ConversationStore
	credentials   core.CredentialStore

	searcher   *memory.Searcher
	extractor  *memory.Extractor
	assembler  *prompt.Assembler
	registry   *llm.Registry
	dispatcher *llm.Dispatcher
}

func New(
	cfg *config.AppConfig,
	memories core.MemoryStore,
	conversations core.ConversationStore,
	credentials core.CredentialStore,
	dispatcher *llm.Dispatcher,
) *Engine {
	return &Engine{
		memories:      memories,
		conversations: conversations,
		credentials:   credentials,
		searcher:      memory.NewSearcher(memories, cfg.CandidatePoolSize),
		extractor:     memory.NewExtractor(memories),
		assembler: prompt.NewAssembler(conversations, prompt.Options{
			SystemPrompt: cfg.SystemPrompt,
			MemoryCap:    cfg.MaxInjectedMemories,
			CharLimit:    cfg.MemoryCharLimit,
			HistoryCap:   cfg.HistoryDepth,
		}),
		registry:   llm.NewRegistry(),
		dispatcher: dispatcher,
	}
}

// Search ranks stored memories in a workspace against a query.
func (e *Engine) Search(ctx context.Context, query, workspaceID string, topK int) ([]core.ScoredResult, error) {
	return e.searcher.Search(ctx, query, workspaceID, topK)
}

// Classification is the full heuristic read on one text.
type Classification struct {
	Importance core.Importance      `json:"importance"`
	Tags       []string             `json:"tags"`
	Score      float64              `json:"score"`
	Candidates []core.FactCandidate `json:"candidates,omitempty"`
}

// Classify runs the pure persistence heuristics over a text. Calling it
// twice on the same input yields the same output.
func (e *Engine) Classify(text string) Classification {
	return Classification{
		Importance: memory.Classify(text),
		Tags:       memory.GenerateTags(text),
		Score:      memory.ImportanceScore(text),
		Candidates: memory.ExtractFacts(text),
	}
}

// BuildContext assembles the budgeted request bundle for a conversation.
func (e *Engine) BuildContext(ctx context.Context, conversationID, userMessage string) (core.Bundle, error) {
	return e.assembler.Build(ctx, conversationID, userMessage)
}

// ResolveProvider maps a raw model identifier to its canonical
// (provider, model) pair. Total; unknown ids degrade to echo.
func (e *Engine) ResolveProvider(modelID string) core.ProviderModel {
	return e.registry.Resolve(modelID)
}

// Models lists the known-model table.
func (e *Engine) Models() []core.ProviderModel {
	return e.registry.Models()
}

// Dispatch performs one provider call. All failures come back inside
// the result value.
func (e *Engine) Dispatch(ctx context.Context, model core.ProviderModel, bundle core.Bundle, credential string) core.DispatchResult {
	return e.dispatcher.Dispatch(ctx, model, bundle, credential)
}

// SendMessage is the full exchange path: assemble context, resolve the
// model, look up the account's credential, dispatch, persist both sides
// of the exchange and auto-extract memories from it. The dispatch result
// is returned even when it is a failure value; persistence of the
// exchange only happens on success.
func (e *Engine) SendMessage(ctx context.Context, accountID, workspaceID, conversationID, modelID, text string) (core.DispatchResult, error) {
	bundle, err := e.BuildContext(ctx, conversationID, text)
	if err != nil {
		return core.DispatchResult{}, fmt.Errorf("build context: %w", err)
	}

	model := e.registry.Resolve(modelID)

	credential, _, err := e.credentials.CredentialFor(ctx, accountID, model.Provider)
	if err != nil {
		return core.DispatchResult{}, fmt.Errorf("credential lookup: %w", err)
	}

	result := e.dispatcher.Dispatch(ctx, model, bundle, credential)
	if !result.Succeeded() {
		return result, nil
	}

	now := time.Now().UTC()
	if err := e.conversations.AppendMessage(ctx, conversationID, core.Message{
		Role: core.RoleUser, Content: text, Timestamp: now,
	}); err != nil {
		return result, fmt.Errorf("persist user message: %w", err)
	}
	if err := e.conversations.AppendMessage(ctx, conversationID, core.Message{
		Role: core.RoleAssistant, Content: result.Reply, Timestamp: now.Add(time.Millisecond),
	}); err != nil {
		return result, fmt.Errorf("persist assistant message: %w", err)
	}

	created, err := e.extractor.AutoExtract(ctx, workspaceID, conversationID, result.Model, text, result.Reply)
	if err != nil {
		// Extraction failures must not fail the exchange.
		log.FromCtx(ctx).Error().Err(err).Msg("auto extraction failed")
	} else if len(created) > 0 {
		log.FromCtx(ctx).Info().Int("memories", len(created)).Msg("memories extracted from exchange")
	}

	return result, nil
}
