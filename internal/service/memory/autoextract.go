package memory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chimeraproto/chimera/internal/core"
	"github.com/chimeraproto/chimera/pkg/log"
)

const titleLength = 50

// Extractor persists the facts worth keeping out of a finished exchange.
// The heuristics it applies are the pure functions in this package; the
// only side effect is the MemoryStore writes.
type Extractor struct {
	store core.MemoryStore
}

func NewExtractor(store core.MemoryStore) *Extractor {
	return &Extractor{store: store}
}

// AutoExtract classifies the user message and, when it warrants
// persistence, saves one record per extracted fact. A high-importance
// exchange is additionally saved whole. Returns the created records.
func (e *Extractor) AutoExtract(ctx context.Context, workspaceID, conversationID, modelUsed, userMessage, assistantReply string) ([]core.MemoryRecord, error) {
	importance := Classify(userMessage)
	if !importance.ShouldPersist() {
		return nil, nil
	}

	var created []core.MemoryRecord

	for _, fact := range ExtractFacts(userMessage) {
		record := core.MemoryRecord{
			WorkspaceID: workspaceID,
			Title:       makeTitle(fact.Text),
			Content:     fact.Text,
			Tags:        GenerateTags(fact.Text),
			Metadata: map[string]string{
				"source":           "user",
				"auto_extracted":   "true",
				"importance":       string(importance),
				"importance_score": strconv.FormatFloat(ImportanceScore(fact.Text), 'f', 2, 64),
				"extraction_type":  string(fact.Source),
				"model_used":       modelUsed,
				"conversation_id":  conversationID,
			},
		}
		if err := e.store.Save(ctx, &record); err != nil {
			return created, fmt.Errorf("save fact: %w", err)
		}
		created = append(created, record)
	}

	if importance == core.ImportanceHigh {
		exchange := fmt.Sprintf("User: %s\n\nAssistant: %s", userMessage, assistantReply)
		record := core.MemoryRecord{
			WorkspaceID: workspaceID,
			Title:       "Important: " + makeTitle(userMessage),
			Content:     exchange,
			Tags:        append(GenerateTags(userMessage+" "+assistantReply), "full-exchange", "high-importance"),
			Metadata: map[string]string{
				"source":          "exchange",
				"auto_extracted":  "true",
				"importance":      string(importance),
				"model_used":      modelUsed,
				"conversation_id": conversationID,
			},
		}
		if err := e.store.Save(ctx, &record); err != nil {
			return created, fmt.Errorf("save exchange: %w", err)
		}
		created = append(created, record)
	}

	log.FromCtx(ctx).Debug().
		Str("importance", string(importance)).
		Int("created", len(created)).
		Msg("auto extraction")

	return created, nil
}

func makeTitle(text string) string {
	if len(text) > titleLength {
		return text[:titleLength] + "..."
	}
	return text
}
