package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/chimeraproto/chimera/internal/core"
	"github.com/chimeraproto/chimera/pkg/log"
)

const defaultCandidatePool = 100

// Searcher ranks stored memories against a query using keyword overlap.
// It is constructed once at composition time and scored against the live
// store per call, so it holds no index and no mutable state.
type Searcher struct {
	store    core.MemoryStore
	poolSize int
}

func NewSearcher(store core.MemoryStore, poolSize int) *Searcher {
	if poolSize <= 0 {
		poolSize = defaultCandidatePool
	}
	return &Searcher{store: store, poolSize: poolSize}
}

// Search returns up to topK records from the workspace scored against
// the query, best first; ties break toward the newer record. An empty or
// stopword-only query yields an empty result, not an error.
func (s *Searcher) Search(ctx context.Context, query, workspaceID string, topK int) ([]core.ScoredResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	candidates, err := s.store.FetchCandidates(ctx, workspaceID, s.poolSize)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	scored := make([]core.ScoredResult, 0, len(candidates))
	for _, record := range candidates {
		if score := Score(queryTokens, record); score > 0 {
			scored = append(scored, core.ScoredResult{Record: record, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Record.CreatedAt.After(scored[j].Record.CreatedAt)
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	log.FromCtx(ctx).Debug().
		Str("workspace", workspaceID).
		Int("candidates", len(candidates)).
		Int("results", len(scored)).
		Msg("memory search")

	return scored, nil
}
