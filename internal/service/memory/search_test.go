package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chimeraproto/chimera/internal/core"
)

type fakeMemoryStore struct {
	records []core.MemoryRecord
	err     error
}

func (f *fakeMemoryStore) FetchCandidates(_ context.Context, workspaceID string, limit int) ([]core.MemoryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.MemoryRecord
	for _, r := range f.records {
		if r.WorkspaceID == workspaceID {
			out = append(out, r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMemoryStore) Save(_ context.Context, record *core.MemoryRecord) error {
	if record.ID == "" {
		record.ID = "memory-fake"
	}
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeMemoryStore) UpdateContent(_ context.Context, id, content string) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].SetContent(content)
			return nil
		}
	}
	return errors.New("not found")
}

func searchStore(now time.Time) *fakeMemoryStore {
	return &fakeMemoryStore{records: []core.MemoryRecord{
		{ID: "m1", WorkspaceID: "ws", Title: "dark mode preference", Content: "user prefers dark mode", CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "m2", WorkspaceID: "ws", Title: "editor settings", Content: "uses dark themes in the editor", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "m3", WorkspaceID: "ws", Title: "lunch order", Content: "pizza on fridays", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "m4", WorkspaceID: "other", Title: "dark mode", Content: "should never appear", CreatedAt: now},
	}}
}

func TestSearchRanksAndCaps(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewSearcher(searchStore(now), 100)

	results, err := s.Search(ctx, "dark mode", "ws", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Record.ID != "m1" {
		t.Errorf("expected m1 first (both tokens in title), got %s", results[0].Record.ID)
	}
	for _, r := range results {
		if r.Score <= 0 || r.Score > 1 {
			t.Errorf("score %f out of (0,1]", r.Score)
		}
	}
	if results[0].Score < results[1].Score {
		t.Error("results not sorted by descending score")
	}

	capped, err := s.Search(ctx, "dark mode", "ws", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(capped) != 1 {
		t.Errorf("expected topK=1 to cap results, got %d", len(capped))
	}
}

func TestSearchTieBreaksByRecency(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := &fakeMemoryStore{records: []core.MemoryRecord{
		{ID: "old", WorkspaceID: "ws", Title: "golang", Content: "notes", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "new", WorkspaceID: "ws", Title: "golang", Content: "notes", CreatedAt: now.Add(-1 * time.Hour)},
	}}
	s := NewSearcher(store, 100)

	results, err := s.Search(ctx, "golang", "ws", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Record.ID != "new" {
		t.Errorf("equal scores should rank the newer record first, got %s", results[0].Record.ID)
	}
}

func TestSearchDegenerateQueries(t *testing.T) {
	ctx := context.Background()
	s := NewSearcher(searchStore(time.Now()), 100)

	for _, query := range []string{"", "   ", "the a an is", "to of in"} {
		results, err := s.Search(ctx, query, "ws", 5)
		if err != nil {
			t.Errorf("query %q: unexpected error %v", query, err)
		}
		if len(results) != 0 {
			t.Errorf("query %q: expected empty result, got %d", query, len(results))
		}
	}
}

func TestSearchEmptyScope(t *testing.T) {
	ctx := context.Background()
	s := NewSearcher(&fakeMemoryStore{}, 100)

	results, err := s.Search(ctx, "anything interesting", "ws", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result for empty scope, got %d", len(results))
	}
}

func TestSearchPropagatesStoreError(t *testing.T) {
	ctx := context.Background()
	s := NewSearcher(&fakeMemoryStore{err: errors.New("db down")}, 100)

	if _, err := s.Search(ctx, "real query", "ws", 5); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
