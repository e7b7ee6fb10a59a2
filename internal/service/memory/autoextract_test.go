package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/chimeraproto/chimera/internal/core"
)

func TestAutoExtractSkipsTrivialExchanges(t *testing.T) {
	store := &fakeMemoryStore{}
	e := NewExtractor(store)

	created, err := e.AutoExtract(context.Background(), "ws", "conv-1", "echo", "hi", "hello there")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 || len(store.records) != 0 {
		t.Errorf("a greeting must not create memories, got %d", len(store.records))
	}
}

func TestAutoExtractHighImportanceExchange(t *testing.T) {
	store := &fakeMemoryStore{}
	e := NewExtractor(store)

	created, err := e.AutoExtract(context.Background(), "ws", "conv-1", "gpt-4",
		"remember I prefer dark mode in every editor", "Noted, dark mode it is.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) == 0 {
		t.Fatal("expected extracted memories")
	}

	var exchange *core.MemoryRecord
	for i := range created {
		if created[i].Metadata["source"] == "exchange" {
			exchange = &created[i]
		}
	}
	if exchange == nil {
		t.Fatal("high importance exchange should be saved whole")
	}
	if !strings.HasPrefix(exchange.Title, "Important: ") {
		t.Errorf("unexpected exchange title %q", exchange.Title)
	}
	if !strings.Contains(exchange.Content, "User: ") || !strings.Contains(exchange.Content, "Assistant: ") {
		t.Errorf("exchange content should carry both sides, got %q", exchange.Content)
	}

	hasTag := func(tags []string, want string) bool {
		for _, tag := range tags {
			if tag == want {
				return true
			}
		}
		return false
	}
	if !hasTag(exchange.Tags, "full-exchange") || !hasTag(exchange.Tags, "high-importance") {
		t.Errorf("exchange record missing marker tags: %v", exchange.Tags)
	}

	for _, rec := range created {
		if rec.WorkspaceID != "ws" {
			t.Errorf("record saved into wrong workspace %q", rec.WorkspaceID)
		}
		if rec.Metadata["conversation_id"] != "conv-1" {
			t.Errorf("record missing conversation metadata: %v", rec.Metadata)
		}
	}
}

func TestAutoExtractFactMetadata(t *testing.T) {
	store := &fakeMemoryStore{}
	e := NewExtractor(store)

	created, err := e.AutoExtract(context.Background(), "ws", "conv-9", "claude-3-haiku",
		"I am working on the billing service migration", "Good luck with it.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fact *core.MemoryRecord
	for i := range created {
		if created[i].Metadata["source"] == "user" {
			fact = &created[i]
		}
	}
	if fact == nil {
		t.Fatal("expected a fact record from the pattern match")
	}
	if fact.Metadata["auto_extracted"] != "true" {
		t.Errorf("fact should be marked auto extracted: %v", fact.Metadata)
	}
	if fact.Metadata["model_used"] != "claude-3-haiku" {
		t.Errorf("fact should carry the model used: %v", fact.Metadata)
	}
}
