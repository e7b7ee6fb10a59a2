package llm

import (
	"testing"

	"github.com/chimeraproto/chimera/internal/core"
)

func TestResolveKnownModels(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		raw          string
		wantProvider string
		wantID       string
	}{
		{"gpt-4", ProviderOpenAI, "gpt-4"},
		{"GPT-4", ProviderOpenAI, "gpt-4"},
		{"gpt.4", ProviderOpenAI, "gpt-4"},
		{"gpt_4", ProviderOpenAI, "gpt-4"},
		{"model-gpt-4", ProviderOpenAI, "gpt-4"},
		{"claude-3.5-sonnet", ProviderAnthropic, "claude-3.5-sonnet"},
		{"CLAUDE-3.5-SONNET", ProviderAnthropic, "claude-3.5-sonnet"},
		{"gemini-2.0-flash", ProviderGoogle, "gemini-2.0-flash"},
		{"deepseek-chat", ProviderDeepSeek, "deepseek-chat"},
		{"llama-3.3-70b-versatile", ProviderGroq, "llama-3.3-70b-versatile"},
		{"echo", ProviderEcho, "echo"},
	}
	for _, tt := range tests {
		got := r.Resolve(tt.raw)
		if got.Provider != tt.wantProvider || got.ID != tt.wantID {
			t.Errorf("Resolve(%q) = (%s, %s), want (%s, %s)",
				tt.raw, got.Provider, got.ID, tt.wantProvider, tt.wantID)
		}
	}
}

func TestResolveVariantsAgree(t *testing.T) {
	r := NewRegistry()

	base := r.Resolve("gpt-4")
	for _, raw := range []string{"GPT-4", "gpt.4", "model-gpt-4"} {
		if got := r.Resolve(raw); got != base {
			t.Errorf("Resolve(%q) = %+v, want %+v", raw, got, base)
		}
	}
}

func TestResolveUnknownFallsBackToEcho(t *testing.T) {
	r := NewRegistry()

	got := r.Resolve("totally-made-up-model")
	if got.Provider != ProviderEcho {
		t.Errorf("unknown model should resolve to echo, got %s", got.Provider)
	}
	if got.ID != "totally-made-up-model" {
		t.Errorf("fallback should keep the cleaned id, got %q", got.ID)
	}

	got = r.Resolve("model-nope")
	if got.Provider != ProviderEcho || got.ID != "nope" {
		t.Errorf("fallback should strip the prefix first, got %+v", got)
	}
}

func TestSupported(t *testing.T) {
	r := NewRegistry()

	if !r.Supported("gpt-4") {
		t.Error("gpt-4 should be supported")
	}
	if !r.Supported("echo") {
		t.Error("echo itself counts as supported")
	}
	if r.Supported("made-up") {
		t.Error("unknown models are not supported")
	}
}

func TestModelsSortedAndCopied(t *testing.T) {
	r := NewRegistry()

	models := r.Models()
	if len(models) == 0 {
		t.Fatal("expected a non-empty model table")
	}
	for i := 1; i < len(models); i++ {
		prev, cur := models[i-1], models[i]
		if prev.Provider > cur.Provider ||
			(prev.Provider == cur.Provider && prev.ID > cur.ID) {
			t.Errorf("models out of order at %d: %+v before %+v", i, prev, cur)
		}
	}

	models[0] = core.ProviderModel{ID: "mutated"}
	if r.Models()[0].ID == "mutated" {
		t.Error("Models must return a copy")
	}
}
