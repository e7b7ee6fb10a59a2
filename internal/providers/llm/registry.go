package llm

import (
	"sort"
	"strings"

	"github.com/chimeraproto/chimera/internal/core"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
	ProviderDeepSeek  = "deepseek"
	ProviderGroq      = "groq"
	ProviderEcho      = "echo"
)

// modelPrefix is stripped from raw identifiers; some upstream callers
// send "model-gpt-4" style ids.
const modelPrefix = "model-"

var knownModels = []core.ProviderModel{
	{ID: "gpt-4", Provider: ProviderOpenAI, DisplayName: "GPT-4"},
	{ID: "gpt-4-turbo", Provider: ProviderOpenAI, DisplayName: "GPT-4 Turbo"},
	{ID: "gpt-4o", Provider: ProviderOpenAI, DisplayName: "GPT-4o"},
	{ID: "gpt-3.5-turbo", Provider: ProviderOpenAI, DisplayName: "GPT-3.5 Turbo"},

	{ID: "claude-3-opus", Provider: ProviderAnthropic, DisplayName: "Claude 3 Opus"},
	{ID: "claude-3-sonnet", Provider: ProviderAnthropic, DisplayName: "Claude 3 Sonnet"},
	{ID: "claude-3-haiku", Provider: ProviderAnthropic, DisplayName: "Claude 3 Haiku"},
	{ID: "claude-3.5-sonnet", Provider: ProviderAnthropic, DisplayName: "Claude 3.5 Sonnet"},

	{ID: "gemini-2.0-flash", Provider: ProviderGoogle, DisplayName: "Gemini 2.0 Flash"},
	{ID: "gemini-2.0-flash-exp", Provider: ProviderGoogle, DisplayName: "Gemini 2.0 Flash Experimental"},
	{ID: "gemini-1.5-flash", Provider: ProviderGoogle, DisplayName: "Gemini 1.5 Flash"},
	{ID: "gemini-1.5-pro", Provider: ProviderGoogle, DisplayName: "Gemini 1.5 Pro"},

	{ID: "deepseek-chat", Provider: ProviderDeepSeek, DisplayName: "DeepSeek Chat"},
	{ID: "deepseek-coder", Provider: ProviderDeepSeek, DisplayName: "DeepSeek Coder"},

	{ID: "llama-3.3-70b-versatile", Provider: ProviderGroq, DisplayName: "Llama 3.3 70B Versatile"},
	{ID: "llama-3.1-8b-instant", Provider: ProviderGroq, DisplayName: "Llama 3.1 8B Instant"},
	{ID: "mixtral-8x7b-32768", Provider: ProviderGroq, DisplayName: "Mixtral 8x7B"},
	{ID: "gemma2-9b-it", Provider: ProviderGroq, DisplayName: "Gemma 2 9B"},

	{ID: "echo", Provider: ProviderEcho, DisplayName: "Echo (demo)"},
}

// Registry resolves possibly-inconsistent raw model identifiers to a
// canonical (provider, model) pair. The lookup tables are built once and
// never mutated, so concurrent reads need no synchronization.
type Registry struct {
	exact      map[string]core.ProviderModel
	folded     map[string]core.ProviderModel
	normalized map[string]core.ProviderModel
}

func NewRegistry() *Registry {
	r := &Registry{
		exact:      make(map[string]core.ProviderModel, len(knownModels)),
		folded:     make(map[string]core.ProviderModel, len(knownModels)),
		normalized: make(map[string]core.ProviderModel, len(knownModels)),
	}
	for _, m := range knownModels {
		r.exact[m.ID] = m
		r.folded[strings.ToLower(m.ID)] = m
		r.normalized[normalizeModelID(m.ID)] = m
	}
	return r
}

// Resolve is total: it never errors. Unrecognized identifiers degrade to
// the echo stub provider. Matching is tried strictest first: exact, then
// case-insensitive, then punctuation-normalized (upstream callers drop
// dots and hyphens inconsistently).
func (r *Registry) Resolve(raw string) core.ProviderModel {
	clean := strings.TrimPrefix(raw, modelPrefix)

	if m, ok := r.exact[clean]; ok {
		return m
	}
	if m, ok := r.folded[strings.ToLower(clean)]; ok {
		return m
	}
	if m, ok := r.normalized[normalizeModelID(clean)]; ok {
		return m
	}

	return core.ProviderModel{ID: clean, Provider: ProviderEcho, DisplayName: clean}
}

// Supported reports whether a raw identifier maps to a real provider
// rather than the echo fallback.
func (r *Registry) Supported(raw string) bool {
	return r.Resolve(raw).Provider != ProviderEcho || strings.TrimPrefix(raw, modelPrefix) == "echo"
}

// Models lists the known-model table, stable order.
func (r *Registry) Models() []core.ProviderModel {
	out := make([]core.ProviderModel, len(knownModels))
	copy(out, knownModels)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func normalizeModelID(id string) string {
	id = strings.ToLower(id)
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '_':
			return -1
		}
		return r
	}, id)
}
