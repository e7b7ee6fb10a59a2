package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chimeraproto/chimera/internal/core"
)

func testProvider(t *testing.T, handler http.HandlerFunc) (*openAICompatible, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	p := newOpenAICompatible(openAICompatibleConfig{
		Name:    ProviderOpenAI,
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	return p, server
}

func TestDispatchSuccess(t *testing.T) {
	p, _ := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		fmt.Fprint(w, `{
			"model": "gpt-4-0613",
			"choices": [{"message": {"content": "hello from upstream"}}],
			"usage": {"total_tokens": 42}
		}`)
	})
	d := NewDispatcher(p)

	result := d.Dispatch(context.Background(),
		core.ProviderModel{ID: "gpt-4", Provider: ProviderOpenAI},
		core.Bundle{UserMessage: "hi"}, "sk-test")

	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Reply != "hello from upstream" {
		t.Errorf("unexpected reply %q", result.Reply)
	}
	if result.Model != "gpt-4-0613" {
		t.Errorf("result should carry the upstream-echoed model, got %q", result.Model)
	}
	if result.TokenUsage != 42 {
		t.Errorf("unexpected token usage %d", result.TokenUsage)
	}
	if result.ErrorKind != "" || result.ErrorDetail != "" {
		t.Errorf("success must not carry error fields: %+v", result)
	}
}

func TestDispatchUpstreamError(t *testing.T) {
	p, _ := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"message": "model overloaded"}}`)
	})
	d := NewDispatcher(p)

	result := d.Dispatch(context.Background(),
		core.ProviderModel{ID: "gpt-4", Provider: ProviderOpenAI},
		core.Bundle{UserMessage: "hi"}, "sk-test")

	if result.Succeeded() {
		t.Fatal("expected failure")
	}
	if result.ErrorKind != core.ErrorKindUpstream {
		t.Errorf("expected upstream error kind, got %q", result.ErrorKind)
	}
	if result.ErrorDetail != "model overloaded" {
		t.Errorf("detail should be the provider's message, got %q", result.ErrorDetail)
	}
}

func TestDispatchTruncatesErrorDetail(t *testing.T) {
	long := strings.Repeat("x", 500)
	p, _ := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprintf(w, `{"error": {"message": %q}}`, long)
	})
	d := NewDispatcher(p)

	result := d.Dispatch(context.Background(),
		core.ProviderModel{ID: "gpt-4", Provider: ProviderOpenAI},
		core.Bundle{UserMessage: "hi"}, "sk-test")

	if len(result.ErrorDetail) != maxErrorDetail {
		t.Errorf("detail should be cut to %d chars, got %d", maxErrorDetail, len(result.ErrorDetail))
	}
}

func TestDispatchMissingCredential(t *testing.T) {
	var hits int
	p, _ := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})
	d := NewDispatcher(p)

	result := d.Dispatch(context.Background(),
		core.ProviderModel{ID: "gpt-4", Provider: ProviderOpenAI},
		core.Bundle{UserMessage: "hi"}, "")

	if result.Succeeded() {
		t.Fatal("expected failure")
	}
	if result.ErrorKind != core.ErrorKindAuth {
		t.Errorf("expected auth error kind, got %q", result.ErrorKind)
	}
	if !strings.Contains(result.ErrorDetail, ProviderOpenAI) {
		t.Errorf("detail should name the provider, got %q", result.ErrorDetail)
	}
	if hits != 0 {
		t.Errorf("no network call should be made without a credential, got %d", hits)
	}
}

func TestDispatchCanceledContext(t *testing.T) {
	p, _ := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": [{"message": {"content": "late"}}]}`)
	})
	d := NewDispatcher(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := d.Dispatch(ctx,
		core.ProviderModel{ID: "gpt-4", Provider: ProviderOpenAI},
		core.Bundle{UserMessage: "hi"}, "sk-test")

	if result.ErrorKind != core.ErrorKindTimeout {
		t.Errorf("canceled context should classify as timeout, got %q", result.ErrorKind)
	}
}

type panickingProvider struct{}

func (panickingProvider) Name() string             { return ProviderOpenAI }
func (panickingProvider) RequiresCredential() bool { return false }
func (panickingProvider) Complete(context.Context, string, core.Bundle, string) (Completion, error) {
	panic("adapter bug")
}

func TestDispatchRecoversPanic(t *testing.T) {
	d := NewDispatcher(panickingProvider{})

	result := d.Dispatch(context.Background(),
		core.ProviderModel{ID: "gpt-4", Provider: ProviderOpenAI},
		core.Bundle{UserMessage: "hi"}, "")

	if result.Succeeded() {
		t.Fatal("expected failure")
	}
	if result.ErrorKind != core.ErrorKindInternal {
		t.Errorf("panic should surface as internal, got %q", result.ErrorKind)
	}
}

func TestDispatchUnknownProviderFallsBackToEcho(t *testing.T) {
	d := NewDispatcher()

	result := d.Dispatch(context.Background(),
		core.ProviderModel{ID: "mystery", Provider: "mystery-cloud"},
		core.Bundle{UserMessage: "hello there"}, "")

	if !result.Succeeded() {
		t.Fatalf("echo fallback should succeed, got %+v", result)
	}
	if result.Provider != ProviderEcho {
		t.Errorf("expected echo provider, got %q", result.Provider)
	}
	if !strings.Contains(result.Reply, "hello there") {
		t.Errorf("echo reply should quote the message, got %q", result.Reply)
	}
}

func TestEchoNeedsNoCredential(t *testing.T) {
	d := NewDispatcher()

	result := d.Dispatch(context.Background(),
		core.ProviderModel{ID: "echo", Provider: ProviderEcho},
		core.Bundle{UserMessage: "ping"}, "")

	if !result.Succeeded() {
		t.Fatalf("echo must work without credentials, got %+v", result)
	}
	if result.TokenUsage != 1 {
		t.Errorf("echo token usage is the word count, got %d", result.TokenUsage)
	}
}
