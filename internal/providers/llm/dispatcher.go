package llm

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/chimeraproto/chimera/internal/core"
	"github.com/chimeraproto/chimera/pkg/log"
)

const maxErrorDetail = 200

// Dispatcher routes a resolved (provider, model) pair to its adapter and
// performs exactly one attempt. Retry is caller policy. Every failure
// mode comes back as a DispatchResult value; nothing panics across this
// boundary.
type Dispatcher struct {
	providers map[string]Provider
	fallback  Provider
}

// NewDispatcher registers adapters by name. The echo stub is always
// present as the fallback for unknown provider tags.
func NewDispatcher(providers ...Provider) *Dispatcher {
	d := &Dispatcher{
		providers: make(map[string]Provider, len(providers)+1),
		fallback:  NewEcho(),
	}
	d.providers[ProviderEcho] = d.fallback
	for _, p := range providers {
		d.providers[p.Name()] = p
	}
	return d
}

// NewDefaultDispatcher wires every adapter this module ships.
func NewDefaultDispatcher() *Dispatcher {
	return NewDispatcher(
		NewOpenAI(),
		NewAnthropic(),
		NewGoogle(),
		NewGroq(),
		NewDeepSeek(),
	)
}

func (d *Dispatcher) Dispatch(ctx context.Context, model core.ProviderModel, bundle core.Bundle, credential string) (result core.DispatchResult) {
	provider, ok := d.providers[model.Provider]
	if !ok {
		provider = d.fallback
	}

	result = core.DispatchResult{
		Provider: provider.Name(),
		Model:    model.ID,
		Status:   core.StatusFailed,
	}

	// An adapter bug must surface as a failed result, not a panic in
	// the calling layer.
	defer func() {
		if r := recover(); r != nil {
			log.FromCtx(ctx).Error().
				Interface("panic", r).
				Str("provider", provider.Name()).
				Msg("provider adapter panicked")
			result.ErrorKind = core.ErrorKindInternal
			result.ErrorDetail = "internal adapter failure"
		}
	}()

	if provider.RequiresCredential() && credential == "" {
		result.ErrorKind = core.ErrorKindAuth
		result.ErrorDetail = "no API key configured for " + provider.Name()
		return result
	}

	completion, err := provider.Complete(ctx, model.ID, bundle, credential)
	if err != nil {
		kind, detail := classifyError(err)
		log.FromCtx(ctx).Warn().
			Str("provider", provider.Name()).
			Str("model", model.ID).
			Str("kind", string(kind)).
			Msg("dispatch failed")
		result.ErrorKind = kind
		result.ErrorDetail = truncateDetail(detail)
		return result
	}

	result.Status = core.StatusSucceeded
	result.Reply = completion.Reply
	result.Model = completion.Model
	result.TokenUsage = completion.Tokens
	return result
}

func classifyError(err error) (core.ErrorKind, string) {
	var up *upstreamError
	if errors.As(err, &up) {
		return core.ErrorKindUpstream, up.message
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return core.ErrorKindTimeout, "request timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return core.ErrorKindTimeout, "request timeout"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return core.ErrorKindTransport, urlErr.Error()
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return core.ErrorKindTransport, opErr.Error()
	}

	return core.ErrorKindInternal, err.Error()
}

func truncateDetail(s string) string {
	if len(s) > maxErrorDetail {
		return s[:maxErrorDetail]
	}
	return s
}
