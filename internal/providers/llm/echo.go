package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/chimeraproto/chimera/internal/core"
)

// echoProvider is the deterministic stub every unresolved or
// uncredentialed route degrades to. It never fails and needs no
// credential, which keeps the pipeline total for demo accounts and
// tests.
type echoProvider struct{}

func NewEcho() Provider { return echoProvider{} }

func (echoProvider) Name() string { return ProviderEcho }

func (echoProvider) RequiresCredential() bool { return false }

func (echoProvider) Complete(_ context.Context, model string, bundle core.Bundle, _ string) (Completion, error) {
	reply := fmt.Sprintf(
		"[Echo Mode] Received: %s\n\nThis is a demo response. Connect an LLM provider to get real AI responses.",
		bundle.UserMessage,
	)
	return Completion{
		Reply:  reply,
		Model:  model,
		Tokens: len(strings.Fields(bundle.UserMessage)),
	}, nil
}
