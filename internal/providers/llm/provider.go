package llm

import (
	"context"

	"github.com/chimeraproto/chimera/internal/core"
)

// Provider is one back end's transport adapter: it translates the
// canonical bundle into the provider's wire format, makes exactly one
// bounded call and normalizes the reply. Adapters return errors; the
// Dispatcher owns mapping them to DispatchResult values.
type Provider interface {
	Name() string
	// RequiresCredential reports whether a missing credential should
	// fail the call before any network activity.
	RequiresCredential() bool
	Complete(ctx context.Context, model string, bundle core.Bundle, credential string) (Completion, error)
}

// Completion is a provider's normalized successful reply.
type Completion struct {
	Reply string
	// Model is the identifier the provider echoed back, when it does.
	Model string
	// Tokens is the reported usage, 0 when the provider does not report.
	Tokens int
}

// buildChatMessages flattens a bundle into the OpenAI-style messages
// array: system block first, then history, then the user message.
func buildChatMessages(bundle core.Bundle) []map[string]string {
	messages := make([]map[string]string, 0, len(bundle.History)+2)

	messages = append(messages, map[string]string{
		"role":    core.RoleSystem,
		"content": bundle.SystemText(),
	})
	for _, msg := range bundle.History {
		messages = append(messages, map[string]string{
			"role":    msg.Role,
			"content": msg.Content,
		})
	}
	messages = append(messages, map[string]string{
		"role":    core.RoleUser,
		"content": bundle.UserMessage,
	})

	return messages
}
