package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chimeraproto/chimera/internal/core"
)

// anthropicModelAliases maps canonical ids to the dated identifiers the
// Anthropic API expects.
var anthropicModelAliases = map[string]string{
	"claude-3.5-sonnet": "claude-3-5-sonnet-20241022",
	"claude-3-opus":     "claude-3-opus-20240229",
	"claude-3-sonnet":   "claude-3-sonnet-20240229",
	"claude-3-haiku":    "claude-3-haiku-20240307",
}

type anthropic struct {
	baseProvider
}

func NewAnthropic() Provider {
	return &anthropic{
		baseProvider: newBaseProvider("https://api.anthropic.com", 60*time.Second),
	}
}

func (a *anthropic) Name() string { return ProviderAnthropic }

func (a *anthropic) RequiresCredential() bool { return true }

func (a *anthropic) Complete(ctx context.Context, model string, bundle core.Bundle, credential string) (Completion, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	// Anthropic takes system instructions out of band and rejects
	// system-role turns in the messages array.
	var messages []msg
	for _, m := range bundle.History {
		if m.Role == core.RoleSystem {
			continue
		}
		messages = append(messages, msg{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, msg{Role: core.RoleUser, Content: bundle.UserMessage})

	apiModel := model
	if alias, ok := anthropicModelAliases[model]; ok {
		apiModel = alias
	}

	payload := map[string]any{
		"model":      apiModel,
		"system":     bundle.SystemText(),
		"messages":   messages,
		"max_tokens": chatMaxTokens,
	}

	headers := map[string]string{
		"x-api-key":         credential,
		"anthropic-version": "2023-06-01",
	}

	resp, err := a.doRequest(ctx, http.MethodPost, "/v1/messages", payload, headers)
	if err != nil {
		return Completion{}, err
	}

	data, err := readBody(resp)
	if err != nil {
		return Completion{}, err
	}

	var result struct {
		Model   string `json:"model"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return Completion{}, fmt.Errorf("decode: %w", err)
	}

	var text string
	for _, c := range result.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}

	echoed := result.Model
	if echoed == "" {
		echoed = model
	}
	return Completion{
		Reply:  text,
		Model:  echoed,
		Tokens: result.Usage.InputTokens + result.Usage.OutputTokens,
	}, nil
}
