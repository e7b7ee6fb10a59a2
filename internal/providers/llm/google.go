package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chimeraproto/chimera/internal/core"
)

type google struct {
	baseProvider
}

func NewGoogle() Provider {
	return &google{
		baseProvider: newBaseProvider("https://generativelanguage.googleapis.com", 60*time.Second),
	}
}

func (g *google) Name() string { return ProviderGoogle }

func (g *google) RequiresCredential() bool { return true }

func (g *google) Complete(ctx context.Context, model string, bundle core.Bundle, credential string) (Completion, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Role  string `json:"role"`
		Parts []part `json:"parts"`
	}

	// Gemini has no system role in v1beta; history maps user/model and
	// the system block rides along with the first user turn when there
	// is no history to carry it.
	var contents []content
	for _, m := range bundle.History {
		role := "user"
		if m.Role != core.RoleUser {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}

	userText := bundle.UserMessage
	if len(contents) == 0 {
		userText = fmt.Sprintf("%s\n\nUser: %s", bundle.SystemText(), userText)
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: userText}}})

	payload := map[string]any{
		"contents": contents,
		"generationConfig": map[string]any{
			"temperature":     chatTemperature,
			"maxOutputTokens": chatMaxTokens,
		},
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent?key=%s", model, url.QueryEscape(credential))
	resp, err := g.doRequest(ctx, http.MethodPost, path, payload, nil)
	if err != nil {
		return Completion{}, err
	}

	data, err := readBody(resp)
	if err != nil {
		return Completion{}, err
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []part `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return Completion{}, fmt.Errorf("decode: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return Completion{}, &upstreamError{status: resp.StatusCode, message: "no response generated"}
	}

	// Gemini does not report usage on this endpoint.
	return Completion{
		Reply: result.Candidates[0].Content.Parts[0].Text,
		Model: model,
	}, nil
}
