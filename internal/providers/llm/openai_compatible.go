package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chimeraproto/chimera/internal/core"
)

const (
	chatTemperature = 0.7
	chatMaxTokens   = 2000
)

// openAICompatible serves every back end speaking the OpenAI chat
// completions dialect. OpenAI, Groq and DeepSeek are thin wrappers over
// it differing only in name, base URL and timeout.
type openAICompatible struct {
	baseProvider
	name string
	path string
}

type openAICompatibleConfig struct {
	Name    string
	BaseURL string
	Path    string
	Timeout time.Duration
}

func newOpenAICompatible(cfg openAICompatibleConfig) *openAICompatible {
	path := cfg.Path
	if path == "" {
		path = "/v1/chat/completions"
	}
	return &openAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.Timeout),
		name:         cfg.Name,
		path:         path,
	}
}

func (o *openAICompatible) Name() string { return o.name }

func (o *openAICompatible) RequiresCredential() bool { return true }

func (o *openAICompatible) Complete(ctx context.Context, model string, bundle core.Bundle, credential string) (Completion, error) {
	payload := map[string]any{
		"model":       model,
		"messages":    buildChatMessages(bundle),
		"temperature": chatTemperature,
		"max_tokens":  chatMaxTokens,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + credential,
	}

	resp, err := o.doRequest(ctx, http.MethodPost, o.path, payload, headers)
	if err != nil {
		return Completion{}, err
	}

	data, err := readBody(resp)
	if err != nil {
		return Completion{}, err
	}

	var result struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return Completion{}, fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return Completion{}, fmt.Errorf("empty choices")
	}

	echoed := result.Model
	if echoed == "" {
		echoed = model
	}
	return Completion{
		Reply:  result.Choices[0].Message.Content,
		Model:  echoed,
		Tokens: result.Usage.TotalTokens,
	}, nil
}

// NewOpenAI talks to api.openai.com.
func NewOpenAI() Provider {
	return newOpenAICompatible(openAICompatibleConfig{
		Name:    ProviderOpenAI,
		BaseURL: "https://api.openai.com",
		Timeout: 60 * time.Second,
	})
}

// NewGroq talks to Groq's OpenAI-compatible endpoint. Groq is fast, so
// its call budget is tighter.
func NewGroq() Provider {
	return newOpenAICompatible(openAICompatibleConfig{
		Name:    ProviderGroq,
		BaseURL: "https://api.groq.com",
		Path:    "/openai/v1/chat/completions",
		Timeout: 30 * time.Second,
	})
}

// NewDeepSeek talks to DeepSeek's OpenAI-compatible endpoint.
func NewDeepSeek() Provider {
	return newOpenAICompatible(openAICompatibleConfig{
		Name:    ProviderDeepSeek,
		BaseURL: "https://api.deepseek.com",
		Path:    "/chat/completions",
		Timeout: 60 * time.Second,
	})
}
