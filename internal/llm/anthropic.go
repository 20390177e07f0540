// Package llm provides Anthropic Claude implementation of the Provider interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/factchecker/satyata/internal/config"
	"github.com/factchecker/satyata/internal/models"
)

const anthropicURL = "https://api.anthropic.com/v1/messages"

// AnthropicProvider implements Provider using Anthropic Claude API.
type AnthropicProvider struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg *config.LLMConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}

	url := anthropicURL
	if cfg.BaseURL != "" {
		url = strings.TrimSuffix(cfg.BaseURL, "/") + "/v1/messages"
	}

	return &AnthropicProvider{
		apiKey:     cfg.APIKey,
		model:      model,
		url:        url,
		httpClient: httpClientFor(cfg),
	}, nil
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// SupportsImages returns true as Claude accepts URL image sources.
func (p *AnthropicProvider) SupportsImages() bool {
	return true
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete generates a completion with the messages API. Claude has no JSON
// response mode, so JSONMode relies on the prompt and on prefilling "{".
func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	content := []anthropicContent{{Type: "text", Text: req.User}}
	if req.ImageURL != "" {
		content = append(content, anthropicContent{
			Type:   "image",
			Source: &anthropicImageSource{Type: "url", URL: req.ImageURL},
		})
	}

	reqBody := anthropicRequest{
		Model:       model,
		MaxTokens:   maxTokensOr(req.MaxTokens),
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: content}},
	}
	if req.JSONMode {
		reqBody.Messages = append(reqBody.Messages, anthropicMessage{
			Role:    "assistant",
			Content: []anthropicContent{{Type: "text", Text: "{"}},
		})
	}

	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	}

	var result anthropicResponse
	if err := postJSON(ctx, p.httpClient, "anthropic", p.url, headers, reqBody, &result); err != nil {
		return "", err
	}

	if len(result.Content) == 0 {
		return "", &models.ProviderError{Provider: "anthropic", Err: errors.New("no content returned")}
	}

	var text strings.Builder
	if req.JSONMode {
		text.WriteString("{")
	}
	for _, c := range result.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	return text.String(), nil
}
