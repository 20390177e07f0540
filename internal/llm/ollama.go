// Package llm provides Ollama (local LLM) implementation of the Provider interface.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/factchecker/satyata/internal/config"
	"github.com/factchecker/satyata/internal/models"
)

// OllamaProvider implements Provider using local Ollama server.
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(cfg *config.LLMConfig) (*OllamaProvider, error) {
	baseURL := cfg.OllamaURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	model := cfg.Model
	if model == "" {
		model = "llama3.2-vision"
	}

	return &OllamaProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: httpClientFor(cfg),
	}, nil
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// SupportsImages returns false: Ollama wants base64 image bytes, not URLs.
func (p *OllamaProvider) SupportsImages() bool {
	return false
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Format  string        `json:"format,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Complete generates a completion with /api/generate.
func (p *OllamaProvider) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	reqBody := ollamaGenerateRequest{
		Model:  model,
		Prompt: req.User,
		System: req.System,
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  maxTokensOr(req.MaxTokens),
		},
	}
	if req.JSONMode {
		reqBody.Format = "json"
	}

	var result ollamaGenerateResponse
	if err := postJSON(ctx, p.httpClient, "ollama", p.baseURL+"/api/generate", nil, reqBody, &result); err != nil {
		return "", err
	}

	if result.Error != "" {
		return "", &models.ProviderError{Provider: "ollama", Err: fmt.Errorf("%s", result.Error)}
	}

	return result.Response, nil
}
