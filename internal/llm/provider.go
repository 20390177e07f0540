// Package llm provides a pluggable interface for LLM providers.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/factchecker/satyata/internal/config"
)

// Request describes one chat completion.
type Request struct {
	System      string
	User        string
	ImageURL    string // attached as an image part when the provider supports it
	JSONMode    bool
	Temperature float64
	MaxTokens   int
	Model       string
}

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete generates a completion for the request and returns its text.
	Complete(ctx context.Context, req Request) (string, error)

	// Name returns the provider name.
	Name() string

	// SupportsImages returns whether image URLs can be attached to requests.
	SupportsImages() bool
}

// NewProvider creates a new LLM provider based on configuration.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "anthropic":
		return NewAnthropicProvider(cfg)
	case "gemini":
		return NewGeminiProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

func httpClientFor(cfg *config.LLMConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func maxTokensOr(n int) int {
	if n <= 0 {
		return 1000
	}
	return n
}
