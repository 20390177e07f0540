package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/factchecker/satyata/internal/config"
	"github.com/factchecker/satyata/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() Request {
	return Request{
		System:      "system prompt",
		User:        "user prompt",
		ImageURL:    "https://i.ibb.co/x/photo.jpg",
		JSONMode:    true,
		Temperature: 0.3,
		MaxTokens:   1000,
	}
}

func TestOpenAIProviderComplete(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"decision\":\"true\"}"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(&config.LLMConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1", Timeout: 5 * time.Second})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"decision":"true"}`, out)

	assert.Equal(t, "gpt-4o", body["model"])
	assert.Equal(t, float64(1000), body["max_tokens"])
	assert.InDelta(t, 0.3, body["temperature"], 0.0001)
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])

	messages := body["messages"].([]any)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, "system prompt", system["content"])

	user := messages[1].(map[string]any)
	parts := user["content"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].(map[string]any)["type"])
	imagePart := parts[1].(map[string]any)
	assert.Equal(t, "image_url", imagePart["type"])
	assert.Equal(t, "https://i.ibb.co/x/photo.jpg", imagePart["image_url"].(map[string]any)["url"])
}

func TestOpenAIProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(&config.LLMConfig{APIKey: "sk-bad", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), testRequest())
	var perr *models.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "openai", perr.Provider)
	assert.Equal(t, http.StatusUnauthorized, perr.StatusCode)
}

func TestOpenAIProviderNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","choices":[]}`)
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(&config.LLMConfig{APIKey: "sk", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), Request{User: "hi"})
	var perr *models.ProviderError
	assert.True(t, errors.As(err, &perr))
}

func TestGeminiProviderComplete(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"{\"a\":"},{"text":"1}"}]}}]}`)
	}))
	defer server.Close()

	p, err := NewGeminiProvider(&config.LLMConfig{APIKey: "g-key", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	gen := body["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", gen["responseMimeType"])
	assert.Equal(t, float64(1000), gen["maxOutputTokens"])
	assert.NotNil(t, body["systemInstruction"])
}

func TestAnthropicProviderComplete(t *testing.T) {
	var body anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "a-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"content":[{"type":"text","text":"\"decision\":\"false\"}"}]}`)
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(&config.LLMConfig{APIKey: "a-key", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"decision":"false"}`, out)

	assert.Equal(t, "system prompt", body.System)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "assistant", body.Messages[1].Role)
	require.Len(t, body.Messages[0].Content, 2)
	assert.Equal(t, "image", body.Messages[0].Content[1].Type)
	assert.Equal(t, "https://i.ibb.co/x/photo.jpg", body.Messages[0].Content[1].Source.URL)
}

func TestOllamaProviderComplete(t *testing.T) {
	var body ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"response":"{}","done":true}`)
	}))
	defer server.Close()

	p, err := NewOllamaProvider(&config.LLMConfig{OllamaURL: server.URL + "/"})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, "json", body.Format)
	assert.False(t, body.Stream)
	assert.Equal(t, 1000, body.Options.NumPredict)
}

func TestRawProviderNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p, err := NewOllamaProvider(&config.LLMConfig{OllamaURL: server.URL})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), Request{User: "x"})
	var perr *models.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusServiceUnavailable, perr.StatusCode)
	assert.Equal(t, "ollama", perr.Provider)
}

func TestNewProvider(t *testing.T) {
	for _, name := range []string{"openai", "anthropic", "gemini", "ollama"} {
		p, err := NewProvider(&config.LLMConfig{Provider: name, APIKey: "k"})
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}

	_, err := NewProvider(&config.LLMConfig{Provider: "azure"})
	assert.Error(t, err)
}
