package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
llm:
  api_key: ${TEST_OPENAI_KEY}
search:
  api_key: ${TEST_SERPER_KEY}
image_host:
  api_key: ${TEST_IMGBB_KEY}
`

func TestParseInterpolatesEnvironment(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	t.Setenv("TEST_SERPER_KEY", "serper-test")
	t.Setenv("TEST_IMGBB_KEY", "imgbb-test")

	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "serper-test", cfg.Search.APIKey)
	assert.Equal(t, "imgbb-test", cfg.ImageHost.APIKey)

	// Defaults survive a partial file
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 0.3, cfg.LLM.Temperature)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
	assert.Equal(t, 3, cfg.Search.ResultsPerQuery)
	assert.Equal(t, 10, cfg.RateLimits.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateLimits.Window)
	assert.Equal(t, 100, cfg.RateLimits.MaxRequestsDay)
	assert.Equal(t, int64(5*1024*1024), cfg.ImageHost.MaxBytes)
}

func TestParseRejectsMissingKeys(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	t.Setenv("TEST_SERPER_KEY", "")
	t.Setenv("TEST_IMGBB_KEY", "imgbb-test")

	_, err := Parse([]byte(minimalYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Serper API key is required")
}

func TestParseRejectsPlaceholderKeys(t *testing.T) {
	data := []byte(`
llm:
  api_key: your_openai_api_key_here
search:
  api_key: serper
image_host:
  api_key: imgbb
`)
	_, err := Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai API key is required")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.LLM.APIKey = "sk"
		cfg.Search.APIKey = "serper"
		cfg.ImageHost.APIKey = "imgbb"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults with keys", mutate: func(*Config) {}},
		{name: "ollama needs no key", mutate: func(c *Config) { c.LLM.Provider = "ollama"; c.LLM.APIKey = "" }},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "invalid port"},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "postgres" }, wantErr: "unsupported database driver"},
		{name: "bad provider", mutate: func(c *Config) { c.LLM.Provider = "azure" }, wantErr: "unsupported LLM provider"},
		{name: "redis without url", mutate: func(c *Config) { c.RateLimits.Store = "redis" }, wantErr: "redis_url"},
		{name: "bad store", mutate: func(c *Config) { c.RateLimits.Store = "memcached" }, wantErr: "unsupported rate limit store"},
		{name: "uninterpolated key", mutate: func(c *Config) { c.ImageHost.APIKey = "${IMAGEBB_API_KEY}" }, wantErr: "ImageBB API key"},
		{name: "zero window", mutate: func(c *Config) { c.RateLimits.Window = 0 }, wantErr: "must be positive"},
		{name: "openai zero temperature", mutate: func(c *Config) { c.LLM.Temperature = 0 }, wantErr: "temperature must be greater than 0"},
		{name: "ollama zero temperature", mutate: func(c *Config) { c.LLM.Provider = "ollama"; c.LLM.Temperature = 0 }},
		{name: "unresolved admin token", mutate: func(c *Config) { c.Server.AdminToken = "${SATYATA_ADMIN_TOKEN}" }, wantErr: "admin_token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestGenerateSampleLoads(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SERPER_API_KEY", "serper-test")
	t.Setenv("IMAGEBB_API_KEY", "imgbb-test")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, GenerateSample(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://google.serper.dev/search", cfg.Search.Endpoint)
	assert.Equal(t, 12000, cfg.Search.MaxContextChars)
	assert.Equal(t, 5*time.Minute, cfg.RateLimits.SweepInterval)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}
