// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Database   DatabaseConfig  `yaml:"database"`
	LLM        LLMConfig       `yaml:"llm"`
	Search     SearchConfig    `yaml:"search"`
	ImageHost  ImageHostConfig `yaml:"image_host"`
	RateLimits RateLimitConfig `yaml:"rate_limits"`
	Logging    LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	EnableUI       bool          `yaml:"enable_ui"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AdminToken     string        `yaml:"admin_token"` // enables /api/admin/audit when set
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, none
	Path   string `yaml:"path"`
}

type LLMConfig struct {
	Provider    string        `yaml:"provider"` // openai, anthropic, gemini, ollama
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	OllamaURL   string        `yaml:"ollama_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

type SearchConfig struct {
	APIKey            string        `yaml:"api_key"`
	Endpoint          string        `yaml:"endpoint"`
	ResultsPerQuery   int           `yaml:"results_per_query"`
	MaxContextChars   int           `yaml:"max_context_chars"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
	TrustedSites      []string      `yaml:"trusted_sites"`
}

type ImageHostConfig struct {
	APIKey            string        `yaml:"api_key"`
	Endpoint          string        `yaml:"endpoint"`
	MaxBytes          int64         `yaml:"max_bytes"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

type RateLimitConfig struct {
	Store          string        `yaml:"store"` // memory, redis
	RedisURL       string        `yaml:"redis_url"`
	MaxRequests    int           `yaml:"max_requests"`
	Window         time.Duration `yaml:"window"`
	MaxRequestsDay int           `yaml:"max_requests_per_day"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			EnableUI:       true,
			RequestTimeout: 90 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "./data/satyata.db",
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			Temperature: 0.3,
			MaxTokens:   1000,
			Timeout:     60 * time.Second,
		},
		Search: SearchConfig{
			Endpoint:          "https://google.serper.dev/search",
			ResultsPerQuery:   3,
			MaxContextChars:   12000,
			RequestsPerSecond: 10,
			Timeout:           10 * time.Second,
		},
		ImageHost: ImageHostConfig{
			Endpoint:          "https://api.imgbb.com/1/upload",
			MaxBytes:          5 * 1024 * 1024,
			Timeout:           30 * time.Second,
			RequestsPerMinute: 20,
		},
		RateLimits: RateLimitConfig{
			Store:          "memory",
			MaxRequests:    10,
			Window:         time.Minute,
			MaxRequestsDay: 100,
			SweepInterval:  5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run with -generate-config to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, interpolating ${VAR} references from the
// environment, and validates the result.
func Parse(data []byte) (*Config, error) {
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# Satyata Configuration
# Secrets are read from the environment (or a .env file next to the binary).

server:
  port: 8080
  enable_ui: true
  request_timeout: 90s
  # admin_token: ${SATYATA_ADMIN_TOKEN}

database:
  driver: sqlite  # sqlite or none
  path: ./data/satyata.db

llm:
  provider: openai  # openai, anthropic, gemini, ollama
  model: gpt-4o
  api_key: ${OPENAI_API_KEY}
  temperature: 0.3  # openai: must be > 0
  max_tokens: 1000
  timeout: 60s

  # For Google Gemini:
  # provider: gemini
  # model: gemini-1.5-flash
  # api_key: ${GEMINI_API_KEY}

  # For Ollama (local):
  # provider: ollama
  # model: llama3.2-vision
  # ollama_url: http://localhost:11434

search:
  api_key: ${SERPER_API_KEY}
  endpoint: https://google.serper.dev/search
  results_per_query: 3
  max_context_chars: 12000
  requests_per_second: 10
  timeout: 10s

image_host:
  api_key: ${IMAGEBB_API_KEY}
  endpoint: https://api.imgbb.com/1/upload
  max_bytes: 5242880
  timeout: 30s
  requests_per_minute: 20

rate_limits:
  store: memory  # memory or redis
  # redis_url: redis://localhost:6379/0
  max_requests: 10
  window: 1m
  max_requests_per_day: 100
  sweep_interval: 5m

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "none" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	validProviders := map[string]bool{"openai": true, "anthropic": true, "gemini": true, "ollama": true}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}

	// Ollama runs locally and needs no key
	if c.LLM.Provider != "ollama" && !isSet(c.LLM.APIKey) {
		return fmt.Errorf("%s API key is required", c.LLM.Provider)
	}
	if !isSet(c.Search.APIKey) {
		return fmt.Errorf("Serper API key is required")
	}
	if !isSet(c.ImageHost.APIKey) {
		return fmt.Errorf("ImageBB API key is required")
	}

	if c.Server.AdminToken != "" && !isSet(c.Server.AdminToken) {
		return fmt.Errorf("admin_token is configured but unresolved")
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("invalid LLM temperature: %v", c.LLM.Temperature)
	}
	// go-openai omits a zero temperature, so the API default would apply.
	if c.LLM.Provider == "openai" && c.LLM.Temperature == 0 {
		return fmt.Errorf("openai temperature must be greater than 0")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("invalid LLM max_tokens: %d", c.LLM.MaxTokens)
	}

	if _, err := url.ParseRequestURI(c.Search.Endpoint); err != nil {
		return fmt.Errorf("invalid search endpoint: %w", err)
	}
	if c.Search.ResultsPerQuery <= 0 {
		return fmt.Errorf("invalid search results_per_query: %d", c.Search.ResultsPerQuery)
	}
	if _, err := url.ParseRequestURI(c.ImageHost.Endpoint); err != nil {
		return fmt.Errorf("invalid image host endpoint: %w", err)
	}
	if c.ImageHost.MaxBytes <= 0 {
		return fmt.Errorf("invalid image host max_bytes: %d", c.ImageHost.MaxBytes)
	}

	switch c.RateLimits.Store {
	case "memory":
	case "redis":
		if c.RateLimits.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the redis rate limit store")
		}
	default:
		return fmt.Errorf("unsupported rate limit store: %s", c.RateLimits.Store)
	}
	if c.RateLimits.MaxRequests <= 0 || c.RateLimits.Window <= 0 {
		return fmt.Errorf("rate limit max_requests and window must be positive")
	}

	return nil
}

var placeholderPattern = regexp.MustCompile(`^your_[a-z0-9_]*_here$`)

// isSet reports whether a secret has a real value: not empty, not an
// uninterpolated ${VAR} reference and not a your_*_here placeholder.
func isSet(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		return false
	}
	return !placeholderPattern.MatchString(strings.ToLower(value))
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
