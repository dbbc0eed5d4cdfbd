package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

const (
	EnvAPIKey   = "AZURE_OPENAI_API_KEY"
	EnvEndpoint = "AZURE_OPENAI_ENDPOINT"

	DefaultModel        = "Mistral-small"
	DefaultSystemPrompt = "You are a legal assistant that analyzes contract clauses."
	DefaultHost         = "0.0.0.0"
	DefaultPort         = "5000"
	DefaultLogLevel     = "debug"
)

var (
	ErrMissingEnv      = errors.New("missing required environment variables")
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

type Config struct {
	APIKey       string
	Endpoint     string
	Model        string
	SystemPrompt string

	Port     string
	LogLevel string

	SlackBotToken  string
	SlackChannelID string
}

// Load reads the process environment once at startup. Callers must treat any
// error as fatal.
func Load() (*Config, error) {
	cfg := &Config{
		APIKey:         os.Getenv(EnvAPIKey),
		Endpoint:       os.Getenv(EnvEndpoint),
		Model:          DefaultModel,
		SystemPrompt:   DefaultSystemPrompt,
		Port:           getEnv("PORT", DefaultPort),
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
		SlackBotToken:  os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannelID: os.Getenv("SLACK_CHANNEL_ID"),
	}

	var missing []string
	if cfg.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if cfg.Endpoint == "" {
		missing = append(missing, EnvEndpoint)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return DefaultHost + ":" + c.Port
}

func (c *Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

func validateEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidEndpoint, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
