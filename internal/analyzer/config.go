package analyzer

import "github.com/ricardonunez-io/clausecat/internal/config"

type Config struct {
	APIKey       string
	Endpoint     string
	Model        string
	SystemPrompt string
}

func DefaultConfig(apiKey, endpoint string) Config {
	return Config{
		APIKey:       apiKey,
		Endpoint:     endpoint,
		Model:        config.DefaultModel,
		SystemPrompt: config.DefaultSystemPrompt,
	}
}

func FromAppConfig(cfg *config.Config) Config {
	return Config{
		APIKey:       cfg.APIKey,
		Endpoint:     cfg.Endpoint,
		Model:        cfg.Model,
		SystemPrompt: cfg.SystemPrompt,
	}
}
