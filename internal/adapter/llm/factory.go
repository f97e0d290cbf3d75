package llm

import (
	"fmt"
	"time"

	"debloat/config"
	"debloat/internal/domain"
	"debloat/internal/port"
)

// NewFromConfig builds the generator selected by the backend configuration.
func NewFromConfig(cfg config.BackendConfig) (port.Generator, error) {
	opts := Options{
		Model:           cfg.Model,
		BaseURL:         cfg.BaseURL,
		APIKeyEnv:       cfg.APIKeyEnv,
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	switch cfg.Provider {
	case "ollama":
		return NewOllamaGenerator(opts)
	case "openai":
		return NewOpenAIGenerator(opts)
	case "deepseek":
		return NewDeepSeekGenerator(opts)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrConfig, cfg.Provider)
	}
}
