package llm

import (
	"context"
	"fmt"

	"alfredoptarigan/resume-evaluator/internal/config"
	"alfredoptarigan/resume-evaluator/internal/logger"
)

// NewFromConfig builds the configured provider wrapped in a RetryingClient.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig, log logger.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}

	var base Client
	switch cfg.Provider {
	case "gemini":
		gc, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		base = gc
	case "groq":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		base = NewOpenAIClient(cfg.APIKey, baseURL, cfg.Model)
	case "openai":
		base = NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}

	return NewRetryingClient(base, cfg.Provider, cfg.MaxRetries, cfg.RetryDelay, log), nil
}
