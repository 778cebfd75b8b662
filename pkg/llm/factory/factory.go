package factory

import (
	"fmt"
	"time"

	"chatshare-be/pkg/llm"
	"chatshare-be/pkg/llm/ollama"
	"chatshare-be/pkg/llm/openai"
)

type Config struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	retry := llm.RetryPolicy{MaxRetries: cfg.MaxRetries, BackoffBase: cfg.BackoffBase}

	switch cfg.Provider {
	case "ollama":
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.Timeout, retry), nil
	case "openai":
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("openai provider needs OPENAI_API_KEY or LLM_BASE_URL")
		}
		return openai.NewProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, retry), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
