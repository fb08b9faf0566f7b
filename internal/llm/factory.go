package llm

import (
	"go.uber.org/zap"

	"github.com/probelab/brandprobe/internal/config"
)

// BuildRegistry constructs the adapter registry from config. Providers with
// no credentials are skipped, so a deployment can run with any subset of
// vendors — selecting an unconfigured provider later fails validation, not
// the process.
func BuildRegistry(cfg config.ProvidersConfig, logger *zap.Logger) *Registry {
	registry := NewRegistry(logger)

	if cfg.OpenAI.APIKey != "" {
		registry.Register(NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL), cfg.OpenAI.RatePerMinute)
	}
	if cfg.Anthropic.APIKey != "" {
		registry.Register(NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL), cfg.Anthropic.RatePerMinute)
	}
	if cfg.Gemini.APIKey != "" {
		registry.Register(NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL), cfg.Gemini.RatePerMinute)
	}
	if cfg.Perplexity.APIKey != "" {
		registry.Register(NewPerplexityClient(cfg.Perplexity.APIKey, cfg.Perplexity.BaseURL), cfg.Perplexity.RatePerMinute)
	}
	if cfg.Azure.Endpoint != "" && cfg.Azure.APIKey != "" {
		registry.Register(NewAzureClient(cfg.Azure.Endpoint, cfg.Azure.APIKey), cfg.Azure.RatePerMinute)
	}

	logger.Info("provider registry built", zap.Strings("providers", registry.Providers()))
	return registry
}
