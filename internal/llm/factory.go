package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/mindpath/internal/logger"
)

type constructor func(ctx context.Context, cfg Config) (Provider, error)

var constructors = map[string]constructor{
	ProviderAnthropic: func(_ context.Context, cfg Config) (Provider, error) {
		return NewAnthropicProvider(cfg.Anthropic)
	},
	ProviderOpenAI: func(_ context.Context, cfg Config) (Provider, error) {
		return NewOpenAIProvider(cfg.OpenAI)
	},
	ProviderOpenRouter: func(_ context.Context, cfg Config) (Provider, error) {
		return NewOpenRouterProvider(cfg.OpenRouter)
	},
	ProviderGemini: func(ctx context.Context, cfg Config) (Provider, error) {
		return NewGeminiProvider(ctx, cfg.Gemini)
	},
}

// NewProvider builds the configured provider and wraps it so that calls
// flow retry → rate limit → logging → base. The mock provider yields
// (nil, nil); content generation then falls back to the built-in bank.
func NewProvider(ctx context.Context, cfg Config, recorder RequestRecorder, log *logger.Logger) (Provider, error) {
	if cfg.Provider == ProviderMock {
		return nil, nil
	}
	build, ok := constructors[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	base, err := build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, cfg.Provider, recorder, log)
	p = WithRateLimit(p, cfg.RateLimit)
	return WithRetry(p, cfg.Retry), nil
}
