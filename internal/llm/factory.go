package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/abhisek/imci/internal/store"
)

// NewProvider builds the configured backend and wraps it as
// caller → timeout → retry → logging → backend, so every attempt is
// logged and the timeout covers all attempts. It returns (nil, nil) when
// no provider is configured; repo may be nil.
func NewProvider(ctx context.Context, cfg Config, repo store.RequestRepo) (Provider, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, eris.Wrapf(err, "initialise %s provider", cfg.Provider)
	}

	p := WithLogging(base, cfg.Provider, repo)
	p = WithRetry(p, cfg.Retry)
	return WithTimeout(p, cfg.Timeout), nil
}
