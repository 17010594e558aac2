package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/metrics"
	"github.com/abhisek/pathwise/internal/store"
)

// NewProvider creates the single-model provider for one rung of a family.
func NewProvider(ctx context.Context, family string, cfg FamilyConfig, model string) (Provider, error) {
	switch family {
	case FamilyGroq:
		return NewGroqProvider(cfg, model)
	case FamilyGemini:
		return NewGeminiProvider(ctx, cfg, model)
	case FamilyAnthropic:
		return NewAnthropicProvider(cfg, model)
	case FamilyOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, model)
	case FamilyOpenRouter:
		return NewOpenRouterProvider(cfg, model)
	case FamilyMock:
		return NewNamedMockProvider(model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider family: %q", family)
	}
}

// NewFamilies builds one ladder per enabled family. Each rung is wrapped with
// event logging; each ladder is wrapped with the family's rate limiter.
// repo, log and m may be nil.
func NewFamilies(ctx context.Context, cfg Config, repo store.EventRepo, log *zap.Logger, m *metrics.Metrics) (map[string]Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	families := make(map[string]Provider, len(cfg.Families))
	for _, name := range cfg.Families {
		fc, _ := cfg.Family(name)

		rungs := make([]Provider, 0, len(fc.Models))
		for _, model := range fc.Models {
			p, err := NewProvider(ctx, name, fc, model)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", name, model, err)
			}
			rungs = append(rungs, WithLogging(p, name, repo, log, m))
		}

		var p Provider = NewLadder(name, rungs...)
		if cfg.RatePerMinute > 0 {
			p = WithRateLimit(p, NewLimiter(cfg.RatePerMinute))
		}
		families[name] = p

		log.Debug("llm family ready", zap.String("family", name), zap.Strings("models", fc.Models))
	}
	return families, nil
}
