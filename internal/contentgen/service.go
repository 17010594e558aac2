// Package contentgen turns learner requests into validated learning content.
// Every generator builds a prompt, walks its route of provider families,
// sanitizes and parses the reply, validates it and post-processes the
// result. Structured generators substitute deterministic fallbacks when no
// family produces a usable reply.
package contentgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/metrics"
	"github.com/abhisek/pathwise/internal/sanitize"
)

// Service runs the content generators.
type Service struct {
	families map[string]llm.Provider
	cfg      Config
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// New creates a generation service over the given provider families, keyed
// by family name. log and m may be nil.
func New(families map[string]llm.Provider, cfg Config, log *zap.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{families: families, cfg: cfg, log: log, metrics: m}
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

type family struct {
	name     string
	provider llm.Provider
}

// route returns the configured families for kind, in order.
func (s *Service) route(kind Kind) []family {
	var out []family
	for _, name := range s.cfg.Routes[kind] {
		if p, ok := s.families[name]; ok {
			out = append(out, family{name: name, provider: p})
		}
	}
	return out
}

func (s *Service) request(system, user string, json bool, temperature float64) llm.Request {
	req := llm.UserPrompt(system, user)
	req.JSON = json
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = temperature
	return req
}

// pass walks route once. Each family gets one call; the first reply that
// survives sanitizing and parse wins. parse owns decoding, validation and
// post-processing.
func pass[T any](ctx context.Context, s *Service, kind Kind, route []family, req llm.Request, parse func(raw string) (T, error)) (T, error) {
	var zero T
	if len(route) == 0 {
		return zero, fmt.Errorf("%s: no provider family configured", kind)
	}

	var lastErr error
	for _, f := range route {
		resp, err := f.provider.Generate(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return zero, err
			}
			s.log.Debug("provider family failed",
				zap.String("kind", string(kind)),
				zap.String("family", f.name),
				zap.Error(err))
			lastErr = fmt.Errorf("%s: %w", f.name, err)
			continue
		}

		v, err := parse(sanitize.SanitizeJSON(resp.Text))
		if err != nil {
			s.log.Debug("rejected reply",
				zap.String("kind", string(kind)),
				zap.String("family", f.name),
				zap.String("model", resp.Model),
				zap.Error(err))
			lastErr = fmt.Errorf("%s: %w", f.name, err)
			continue
		}
		return v, nil
	}
	return zero, lastErr
}

func (s *Service) succeeded(kind Kind, start time.Time) {
	s.metrics.ObserveGeneration(string(kind), metrics.OutcomeSuccess, time.Since(start))
}

func (s *Service) fellBack(kind Kind, start time.Time, err error) {
	s.metrics.ObserveGeneration(string(kind), metrics.OutcomeFallback, time.Since(start))
	s.log.Warn("generation failed, using fallback",
		zap.String("kind", string(kind)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
}

func (s *Service) rejected(kind Kind, start time.Time, err error) error {
	s.metrics.ObserveGeneration(string(kind), metrics.OutcomeInvalid, time.Since(start))
	return err
}

func (s *Service) checkCount(n int) error {
	if n <= 0 || n > s.cfg.MaxCount {
		return invalidInput("count %d outside 1-%d", n, s.cfg.MaxCount)
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
