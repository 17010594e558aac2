package contentgen

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/metrics"
	"github.com/abhisek/pathwise/internal/sanitize"
	"github.com/abhisek/pathwise/internal/topic"
)

// ModuleOptions tunes module content generation.
type ModuleOptions struct {
	// Detailed asks for four sections at the advanced level instead of
	// three basic ones.
	Detailed bool

	// Model, when set, is tried first by every family ladder that carries it.
	Model string
}

// GenerateModuleContent writes the body of the module subject. Up to
// MaxAttempts passes are made over the route, RetryDelay apart. There is no
// static fallback: exhaustion returns *ExhaustedError.
func (s *Service) GenerateModuleContent(ctx context.Context, subject string, opts ModuleOptions) (*content.ModuleContent, error) {
	start := time.Now()
	if blank(subject) {
		return nil, s.rejected(KindModuleContent, start, invalidInput("topic is empty"))
	}

	ctx = llm.WithPurpose(ctx, string(KindModuleContent))
	if opts.Model != "" {
		ctx = llm.WithPreferredModel(ctx, opts.Model)
	}
	class := topic.Classify(subject)

	sections := 3
	if opts.Detailed {
		sections = 4
	}
	req := s.request(moduleContentSystemPrompt,
		buildModuleContentMessage(subject, class, sections, opts.Detailed),
		true, s.cfg.Temperature)
	route := s.route(KindModuleContent)

	attempts := max(s.cfg.MaxAttempts, 1)
	var lastErr error
	made := 0
	for made < attempts {
		made++
		m, err := pass(ctx, s, KindModuleContent, route, req, func(raw string) (*content.ModuleContent, error) {
			return parseModuleContent(raw, class)
		})
		if err == nil {
			s.succeeded(KindModuleContent, start)
			return m, nil
		}
		lastErr = err

		if ctx.Err() != nil || made == attempts {
			break
		}
		s.log.Warn("module content attempt failed",
			zap.String("topic", subject),
			zap.Int("attempt", made),
			zap.Error(err))
		if err := llm.Sleep(ctx, s.cfg.RetryDelay); err != nil {
			lastErr = err
			break
		}
	}

	s.metrics.ObserveGeneration(string(KindModuleContent), metrics.OutcomeExhausted, time.Since(start))
	s.log.Error("module content generation exhausted",
		zap.String("topic", subject),
		zap.Int("attempts", made),
		zap.Error(lastErr))
	return nil, &ExhaustedError{Kind: KindModuleContent, Attempts: made, Last: lastErr}
}

func parseModuleContent(raw string, class topic.Classification) (*content.ModuleContent, error) {
	m, err := content.Decode[content.ModuleContent](raw, content.ModuleContentSchema)
	if err != nil {
		return nil, err
	}
	if err := content.ValidateModuleContent(&m); err != nil {
		return nil, err
	}
	if err := content.CheckModuleQuality(&m); err != nil {
		return nil, err
	}

	for i := range m.Sections {
		sec := &m.Sections[i]
		sec.Title = sanitize.SanitizeContent(sec.Title)
		sec.Content = sanitize.SanitizeContent(sec.Content)
		points := sec.KeyPoints[:0]
		for _, p := range sec.KeyPoints {
			if p = sanitize.SanitizeContent(p); p != "" {
				points = append(points, p)
			}
		}
		sec.KeyPoints = points
		sec.CodeExample = content.CleanCodeExample(sec.CodeExample, class.SuggestedLanguage)
	}
	switch m.Type {
	case content.TypeTechnical, content.TypeGeneral:
	default:
		m.Type = content.ContentType(class.ContentType())
	}

	// Sanitizing can shorten a section below the minimum.
	if err := content.ValidateModuleContent(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
