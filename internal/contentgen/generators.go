package contentgen

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/fallback"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/metrics"
	"github.com/abhisek/pathwise/internal/sanitize"
)

// GenerateFlashcards returns exactly n study cards on subject, numbered 1..n.
// Any failure yields the deterministic placeholder deck.
func (s *Service) GenerateFlashcards(ctx context.Context, subject string, n int) ([]content.Flashcard, error) {
	start := time.Now()
	if blank(subject) {
		return nil, s.rejected(KindFlashcards, start, invalidInput("topic is empty"))
	}
	if err := s.checkCount(n); err != nil {
		return nil, s.rejected(KindFlashcards, start, err)
	}

	ctx = llm.WithPurpose(ctx, string(KindFlashcards))
	req := s.request(structuredSystemPrompt, buildFlashcardsMessage(subject, n), false, s.cfg.Temperature)

	cards, err := pass(ctx, s, KindFlashcards, s.route(KindFlashcards), req, func(raw string) ([]content.Flashcard, error) {
		cards, err := content.Decode[[]content.Flashcard](raw, content.FlashcardsSchema)
		if err != nil {
			return nil, err
		}
		if err := content.ValidateFlashcards(cards, n); err != nil {
			return nil, err
		}
		for i := range cards {
			cards[i].ID = i + 1
		}
		return cards, nil
	})
	if err != nil {
		s.fellBack(KindFlashcards, start, err)
		return fallback.Flashcards(subject, n), nil
	}
	s.succeeded(KindFlashcards, start)
	return cards, nil
}

// GenerateQuizData returns an n-question topic quiz. grounding, when set, is
// module text the questions should be based on; it is cut to GroundingLimit
// characters. Any failure yields n placeholder questions.
func (s *Service) GenerateQuizData(ctx context.Context, subject string, n int, grounding string) (content.TopicQuiz, error) {
	start := time.Now()
	if blank(subject) {
		return content.TopicQuiz{}, s.rejected(KindTopicQuiz, start, invalidInput("topic is empty"))
	}
	if err := s.checkCount(n); err != nil {
		return content.TopicQuiz{}, s.rejected(KindTopicQuiz, start, err)
	}

	ctx = llm.WithPurpose(ctx, string(KindTopicQuiz))
	grounding = truncateRunes(strings.TrimSpace(grounding), s.cfg.GroundingLimit)
	req := s.request(structuredSystemPrompt, buildTopicQuizMessage(subject, n, grounding), false, s.cfg.Temperature)

	qs, err := pass(ctx, s, KindTopicQuiz, s.route(KindTopicQuiz), req, func(raw string) ([]content.TopicQuestion, error) {
		qs, err := content.Decode[[]content.TopicQuestion](raw, content.TopicQuestionsSchema)
		if err != nil {
			return nil, err
		}
		normalizeTopicQuestions(qs)
		if err := content.ValidateTopicQuestions(qs, n); err != nil {
			return nil, err
		}
		return qs, nil
	})
	if err != nil {
		s.fellBack(KindTopicQuiz, start, err)
		return fallback.TopicQuiz(subject, n), nil
	}
	s.succeeded(KindTopicQuiz, start)
	return content.TopicQuiz{NrOfQuestions: strconv.Itoa(n), Questions: qs}, nil
}

// normalizeTopicQuestions derives the question type from the number of
// correct answers and fills in missing points.
func normalizeTopicQuestions(qs []content.TopicQuestion) {
	for i := range qs {
		q := &qs[i]
		q.Question = sanitize.SanitizeContent(q.Question)
		q.Explanation = sanitize.SanitizeContent(q.Explanation)
		switch {
		case len(q.CorrectAnswer) > 1:
			q.QuestionType = content.QuestionMultiple
		case len(q.CorrectAnswer) == 1 && q.QuestionType != content.QuestionMultiple:
			q.QuestionType = content.QuestionSingle
		}
		if q.Point <= 0 {
			q.Point = content.DefaultPoints
		}
	}
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// GenerateQuiz returns the ModuleQuizSize-question quiz for moduleName. Any
// failure yields the fixed placeholder quiz.
func (s *Service) GenerateQuiz(ctx context.Context, moduleName string) (content.ModuleQuiz, error) {
	start := time.Now()
	if blank(moduleName) {
		return content.ModuleQuiz{}, s.rejected(KindModuleQuiz, start, invalidInput("module name is empty"))
	}

	ctx = llm.WithPurpose(ctx, string(KindModuleQuiz))
	want := s.cfg.ModuleQuizSize
	req := s.request(structuredSystemPrompt, buildModuleQuizMessage(moduleName, want), true, s.cfg.Temperature)

	quiz, err := pass(ctx, s, KindModuleQuiz, s.route(KindModuleQuiz), req, func(raw string) (content.ModuleQuiz, error) {
		quiz, err := content.Decode[content.ModuleQuiz](raw, content.ModuleQuizSchema)
		if err != nil {
			return quiz, err
		}
		if err := content.ValidateModuleQuestions(quiz.Questions, want); err != nil {
			return quiz, err
		}
		return quiz, nil
	})
	if err != nil {
		s.fellBack(KindModuleQuiz, start, err)
		return fallback.ModuleQuiz(moduleName), nil
	}
	s.succeeded(KindModuleQuiz, start)
	return quiz, nil
}

// PathOptions selects the learning path variant.
type PathOptions struct {
	// Type is content.PathTopic (the default) or content.PathCareer.
	Type content.PathType

	// Model, when set, is tried first by every family ladder that carries it.
	Model string
}

var modulePrefix = regexp.MustCompile(`(?i)^module\s+\d+\s*:`)

// GenerateLearningPath plans a path toward goal. Topic paths are
// TopicPathSize "Module N: Title" strings; career paths are PathModuleMin to
// PathModuleMax module objects, requested through a bounded retry. Failures
// of either kind yield the fallback path for the mode, so the only error
// returned is for invalid input.
func (s *Service) GenerateLearningPath(ctx context.Context, goal string, opts PathOptions) (content.LearningPath, error) {
	start := time.Now()
	if blank(goal) {
		return content.LearningPath{}, s.rejected(KindLearningPath, start, invalidInput("goal is empty"))
	}
	mode := opts.Type
	if mode == "" {
		mode = content.PathTopic
	}
	if mode != content.PathTopic && mode != content.PathCareer {
		return content.LearningPath{}, s.rejected(KindLearningPath, start, invalidInput("unknown path type %q", mode))
	}

	ctx = llm.WithPurpose(ctx, string(KindLearningPath))
	if opts.Model != "" {
		ctx = llm.WithPreferredModel(ctx, opts.Model)
	}
	if mode == content.PathCareer {
		return s.careerPath(ctx, goal, start), nil
	}

	want := s.cfg.TopicPathSize
	req := s.request(structuredSystemPrompt, buildTopicPathMessage(goal, want), false, s.cfg.Temperature)
	titles, err := pass(ctx, s, KindLearningPath, s.route(KindLearningPath), req, func(raw string) ([]string, error) {
		titles, err := content.Decode[[]string](raw, content.TopicPathSchema)
		if err != nil {
			return nil, err
		}
		for i, t := range titles {
			t = sanitize.SanitizeContent(t)
			if t != "" && !modulePrefix.MatchString(t) {
				t = fmt.Sprintf("Module %d: %s", i+1, t)
			}
			titles[i] = t
		}
		if err := content.ValidateTopicPath(titles, want); err != nil {
			return nil, err
		}
		return titles, nil
	})
	if err != nil {
		s.fellBack(KindLearningPath, start, err)
		return fallback.TopicPath(goal), nil
	}
	s.succeeded(KindLearningPath, start)
	return content.LearningPath{Type: content.PathTopic, Titles: titles}, nil
}

func (s *Service) careerPath(ctx context.Context, goal string, start time.Time) content.LearningPath {
	route := s.route(KindLearningPath)
	for i := range route {
		route[i].provider = llm.WithRetry(route[i].provider, s.cfg.CareerRetry)
	}

	req := s.request(structuredSystemPrompt,
		buildCareerPathMessage(goal, s.cfg.PathModuleMin, s.cfg.PathModuleMax),
		false, s.cfg.Temperature)
	mods, err := pass(ctx, s, KindLearningPath, route, req, func(raw string) ([]content.PathModule, error) {
		mods, err := content.Decode[[]content.PathModule](raw, content.CareerModulesSchema)
		if err != nil {
			return nil, err
		}
		for i := range mods {
			mods[i] = fallback.FillPathModule(mods[i], goal)
		}
		if err := content.ValidateCareerModules(mods, s.cfg.PathModuleMin, s.cfg.PathModuleMax); err != nil {
			return nil, err
		}
		return mods, nil
	})
	if err != nil {
		s.fellBack(KindLearningPath, start, err)
		return fallback.CareerPath(goal)
	}
	s.succeeded(KindLearningPath, start)
	return content.LearningPath{Type: content.PathCareer, Modules: mods}
}

// careerPathReply mirrors content.CareerPath with numeric fields the model
// may send as fractions.
type careerPathReply struct {
	PathName                string              `json:"pathName"`
	Description             string              `json:"description"`
	Difficulty              string              `json:"difficulty"`
	EstimatedTimeToComplete string              `json:"estimatedTimeToComplete"`
	RelevanceScore          float64             `json:"relevanceScore"`
	Modules                 []careerModuleReply `json:"modules"`
}

type careerModuleReply struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	EstimatedHours float64  `json:"estimatedHours"`
	KeySkills      []string `json:"keySkills"`
}

// GenerateCareerPaths suggests CareerPathCount personalized career paths
// for the profile. Any failure yields paths derived from the profile's goal,
// skills and interests. A profile without a goal is rejected.
func (s *Service) GenerateCareerPaths(ctx context.Context, p content.Profile) ([]content.CareerPath, error) {
	start := time.Now()
	if blank(p.Goal) {
		return nil, s.rejected(KindCareerPaths, start, invalidInput("goal is empty"))
	}
	ctx = llm.WithPurpose(ctx, string(KindCareerPaths))

	want := s.cfg.CareerPathCount
	req := s.request(structuredSystemPrompt,
		buildCareerPathsMessage(p, want, s.cfg.CareerModuleMin, s.cfg.CareerModuleMax),
		false, s.cfg.Temperature)

	paths, err := pass(ctx, s, KindCareerPaths, s.route(KindCareerPaths), req, func(raw string) ([]content.CareerPath, error) {
		replies, err := content.Decode[[]careerPathReply](raw, content.CareerPathsSchema)
		if err != nil {
			return nil, err
		}
		paths := make([]content.CareerPath, len(replies))
		for i, r := range replies {
			paths[i] = s.finishCareerPath(r)
		}
		if err := content.ValidateCareerPaths(paths, want); err != nil {
			return nil, err
		}
		return paths, nil
	})
	if err != nil {
		s.fellBack(KindCareerPaths, start, err)
		return fallback.CareerPaths(p, s.cfg.CareerModuleTarget), nil
	}
	s.succeeded(KindCareerPaths, start)
	return paths, nil
}

// finishCareerPath clamps the relevance score, coerces the difficulty and
// back-fills a short module list.
func (s *Service) finishCareerPath(r careerPathReply) content.CareerPath {
	path := content.CareerPath{
		PathName:                strings.TrimSpace(r.PathName),
		Description:             sanitize.SanitizeContent(r.Description),
		Difficulty:              content.ParseDifficulty(r.Difficulty),
		EstimatedTimeToComplete: r.EstimatedTimeToComplete,
		RelevanceScore:          ClampRelevance(r.RelevanceScore),
	}

	if len(r.Modules) < s.cfg.CareerModuleMin {
		path.Modules = fallback.CareerModules(path.PathName, s.cfg.CareerModuleTarget)
		return path
	}
	if len(r.Modules) > s.cfg.CareerModuleMax {
		r.Modules = r.Modules[:s.cfg.CareerModuleMax]
	}
	for i, m := range r.Modules {
		title := strings.TrimSpace(m.Title)
		if title == "" {
			title = fmt.Sprintf("%s Module %d", path.PathName, i+1)
		}
		path.Modules = append(path.Modules, content.CareerModule{
			Title:          title,
			Description:    m.Description,
			EstimatedHours: max(int(math.Round(m.EstimatedHours)), 0),
			KeySkills:      m.KeySkills,
		})
	}
	return path
}

// ClampRelevance rounds score and clamps it into [0, 100].
func ClampRelevance(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(math.Min(math.Max(score, 0), 100)))
}

// GenerateChatResponse answers message in the learner's conversation
// context. It makes a single call on the first configured chat family and
// returns the reply verbatim; there is no retry and no fallback.
func (s *Service) GenerateChatResponse(ctx context.Context, message string, cc content.ChatContext) (string, error) {
	start := time.Now()
	if blank(message) {
		return "", s.rejected(KindChat, start, invalidInput("message is empty"))
	}

	route := s.route(KindChat)
	if len(route) == 0 {
		s.metrics.ObserveGeneration(string(KindChat), metrics.OutcomeError, time.Since(start))
		return "", fmt.Errorf("chat: %w", &llm.ErrProviderUnavailable{Err: fmt.Errorf("no provider family configured")})
	}
	f := route[0]

	ctx = llm.WithPurpose(ctx, string(KindChat))
	req := s.request("", buildChatMessage(message, cc.WithDefaults()), false, s.cfg.ChatTemperature)
	resp, err := f.provider.Generate(ctx, req)
	if err == nil && blank(resp.Text) {
		err = &llm.ErrInvalidResponse{Err: fmt.Errorf("empty reply")}
	}
	if err != nil {
		s.metrics.ObserveGeneration(string(KindChat), metrics.OutcomeError, time.Since(start))
		s.log.Error("chat generation failed", zap.String("family", f.name), zap.Error(err))
		return "", fmt.Errorf("chat: %w", err)
	}

	s.succeeded(KindChat, start)
	return resp.Text, nil
}
