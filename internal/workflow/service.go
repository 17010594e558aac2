// Package workflow implements the learner-facing flows built on the content
// generators: profile creation, career path progress, quiz results and
// module loading. State lives in the document store.
package workflow

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/contentgen"
	"github.com/abhisek/pathwise/internal/store"
)

// Generator is the part of the content generation service the workflows
// use.
type Generator interface {
	GenerateCareerPaths(ctx context.Context, p content.Profile) ([]content.CareerPath, error)
	GenerateLearningPath(ctx context.Context, goal string, opts contentgen.PathOptions) (content.LearningPath, error)
	GenerateModuleContent(ctx context.Context, subject string, opts contentgen.ModuleOptions) (*content.ModuleContent, error)
}

// Service runs the workflows for the current user.
type Service struct {
	docs     store.DocumentStore
	gen      Generator
	identity Identity
	log      *zap.Logger
}

// NewService creates a workflow service. log may be nil.
func NewService(docs store.DocumentStore, gen Generator, identity Identity, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{docs: docs, gen: gen, identity: identity, log: log}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", contentgen.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ProfileResult is the outcome of CreateProfile.
type ProfileResult struct {
	UserDocID string       `json:"userDocId"`
	Paths     []CareerPath `json:"paths"`
}

// CreateProfile stores the learner profile, generates personalized career
// paths and a learning path for each, and stores one career_paths document
// per path. Paths are generated one after another.
func (s *Service) CreateProfile(ctx context.Context, p content.Profile) (*ProfileResult, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Goal = strings.TrimSpace(p.Goal)
	if p.Name == "" {
		return nil, invalid("name is required")
	}
	if p.Goal == "" {
		return nil, invalid("career goal is required")
	}

	userDoc, err := s.docs.CreateDocument(ctx, store.CollectionUsers, store.Record{
		"userID":     user.ID,
		"name":       p.Name,
		"age":        p.Age,
		"careerGoal": p.Goal,
		"interests":  store.EncodeList(p.Interests),
		"skills":     store.EncodeList(p.Skills),
	})
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	careers, err := s.gen.GenerateCareerPaths(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("generate career paths: %w", err)
	}

	result := &ProfileResult{UserDocID: userDoc.ID}
	for _, c := range careers {
		lp, err := s.gen.GenerateLearningPath(ctx, c.PathName, contentgen.PathOptions{Type: content.PathCareer})
		if err != nil {
			return nil, fmt.Errorf("generate learning path for %q: %w", c.PathName, err)
		}

		skills := recommendedSkills(c)
		record := store.Record{
			"userID":            user.ID,
			"careerName":        c.PathName,
			"description":       c.Description,
			"difficulty":        string(c.Difficulty),
			"estimatedTime":     c.EstimatedTimeToComplete,
			"relevanceScore":    c.RelevanceScore,
			"completedModules":  store.EncodeList([]string{}),
			"progress":          0,
			"aiNudges":          store.EncodeList(nudges(p, c, lp, skills)),
			"recommendedSkills": store.EncodeList(skills),
		}
		if lp.Type == content.PathCareer {
			record["modules"] = store.EncodeList(lp.Modules)
		} else {
			record["modules"] = store.EncodeList(lp.Titles)
		}

		doc, err := s.docs.CreateDocument(ctx, store.CollectionCareerPaths, record)
		if err != nil {
			return nil, fmt.Errorf("save career path %q: %w", c.PathName, err)
		}
		path, err := decodeCareerPath(doc)
		if err != nil {
			return nil, err
		}
		result.Paths = append(result.Paths, *path)
	}

	s.log.Info("profile created",
		zap.String("user", user.ID),
		zap.String("goal", p.Goal),
		zap.Int("paths", len(result.Paths)))
	return result, nil
}

// recommendedSkills collects the distinct key skills of a career path's
// modules in order of first appearance.
func recommendedSkills(c content.CareerPath) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range c.Modules {
		for _, skill := range m.KeySkills {
			key := strings.ToLower(strings.TrimSpace(skill))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, strings.TrimSpace(skill))
		}
	}
	return out
}

// nudges are short study suggestions stored with each path.
func nudges(p content.Profile, c content.CareerPath, lp content.LearningPath, skills []string) []string {
	var out []string
	if titles := lp.ModuleTitles(); len(titles) > 0 {
		out = append(out, fmt.Sprintf("Start with %q this week to build momentum toward %s.", titles[0], p.Goal))
	}

	hours := 0
	for _, m := range c.Modules {
		hours += m.EstimatedHours
	}
	if hours > 0 {
		out = append(out, fmt.Sprintf("Plan for about %d hours in total on the %s path.", hours, c.PathName))
	}

	for _, have := range p.Skills {
		if slices.ContainsFunc(skills, func(s string) bool { return strings.EqualFold(s, have) }) {
			return append(out, fmt.Sprintf("Your %s experience gives you a head start here.", have))
		}
	}
	if len(skills) > 0 {
		out = append(out, fmt.Sprintf("Practice %s early; it comes up throughout the path.", skills[0]))
	}
	return out
}

// ListCareerPaths returns the current user's career paths, oldest first.
func (s *Service) ListCareerPaths(ctx context.Context) ([]CareerPath, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.ListDocuments(ctx, store.CollectionCareerPaths, store.Filter{"userID": user.ID})
	if err != nil {
		return nil, fmt.Errorf("list career paths: %w", err)
	}
	paths := make([]CareerPath, 0, len(docs))
	for _, doc := range docs {
		p, err := decodeCareerPath(doc)
		if err != nil {
			return nil, err
		}
		paths = append(paths, *p)
	}
	return paths, nil
}

// GetCareerPath returns one of the current user's career paths. Paths owned
// by someone else are reported as store.ErrNotFound.
func (s *Service) GetCareerPath(ctx context.Context, id string) (*CareerPath, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.docs.GetDocument(ctx, store.CollectionCareerPaths, id)
	if err != nil {
		return nil, err
	}
	p, err := decodeCareerPath(doc)
	if err != nil {
		return nil, err
	}
	if p.UserID != user.ID {
		return nil, fmt.Errorf("%s/%s: %w", store.CollectionCareerPaths, id, store.ErrNotFound)
	}
	return p, nil
}

// MarkModuleComplete records module index of the path as complete and
// recomputes the path's progress percentage. Marking a module twice is a
// no-op. The read and the write share one store transaction, so concurrent
// completions of different modules all land.
func (s *Service) MarkModuleComplete(ctx context.Context, pathID string, index int) (*CareerPath, error) {
	if _, err := s.GetCareerPath(ctx, pathID); err != nil {
		return nil, err
	}

	doc, err := s.docs.ModifyDocument(ctx, store.CollectionCareerPaths, pathID, func(cur *store.Document) (store.Record, error) {
		p, err := decodeCareerPath(cur)
		if err != nil {
			return nil, err
		}
		if index < 0 || index >= len(p.Modules) {
			return nil, invalid("module index %d outside 0-%d", index, len(p.Modules)-1)
		}

		completed := p.CompletedModules
		if !p.IsComplete(index) {
			completed = append(completed, strconv.Itoa(index))
		}
		return store.Record{
			"completedModules": store.EncodeList(completed),
			"progress":         progressPercent(len(completed), len(p.Modules)),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("complete module %d of %s: %w", index, pathID, err)
	}
	return decodeCareerPath(doc)
}

// ModuleView is a loaded module of a career path.
type ModuleView struct {
	PathID    string                 `json:"pathId"`
	Index     int                    `json:"index"`
	Title     string                 `json:"title"`
	Completed bool                   `json:"completed"`
	Content   *content.ModuleContent `json:"content"`
}

// LoadModuleContent resolves the title of module index in the path and
// generates its content.
func (s *Service) LoadModuleContent(ctx context.Context, pathID string, index int, detailed bool) (*ModuleView, error) {
	p, err := s.GetCareerPath(ctx, pathID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.Modules) {
		return nil, invalid("module index %d outside 0-%d", index, len(p.Modules)-1)
	}

	title := p.ModuleTitle(index)
	mc, err := s.gen.GenerateModuleContent(ctx, title, contentgen.ModuleOptions{Detailed: detailed})
	if err != nil {
		return nil, err
	}
	return &ModuleView{
		PathID:    pathID,
		Index:     index,
		Title:     title,
		Completed: p.IsComplete(index),
		Content:   mc,
	}, nil
}

// QuizSubmission is a graded topic quiz attempt.
type QuizSubmission struct {
	PathID    string                  `json:"pathId"`
	Topic     string                  `json:"topic"`
	Questions []content.TopicQuestion `json:"questions"`
	Answers   [][]string              `json:"answers"`
}

// QuizResult is a stored quiz_results document.
type QuizResult struct {
	ID     string            `json:"id"`
	PathID string            `json:"pathId,omitempty"`
	Topic  string            `json:"topic"`
	Score  content.QuizScore `json:"score"`
	Date   time.Time         `json:"date"`
}

// RecordQuizResult scores the submission and stores the result.
func (s *Service) RecordQuizResult(ctx context.Context, sub QuizSubmission) (*QuizResult, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(sub.Topic) == "" {
		return nil, invalid("topic is required")
	}
	if len(sub.Questions) == 0 {
		return nil, invalid("no questions")
	}

	score := content.ScoreTopicQuiz(sub.Questions, sub.Answers)
	now := time.Now().UTC()
	doc, err := s.docs.CreateDocument(ctx, store.CollectionQuizResults, store.Record{
		"userID":         user.ID,
		"pathID":         sub.PathID,
		"topic":          sub.Topic,
		"score":          score.Points,
		"correct":        score.Correct,
		"totalQuestions": score.Total,
		"accuracy":       score.Accuracy,
		"date":           now.Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("save quiz result: %w", err)
	}

	s.log.Debug("quiz result recorded",
		zap.String("user", user.ID),
		zap.String("topic", sub.Topic),
		zap.Int("score", score.Points))
	return &QuizResult{ID: doc.ID, PathID: sub.PathID, Topic: sub.Topic, Score: score, Date: now}, nil
}

// ResetUser deletes the current user's profile, career paths and quiz
// results. It returns the number of documents removed.
func (s *Service) ResetUser(ctx context.Context) (int, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, collection := range []string{store.CollectionQuizResults, store.CollectionCareerPaths, store.CollectionUsers} {
		docs, err := s.docs.ListDocuments(ctx, collection, store.Filter{"userID": user.ID})
		if err != nil {
			return removed, fmt.Errorf("list %s: %w", collection, err)
		}
		for _, doc := range docs {
			if err := s.docs.DeleteDocument(ctx, collection, doc.ID); err != nil {
				return removed, fmt.Errorf("delete %s/%s: %w", collection, doc.ID, err)
			}
			removed++
		}
	}

	s.log.Info("user data reset", zap.String("user", user.ID), zap.Int("documents", removed))
	return removed, nil
}
