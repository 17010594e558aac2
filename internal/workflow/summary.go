package workflow

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/pathwise/internal/store"
)

// hoursPerModule is the study time credited for each completed module.
const hoursPerModule = 2

var defaultSuggestions = []string{
	"Pick a neighbouring specialty and study its fundamentals next.",
	"Practice system design to prepare for more senior roles.",
	"Build a portfolio project that shows off the skills from this path.",
}

// SkillLevel is a skill in the career summary.
type SkillLevel struct {
	Name     string `json:"name"`
	Level    string `json:"level"`
	Progress int    `json:"progress"`
}

// Summary reports on a completed career path.
type Summary struct {
	UserName         string       `json:"userName"`
	CareerGoal       string       `json:"careerGoal"`
	Readiness        int          `json:"readiness"`
	CompletedModules int          `json:"completedModules"`
	TotalModules     int          `json:"totalModules"`
	TimeSpentHours   int          `json:"timeSpent"`
	CompletionDate   time.Time    `json:"completionDate"`
	Skills           []SkillLevel `json:"skills"`
	Suggestions      []string     `json:"suggestions"`
}

// CareerSummary summarizes the current user's first fully completed career
// path. It returns store.ErrNotFound when no path is complete.
func (s *Service) CareerSummary(ctx context.Context) (*Summary, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := s.docs.ListDocuments(ctx, store.CollectionCareerPaths, store.Filter{
		"userID":   user.ID,
		"progress": 100,
	})
	if err != nil {
		return nil, fmt.Errorf("list completed paths: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("completed career path: %w", store.ErrNotFound)
	}
	path, err := decodeCareerPath(docs[0])
	if err != nil {
		return nil, err
	}

	name := user.Name
	var userSkills []string
	users, err := s.docs.ListDocuments(ctx, store.CollectionUsers, store.Filter{"userID": user.ID})
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if len(users) > 0 {
		profile := users[len(users)-1].Data
		if n := profile.String("name"); n != "" {
			name = n
		}
		if userSkills, err = store.DecodeList[string](profile["skills"]); err != nil {
			return nil, fmt.Errorf("profile skills: %w", err)
		}
	}
	if name == "" {
		name = "Learner"
	}

	var skills []SkillLevel
	for _, skill := range path.RecommendedSkills {
		if slices.Contains(userSkills, skill) {
			skills = append(skills, SkillLevel{Name: skill, Level: "Advanced", Progress: 95})
		} else {
			skills = append(skills, SkillLevel{Name: skill, Level: "Mastered", Progress: 90})
		}
	}
	for _, skill := range userSkills {
		if !slices.Contains(path.RecommendedSkills, skill) {
			skills = append(skills, SkillLevel{Name: skill, Level: "Intermediate", Progress: 75})
		}
	}

	suggestions := path.AINudges
	if len(suggestions) == 0 {
		suggestions = slices.Clone(defaultSuggestions)
	}

	career := path.CareerName
	if career == "" {
		career = "Career Path"
	}

	return &Summary{
		UserName:         name,
		CareerGoal:       career,
		Readiness:        path.Progress,
		CompletedModules: len(path.CompletedModules),
		TotalModules:     len(path.Modules),
		TimeSpentHours:   len(path.CompletedModules) * hoursPerModule,
		CompletionDate:   path.UpdatedAt,
		Skills:           skills,
		Suggestions:      suggestions,
	}, nil
}
