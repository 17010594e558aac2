package workflow

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/store"
)

// CareerPath is the decoded view of a career_paths document.
type CareerPath struct {
	ID                string            `json:"id"`
	UserID            string            `json:"userID"`
	CareerName        string            `json:"careerName"`
	Description       string            `json:"description"`
	Difficulty        string            `json:"difficulty"`
	EstimatedTime     string            `json:"estimatedTime"`
	RelevanceScore    int               `json:"relevanceScore"`
	Modules           []json.RawMessage `json:"modules"`
	CompletedModules  []string          `json:"completedModules"`
	Progress          int               `json:"progress"`
	AINudges          []string          `json:"aiNudges"`
	RecommendedSkills []string          `json:"recommendedSkills"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func decodeCareerPath(doc *store.Document) (*CareerPath, error) {
	d := doc.Data
	p := &CareerPath{
		ID:             doc.ID,
		UserID:         d.String("userID"),
		CareerName:     d.String("careerName"),
		Description:    d.String("description"),
		Difficulty:     d.String("difficulty"),
		EstimatedTime:  d.String("estimatedTime"),
		RelevanceScore: int(d.Float("relevanceScore")),
		Progress:       int(d.Float("progress")),
		UpdatedAt:      doc.UpdatedAt,
	}

	var err error
	if p.Modules, err = store.DecodeList[json.RawMessage](d["modules"]); err != nil {
		return nil, fmt.Errorf("career path %s modules: %w", doc.ID, err)
	}
	if p.CompletedModules, err = store.DecodeList[string](d["completedModules"]); err != nil {
		return nil, fmt.Errorf("career path %s completedModules: %w", doc.ID, err)
	}
	if p.AINudges, err = store.DecodeList[string](d["aiNudges"]); err != nil {
		return nil, fmt.Errorf("career path %s aiNudges: %w", doc.ID, err)
	}
	if p.RecommendedSkills, err = store.DecodeList[string](d["recommendedSkills"]); err != nil {
		return nil, fmt.Errorf("career path %s recommendedSkills: %w", doc.ID, err)
	}
	return p, nil
}

// ModuleTitle resolves the title of module i. String modules use the text
// after their last colon ("Module 2: Joins" gives "Joins"); object modules
// use their title. Anything else is "Module i+1".
func (p *CareerPath) ModuleTitle(i int) string {
	fallback := fmt.Sprintf("Module %d", i+1)
	if i < 0 || i >= len(p.Modules) {
		return fallback
	}

	var s string
	if err := json.Unmarshal(p.Modules[i], &s); err == nil {
		if idx := strings.LastIndex(s, ":"); idx >= 0 {
			s = s[idx+1:]
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return fallback
	}

	var obj struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(p.Modules[i], &obj); err == nil && strings.TrimSpace(obj.Title) != "" {
		return strings.TrimSpace(obj.Title)
	}
	return fallback
}

// IsComplete reports whether module i has been marked complete.
func (p *CareerPath) IsComplete(i int) bool {
	key := strconv.Itoa(i)
	for _, c := range p.CompletedModules {
		if c == key {
			return true
		}
	}
	return false
}

// progressPercent is the rounded share of completed modules.
func progressPercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
