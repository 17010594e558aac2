// Package content defines the learning content produced by the generators,
// the JSON schemas their raw model output must satisfy and the validators
// applied after parsing.
package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ContentType labels module content as technical or general.
type ContentType string

const (
	TypeTechnical ContentType = "technical"
	TypeGeneral   ContentType = "general"
)

// ModuleContent is the body of one learning module.
type ModuleContent struct {
	Title    string      `json:"title"`
	Type     ContentType `json:"type"`
	Sections []Section   `json:"sections"`
}

// Section is one titled part of a module.
type Section struct {
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	KeyPoints   []string     `json:"keyPoints"`
	CodeExample *CodeExample `json:"codeExample"`
}

// CodeExample is a runnable snippet attached to a technical section.
type CodeExample struct {
	Language    string `json:"language"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// Flashcard is a single study card. IDs are 1-based and sequential.
type Flashcard struct {
	ID        int    `json:"id"`
	FrontHTML string `json:"frontHTML"`
	BackHTML  string `json:"backHTML"`
}

// QuestionType distinguishes single and multiple answer questions.
type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
)

// AnswerSet holds the correct answer(s) of a topic quiz question. On the
// wire it is a plain string for one answer and an array otherwise.
type AnswerSet []string

func (a AnswerSet) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}

func (a *AnswerSet) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = AnswerSet{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("correctAnswer must be a string or an array of strings: %w", err)
	}
	*a = AnswerSet(many)
	return nil
}

// TopicQuestion is a question in the topic quiz form.
type TopicQuestion struct {
	Question      string       `json:"question"`
	QuestionType  QuestionType `json:"questionType"`
	Answers       []string     `json:"answers"`
	CorrectAnswer AnswerSet    `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
	Point         int          `json:"point"`
}

// TopicQuiz wraps topic quiz questions the way downstream consumers expect.
type TopicQuiz struct {
	NrOfQuestions string          `json:"nrOfQuestions"`
	Questions     []TopicQuestion `json:"questions"`
}

// ModuleQuestion is a question in the module quiz form.
type ModuleQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// ModuleQuiz is the module quiz form.
type ModuleQuiz struct {
	Questions []ModuleQuestion `json:"questions"`
}

// PathType selects the learning path variant.
type PathType string

const (
	PathTopic  PathType = "topic"
	PathCareer PathType = "career"
)

// PathModule is one module of a career-mode learning path.
type PathModule struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	EstimatedTime string `json:"estimatedTime"`
	Content       string `json:"content"`
}

// LearningPath is either a list of "Module N: Title" strings (topic mode)
// or a list of module objects (career mode).
type LearningPath struct {
	Type    PathType
	Titles  []string
	Modules []PathModule
}

type learningPathJSON struct {
	Type    PathType        `json:"type"`
	Modules json.RawMessage `json:"modules"`
}

func (p LearningPath) MarshalJSON() ([]byte, error) {
	var modules any = p.Titles
	if p.Type == PathCareer {
		modules = p.Modules
	}
	raw, err := json.Marshal(modules)
	if err != nil {
		return nil, err
	}
	return json.Marshal(learningPathJSON{Type: p.Type, Modules: raw})
}

func (p *LearningPath) UnmarshalJSON(data []byte) error {
	var w learningPathJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = LearningPath{Type: w.Type}
	if len(w.Modules) == 0 || string(w.Modules) == "null" {
		return nil
	}
	if w.Type == PathCareer {
		return json.Unmarshal(w.Modules, &p.Modules)
	}
	return json.Unmarshal(w.Modules, &p.Titles)
}

// Len returns the number of modules in the path.
func (p LearningPath) Len() int {
	if p.Type == PathCareer {
		return len(p.Modules)
	}
	return len(p.Titles)
}

// ModuleTitles returns the display title of every module.
func (p LearningPath) ModuleTitles() []string {
	if p.Type != PathCareer {
		return p.Titles
	}
	out := make([]string, len(p.Modules))
	for i, m := range p.Modules {
		out[i] = m.Title
	}
	return out
}

// Difficulty is the level of a career path.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ParseDifficulty maps s onto a known difficulty, defaulting to
// intermediate.
func ParseDifficulty(s string) Difficulty {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return d
	}
	return DifficultyIntermediate
}

// CareerModule is one module of a career path.
type CareerModule struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	EstimatedHours int      `json:"estimatedHours"`
	KeySkills      []string `json:"keySkills"`
}

// CareerPath is a personalized career track.
type CareerPath struct {
	PathName                string         `json:"pathName"`
	Description             string         `json:"description"`
	Difficulty              Difficulty     `json:"difficulty"`
	EstimatedTimeToComplete string         `json:"estimatedTimeToComplete"`
	RelevanceScore          int            `json:"relevanceScore"`
	Modules                 []CareerModule `json:"modules"`
}

// Profile is the learner profile used to personalize career paths.
type Profile struct {
	Name      string   `json:"name"`
	Goal      string   `json:"careerGoal"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
	Age       int      `json:"age,omitempty"`
}

// ChatContext carries the learner's conversation preferences.
type ChatContext struct {
	Topic string `json:"topic"`
	Level string `json:"level"`
	Focus string `json:"focus"`
}

// WithDefaults fills empty fields with their conversational defaults.
func (c ChatContext) WithDefaults() ChatContext {
	if strings.TrimSpace(c.Topic) == "" {
		c.Topic = "General"
	}
	if strings.TrimSpace(c.Level) == "" {
		c.Level = "Intermediate"
	}
	if strings.TrimSpace(c.Focus) == "" {
		c.Focus = "General understanding"
	}
	return c
}
