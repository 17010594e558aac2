package content

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinSectionLength is the exclusive lower bound on section content length.
const MinSectionLength = 50

// ValidationError describes why parsed content failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

func invalid(validator, format string, args ...any) error {
	return &ValidationError{
		Validator: validator,
		Message:   fmt.Sprintf(format, args...),
		Retryable: true,
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateModuleContent checks that m has a title and at least one section,
// and that every section has a title and more than MinSectionLength
// characters of content.
func ValidateModuleContent(m *ModuleContent) error {
	const name = "module-content"
	if m == nil {
		return invalid(name, "no content")
	}
	if blank(m.Title) {
		return invalid(name, "title is empty")
	}
	if len(m.Sections) == 0 {
		return invalid(name, "no sections")
	}
	for i, s := range m.Sections {
		if blank(s.Title) {
			return invalid(name, "section %d has no title", i+1)
		}
		if n := utf8.RuneCountInString(s.Content); n <= MinSectionLength {
			return invalid(name, "section %d content has %d characters, need more than %d", i+1, n, MinSectionLength)
		}
	}
	return nil
}

// ValidateFlashcards checks that there are exactly want cards and every card
// has both sides.
func ValidateFlashcards(cards []Flashcard, want int) error {
	const name = "flashcards"
	if len(cards) != want {
		return invalid(name, "got %d cards, want %d", len(cards), want)
	}
	for i, c := range cards {
		if blank(c.FrontHTML) || blank(c.BackHTML) {
			return invalid(name, "card %d is missing a side", i+1)
		}
	}
	return nil
}

// ValidateTopicQuestions checks the topic quiz form: exact count, question
// text, four answers, a known question type and at least one correct answer.
func ValidateTopicQuestions(qs []TopicQuestion, want int) error {
	const name = "topic-quiz"
	if len(qs) != want {
		return invalid(name, "got %d questions, want %d", len(qs), want)
	}
	for i, q := range qs {
		if blank(q.Question) {
			return invalid(name, "question %d has no text", i+1)
		}
		if len(q.Answers) != 4 {
			return invalid(name, "question %d has %d answers, want 4", i+1, len(q.Answers))
		}
		if q.QuestionType != QuestionSingle && q.QuestionType != QuestionMultiple {
			return invalid(name, "question %d has unknown type %q", i+1, q.QuestionType)
		}
		if len(q.CorrectAnswer) == 0 {
			return invalid(name, "question %d has no correct answer", i+1)
		}
	}
	return nil
}

// ValidateModuleQuestions checks the module quiz form: exact count, question
// text, four options and an in-range correct index.
func ValidateModuleQuestions(qs []ModuleQuestion, want int) error {
	const name = "module-quiz"
	if len(qs) != want {
		return invalid(name, "got %d questions, want %d", len(qs), want)
	}
	for i, q := range qs {
		if blank(q.Question) {
			return invalid(name, "question %d has no text", i+1)
		}
		if len(q.Options) != 4 {
			return invalid(name, "question %d has %d options, want 4", i+1, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return invalid(name, "question %d correct index %d out of range", i+1, q.CorrectIndex)
		}
	}
	return nil
}

// ValidateTopicPath checks a topic-mode path: exactly want non-empty titles.
func ValidateTopicPath(titles []string, want int) error {
	const name = "topic-path"
	if len(titles) != want {
		return invalid(name, "got %d modules, want %d", len(titles), want)
	}
	for i, t := range titles {
		if blank(t) {
			return invalid(name, "module %d is empty", i+1)
		}
	}
	return nil
}

// ValidateCareerModules checks a career-mode path: between min and max
// modules, each with a title.
func ValidateCareerModules(mods []PathModule, min, max int) error {
	const name = "career-modules"
	if len(mods) < min || len(mods) > max {
		return invalid(name, "got %d modules, want %d-%d", len(mods), min, max)
	}
	for i, m := range mods {
		if blank(m.Title) {
			return invalid(name, "module %d has no title", i+1)
		}
	}
	return nil
}

// ValidateCareerPaths checks that there are exactly want named paths.
func ValidateCareerPaths(paths []CareerPath, want int) error {
	const name = "career-paths"
	if len(paths) != want {
		return invalid(name, "got %d paths, want %d", len(paths), want)
	}
	for i, p := range paths {
		if blank(p.PathName) {
			return invalid(name, "path %d has no name", i+1)
		}
	}
	return nil
}

var hedgingPhrases = []string{"I don't know", "I'm not sure", "As an AI"}

// CheckModuleQuality rejects sections whose content hedges or refers to the
// model itself.
func CheckModuleQuality(m *ModuleContent) error {
	const name = "module-quality"
	if m == nil {
		return invalid(name, "no content")
	}
	for i, s := range m.Sections {
		for _, p := range hedgingPhrases {
			if strings.Contains(s.Content, p) {
				return invalid(name, "section %d contains %q", i+1, p)
			}
		}
	}
	return nil
}
