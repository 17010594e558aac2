// Package fallback synthesizes deterministic placeholder content used when
// generation fails. Every function is pure and keyed only on its arguments,
// and every result satisfies the same shape and count invariants as a
// successful generation.
package fallback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/pathwise/internal/content"
)

var placeholderOptions = []string{"Option A", "Option B", "Option C", "Option D"}

func options() []string {
	return append([]string(nil), placeholderOptions...)
}

// Flashcards returns n cards of increasing difficulty that reference topic.
func Flashcards(topic string, n int) []content.Flashcard {
	cards := make([]content.Flashcard, n)
	for i := range cards {
		cards[i] = content.Flashcard{
			ID:        i + 1,
			FrontHTML: fmt.Sprintf("Basic to advanced %s question %d?", topic, i+1),
			BackHTML:  fmt.Sprintf("Detailed answer explaining %s at difficulty level %d.", topic, i+1),
		}
	}
	return cards
}

// TopicQuiz returns n single-choice questions whose correct answer is the
// first option.
func TopicQuiz(topic string, n int) content.TopicQuiz {
	qs := make([]content.TopicQuestion, n)
	for i := range qs {
		opts := options()
		qs[i] = content.TopicQuestion{
			Question:      fmt.Sprintf("Question %d: Which statement best describes a key idea in %s?", i+1, topic),
			QuestionType:  content.QuestionSingle,
			Answers:       opts,
			CorrectAnswer: content.AnswerSet{opts[0]},
			Explanation:   fmt.Sprintf("Option A reflects a core concept of %s.", topic),
			Point:         content.DefaultPoints,
		}
	}
	return content.TopicQuiz{NrOfQuestions: strconv.Itoa(n), Questions: qs}
}

// ModuleQuiz returns the fixed five-question quiz for moduleName.
func ModuleQuiz(moduleName string) content.ModuleQuiz {
	templates := []struct {
		question    string
		correct     int
		explanation string
	}{
		{"What is the main focus of %s?", 0, "This is the correct answer based on the module content."},
		{"Which of these is NOT related to %s?", 1, "This option is unrelated to the topic."},
		{"What is a key principle in %s?", 2, "This principle is fundamental to understanding the topic."},
		{"How does %s apply to real-world scenarios?", 3, "This reflects the practical application of the concept."},
		{"What advanced technique is associated with %s?", 0, "This is an advanced technique in this field."},
	}
	qs := make([]content.ModuleQuestion, len(templates))
	for i, t := range templates {
		qs[i] = content.ModuleQuestion{
			Question:     fmt.Sprintf(t.question, moduleName),
			Options:      options(),
			CorrectIndex: t.correct,
			Explanation:  t.explanation,
		}
	}
	return content.ModuleQuiz{Questions: qs}
}

// TopicPath returns the five-module topic-mode path for goal.
func TopicPath(goal string) content.LearningPath {
	return content.LearningPath{
		Type: content.PathTopic,
		Titles: []string{
			fmt.Sprintf("Module 1: Introduction to %s", goal),
			fmt.Sprintf("Module 2: Core Concepts of %s", goal),
			fmt.Sprintf("Module 3: Intermediate %s Techniques", goal),
			fmt.Sprintf("Module 4: Advanced %s Applications", goal),
			fmt.Sprintf("Module 5: Real-world %s Projects", goal),
		},
	}
}

// CareerPath returns the five-module career-mode path for goal.
func CareerPath(goal string) content.LearningPath {
	return content.LearningPath{
		Type: content.PathCareer,
		Modules: []content.PathModule{
			{
				Title:         fmt.Sprintf("Introduction to %s", goal),
				Description:   fmt.Sprintf("Learn the fundamentals of %s", goal),
				EstimatedTime: "1-2 hours",
				Content:       fmt.Sprintf("This module introduces the basic concepts of %s.", goal),
			},
			{
				Title:         fmt.Sprintf("%s Fundamentals", goal),
				Description:   fmt.Sprintf("Understand the core principles of %s", goal),
				EstimatedTime: "2-3 hours",
				Content:       fmt.Sprintf("Build a solid foundation in %s by mastering the essential concepts.", goal),
			},
			{
				Title:         fmt.Sprintf("Practical %s", goal),
				Description:   "Apply your knowledge through practical exercises",
				EstimatedTime: "3-4 hours",
				Content:       "Practice makes perfect. In this module, you'll apply your theoretical knowledge.",
			},
			{
				Title:         fmt.Sprintf("Advanced %s", goal),
				Description:   "Dive deeper into advanced concepts",
				EstimatedTime: "3-4 hours",
				Content:       "Take your skills to the next level with advanced techniques and methodologies.",
			},
			{
				Title:         fmt.Sprintf("%s in the Real World", goal),
				Description:   "Learn how to apply your skills in real-world scenarios",
				EstimatedTime: "2-3 hours",
				Content:       "Discover how professionals use these skills in industry settings.",
			},
		},
	}
}

// FillPathModule completes a career-mode module, substituting goal-based
// defaults for empty fields.
func FillPathModule(m content.PathModule, goal string) content.PathModule {
	if strings.TrimSpace(m.Title) == "" {
		m.Title = fmt.Sprintf("Learning %s", goal)
	}
	if strings.TrimSpace(m.Description) == "" {
		m.Description = fmt.Sprintf("Learn about %s", goal)
	}
	if strings.TrimSpace(m.EstimatedTime) == "" {
		m.EstimatedTime = "1-2 hours"
	}
	if strings.TrimSpace(m.Content) == "" {
		m.Content = fmt.Sprintf("This module will teach you about %s", goal)
	}
	return m
}
