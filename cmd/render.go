package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/ui/theme"
	"github.com/abhisek/pathwise/internal/workflow"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printModuleContent(mc *content.ModuleContent) {
	fmt.Println(theme.Title.Render(mc.Title))
	fmt.Println(theme.Hint.Render(string(mc.Type)))
	for i, s := range mc.Sections {
		fmt.Println()
		fmt.Println(theme.Subtitle.Render(fmt.Sprintf("%d. %s", i+1, s.Title)))
		fmt.Println(theme.Body.Render(s.Content))
		for _, p := range s.KeyPoints {
			fmt.Println("  • " + p)
		}
		if s.CodeExample != nil && s.CodeExample.Code != "" {
			fmt.Println()
			fmt.Println(theme.Hint.Render(s.CodeExample.Language))
			fmt.Println(theme.Code.Render(s.CodeExample.Code))
			if s.CodeExample.Explanation != "" {
				fmt.Println(theme.Hint.Render(s.CodeExample.Explanation))
			}
		}
	}
}

func printFlashcards(cards []content.Flashcard) {
	for _, c := range cards {
		fmt.Println(theme.Card.Render(
			theme.Label.Render(fmt.Sprintf("#%d", c.ID)) + " " + c.FrontHTML + "\n" +
				theme.Hint.Render(c.BackHTML)))
	}
}

func printLearningPath(p content.LearningPath) {
	if p.Type != content.PathCareer {
		for _, t := range p.Titles {
			fmt.Println(theme.Body.Render(t))
		}
		return
	}
	for i, m := range p.Modules {
		fmt.Println(theme.Subtitle.Render(fmt.Sprintf("%d. %s", i+1, m.Title)) +
			" " + theme.Hint.Render(m.EstimatedTime))
		fmt.Println("   " + m.Description)
	}
}

func printCareerPaths(paths []content.CareerPath) {
	for _, p := range paths {
		fmt.Println(theme.Title.Render(p.PathName) + "  " +
			theme.Hint.Render(fmt.Sprintf("%s · %s · relevance %d", p.Difficulty, p.EstimatedTimeToComplete, p.RelevanceScore)))
		fmt.Println(p.Description)
		for i, m := range p.Modules {
			fmt.Printf("  %d. %s (%dh) %s\n", i+1, m.Title, m.EstimatedHours,
				theme.Hint.Render(strings.Join(m.KeySkills, ", ")))
		}
		fmt.Println()
	}
}

func printModuleQuiz(q content.ModuleQuiz) {
	for i, question := range q.Questions {
		fmt.Println(theme.Subtitle.Render(fmt.Sprintf("%d. %s", i+1, question.Question)))
		for j, opt := range question.Options {
			marker := " "
			if j == question.CorrectIndex {
				marker = theme.Correct.Render("✓")
			}
			fmt.Printf("  %s %d) %s\n", marker, j+1, opt)
		}
		if question.Explanation != "" {
			fmt.Println("  " + theme.Hint.Render(question.Explanation))
		}
	}
}

func printCareerPath(p workflow.CareerPath) {
	fmt.Println(theme.Title.Render(p.CareerName) + "  " + theme.Hint.Render(p.ID))
	fmt.Println(theme.ProgressBar(p.Progress, 30))
	for i := range p.Modules {
		mark := theme.ProgressEmpty.Render("○")
		if p.IsComplete(i) {
			mark = theme.Correct.Render("●")
		}
		fmt.Printf("  %s %d. %s\n", mark, i, p.ModuleTitle(i))
	}
}
