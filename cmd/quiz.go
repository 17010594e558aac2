package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/ui/theme"
	"github.com/abhisek/pathwise/internal/workflow"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <topic>",
	Short: "Generate a topic quiz and answer it interactively",
	Long: `Generate a topic quiz and answer it question by question.

Answer with the option numbers, comma separated for questions with more than
one correct answer. With --record the score is saved to the learner's quiz
results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().IntP("count", "n", 5, "Number of questions to generate")
	quizCmd.Flags().String("grounding", "", "File with module text to base the questions on")
	quizCmd.Flags().Bool("record", false, "Save the result for the current learner")
	quizCmd.Flags().String("path", "", "Career path id to attach the recorded result to")
}

func runQuiz(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	count, _ := cmd.Flags().GetInt("count")
	groundingFile, _ := cmd.Flags().GetString("grounding")
	record, _ := cmd.Flags().GetBool("record")
	pathID, _ := cmd.Flags().GetString("path")

	var grounding string
	if groundingFile != "" {
		raw, err := os.ReadFile(groundingFile)
		if err != nil {
			return fmt.Errorf("read grounding: %w", err)
		}
		grounding = string(raw)
	}

	d, err := buildDeps(cmd, nil)
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Printf("Generating %d questions on %s...\n\n", count, topic)
	genCtx, cancel := d.generationContext(cmd.Context())
	quiz, err := d.Content.GenerateQuizData(genCtx, topic, count, grounding)
	cancel()
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	answers := make([][]string, len(quiz.Questions))

	for i, q := range quiz.Questions {
		fmt.Println(theme.Subtitle.Render(fmt.Sprintf("── Question %d/%d ──", i+1, len(quiz.Questions))))
		fmt.Println(q.Question)
		if q.QuestionType == content.QuestionMultiple {
			fmt.Println(theme.Hint.Render("(select all that apply)"))
		}
		for j, opt := range q.Answers {
			fmt.Printf("  %d) %s\n", j+1, opt)
		}

		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		picked, err := parseChoices(scanner.Text(), q.Answers)
		if err != nil {
			fmt.Println(theme.Hint.Render(err.Error()))
		}
		answers[i] = picked
		if len(picked) == 0 {
			fmt.Println("(skipped)")
			fmt.Println()
			continue
		}

		single := content.ScoreTopicQuiz([]content.TopicQuestion{q}, [][]string{picked})
		if single.Correct == 1 {
			fmt.Println(theme.Correct.Render("✓ Correct!"))
		} else {
			fmt.Printf("%s Answer: %s\n", theme.Incorrect.Render("✗ Wrong."), strings.Join(q.CorrectAnswer, ", "))
		}
		if q.Explanation != "" {
			fmt.Println(theme.Hint.Render("Explanation: " + q.Explanation))
		}
		fmt.Println()
	}

	score := content.ScoreTopicQuiz(quiz.Questions, answers)
	fmt.Println(theme.Title.Render(fmt.Sprintf("── Summary: %d/%d correct, %d points ──",
		score.Correct, score.Total, score.Points)))

	if !record {
		return nil
	}
	res, err := d.Workflows.RecordQuizResult(cmd.Context(), workflow.QuizSubmission{
		PathID:    pathID,
		Topic:     topic,
		Questions: quiz.Questions,
		Answers:   answers,
	})
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	fmt.Println(theme.Hint.Render("Saved result " + res.ID))
	return nil
}

// parseChoices maps "1, 3" onto the corresponding options.
func parseChoices(input string, options []string) ([]string, error) {
	var picked []string
	for _, f := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > len(options) {
			return picked, fmt.Errorf("ignoring %q: pick a number from 1 to %d", f, len(options))
		}
		picked = append(picked, options[n-1])
	}
	return picked, nil
}
