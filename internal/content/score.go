package content

import (
	"math"
	"slices"

	"github.com/abhisek/pathwise/internal/sanitize"
)

// DefaultPoints is awarded for a correct question that carries no points.
const DefaultPoints = 10

// QuizScore summarizes a graded topic quiz.
type QuizScore struct {
	Points   int     `json:"score"`
	Correct  int     `json:"correct"`
	Total    int     `json:"totalQuestions"`
	Accuracy float64 `json:"accuracy"` // percent, two decimals
}

// ScoreTopicQuiz grades answers against questions. answers[i] holds the
// options selected for question i; a question counts as correct only when
// the selection matches the correct answer set exactly, in any order.
func ScoreTopicQuiz(questions []TopicQuestion, answers [][]string) QuizScore {
	score := QuizScore{Total: len(questions)}
	for i, q := range questions {
		var picked []string
		if i < len(answers) {
			picked = answers[i]
		}
		if !sameSet(q.CorrectAnswer, picked) {
			continue
		}
		score.Correct++
		if q.Point > 0 {
			score.Points += q.Point
		} else {
			score.Points += DefaultPoints
		}
	}
	if score.Total > 0 {
		pct := float64(score.Correct) / float64(score.Total) * 100
		score.Accuracy = math.Round(pct*100) / 100
	}
	return score
}

func sameSet(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	a := slices.Clone(want)
	b := slices.Clone(got)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// CleanCodeExample strips fences from the code sample and fills in a missing
// language. A nil example, or one without code, becomes nil.
func CleanCodeExample(ex *CodeExample, defaultLanguage string) *CodeExample {
	if ex == nil {
		return nil
	}
	out := *ex
	out.Code = sanitize.CleanCode(ex.Code)
	if blank(out.Code) {
		return nil
	}
	out.Explanation = sanitize.SanitizeContent(ex.Explanation)
	if blank(out.Language) {
		out.Language = defaultLanguage
	}
	return &out
}
