package contentgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/fallback"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/metrics"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryDelay = time.Millisecond
	cfg.CareerRetry.Delay = time.Millisecond
	return cfg
}

func newTestService(t *testing.T, cfg Config, families map[string]*llm.MockProvider) (*Service, *metrics.Metrics) {
	t.Helper()
	providers := make(map[string]llm.Provider, len(families))
	for name, p := range families {
		providers[name] = p
	}
	m := metrics.New(prometheus.NewRegistry())
	return New(providers, cfg, zap.NewNop(), m), m
}

func reply(text string) llm.MockResponse {
	return llm.MockResponse{Text: text}
}

func failure() llm.MockResponse {
	return llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}}
}

func lastPrompt(t *testing.T, p *llm.MockProvider) string {
	t.Helper()
	require.NotEmpty(t, p.Calls)
	msgs := p.Calls[len(p.Calls)-1].Messages
	require.Len(t, msgs, 1)
	return msgs[0].Content
}

func generations(m *metrics.Metrics, kind Kind, outcome string) float64 {
	return testutil.ToFloat64(m.Generations.WithLabelValues(string(kind), outcome))
}

// --- Flashcards ---

func TestGenerateFlashcards_UnparsableReplyFallsBack(t *testing.T) {
	gemini := llm.NewMockProvider(reply("Sorry, I can only help with that later."))
	groq := llm.NewMockProvider(reply(`[{"id": 1, "frontHTML": "What is`))
	svc, m := newTestService(t, testConfig(), map[string]*llm.MockProvider{
		llm.FamilyGemini: gemini,
		llm.FamilyGroq:   groq,
	})

	cards, err := svc.GenerateFlashcards(context.Background(), "React Hooks", 5)
	require.NoError(t, err)
	require.Len(t, cards, 5)
	for i, c := range cards {
		assert.Equal(t, i+1, c.ID)
		assert.Contains(t, c.FrontHTML, "React Hooks")
	}
	assert.Equal(t, 1, gemini.CallCount())
	assert.Equal(t, 1, groq.CallCount())
	assert.Equal(t, 1.0, generations(m, KindFlashcards, metrics.OutcomeFallback))
}

func TestGenerateFlashcards_NextFamilyAndRenumber(t *testing.T) {
	gemini := llm.NewMockProvider(failure())
	groq := llm.NewMockProvider(reply("Here you go:\n```json\n[" +
		`{"id": 7, "frontHTML": "What is a goroutine?", "backHTML": "A lightweight thread."},` +
		`{"id": 8, "frontHTML": "What is a channel?", "backHTML": "A typed conduit."},` +
		`{"id": 9, "frontHTML": "What does select do?", "backHTML": "Waits on channels."},` +
		"]\n```"))
	svc, m := newTestService(t, testConfig(), map[string]*llm.MockProvider{
		llm.FamilyGemini: gemini,
		llm.FamilyGroq:   groq,
	})

	cards, err := svc.GenerateFlashcards(context.Background(), "Go concurrency", 3)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{cards[0].ID, cards[1].ID, cards[2].ID})
	assert.Equal(t, "What is a channel?", cards[1].FrontHTML)
	assert.Equal(t, 1.0, generations(m, KindFlashcards, metrics.OutcomeSuccess))
}

func TestGenerateFlashcards_WrongCountFallsBack(t *testing.T) {
	gemini := llm.NewMockProvider(reply(`[{"frontHTML": "Q?", "backHTML": "A."}]`))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	cards, err := svc.GenerateFlashcards(context.Background(), "Kubernetes", 3)
	require.NoError(t, err)
	assert.Equal(t, fallback.Flashcards("Kubernetes", 3), cards)
}

func TestGenerateFlashcards_InvalidInput(t *testing.T) {
	gemini := llm.NewMockProvider()
	svc, m := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	tests := []struct {
		name  string
		topic string
		n     int
	}{
		{"blank topic", "   ", 5},
		{"zero count", "Go", 0},
		{"negative count", "Go", -1},
		{"count above max", "Go", 51},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GenerateFlashcards(context.Background(), tt.topic, tt.n)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, gemini.CallCount())
	assert.Equal(t, 4.0, generations(m, KindFlashcards, metrics.OutcomeInvalid))
}

func TestGenerateFlashcards_SkipsUnconfiguredFamilies(t *testing.T) {
	groq := llm.NewMockProvider(reply(`[{"frontHTML": "Q?", "backHTML": "A."}]`))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGroq: groq})

	cards, err := svc.GenerateFlashcards(context.Background(), "Docker", 1)
	require.NoError(t, err)
	assert.Equal(t, "Q?", cards[0].FrontHTML)
	assert.Equal(t, 1, groq.CallCount())
}

func TestGenerateFlashcards_NoFamiliesFallsBack(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), nil)

	cards, err := svc.GenerateFlashcards(context.Background(), "Docker", 2)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

// --- Topic quiz ---

func TestGenerateQuizData_NormalizesQuestions(t *testing.T) {
	gemini := llm.NewMockProvider(reply(`[
		{"question": "Which are HTTP verbs?", "questionType": "single", "answers": ["GET", "FETCH", "POST", "SEND"], "correctAnswer": ["GET", "POST"], "explanation": "Both are verbs.", "point": 0},
		{"question": "Default HTTPS port?", "answers": ["80", "443", "8080", "22"], "correctAnswer": "443", "explanation": "TLS.", "point": 5}
	]`))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	quiz, err := svc.GenerateQuizData(context.Background(), "HTTP", 2, "")
	require.NoError(t, err)
	assert.Equal(t, "2", quiz.NrOfQuestions)
	require.Len(t, quiz.Questions, 2)

	assert.Equal(t, content.QuestionMultiple, quiz.Questions[0].QuestionType)
	assert.Equal(t, content.DefaultPoints, quiz.Questions[0].Point)
	assert.Equal(t, content.QuestionSingle, quiz.Questions[1].QuestionType)
	assert.Equal(t, 5, quiz.Questions[1].Point)
	assert.Equal(t, content.AnswerSet{"443"}, quiz.Questions[1].CorrectAnswer)
}

func TestGenerateQuizData_FallbackKeepsCount(t *testing.T) {
	gemini := llm.NewMockProvider(failure())
	groq := llm.NewMockProvider(reply(`[]`))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{
		llm.FamilyGemini: gemini,
		llm.FamilyGroq:   groq,
	})

	quiz, err := svc.GenerateQuizData(context.Background(), "Photosynthesis", 7, "")
	require.NoError(t, err)
	assert.Equal(t, "7", quiz.NrOfQuestions)
	require.Len(t, quiz.Questions, 7)
	for _, q := range quiz.Questions {
		assert.Equal(t, content.QuestionSingle, q.QuestionType)
		require.Len(t, q.Answers, 4)
		assert.Equal(t, content.AnswerSet{q.Answers[0]}, q.CorrectAnswer)
	}
}

func TestGenerateQuizData_TruncatesGrounding(t *testing.T) {
	gemini := llm.NewMockProvider()
	cfg := testConfig()
	cfg.GroundingLimit = 10
	svc, _ := newTestService(t, cfg, map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	grounding := strings.Repeat("é", 20) + "TAIL"
	_, err := svc.GenerateQuizData(context.Background(), "Accents", 1, grounding)
	require.NoError(t, err)

	prompt := lastPrompt(t, gemini)
	assert.Contains(t, prompt, strings.Repeat("é", 10))
	assert.NotContains(t, prompt, strings.Repeat("é", 11))
	assert.NotContains(t, prompt, "TAIL")
}

// --- Module quiz ---

func moduleQuizJSON(n int) string {
	qs := make([]content.ModuleQuestion, n)
	for i := range qs {
		qs[i] = content.ModuleQuestion{
			Question:     fmt.Sprintf("Question %d?", i+1),
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
			Explanation:  "Because.",
		}
	}
	raw, _ := json.Marshal(content.ModuleQuiz{Questions: qs})
	return string(raw)
}

func TestGenerateQuiz_ModuleForm(t *testing.T) {
	gemini := llm.NewMockProvider(reply(moduleQuizJSON(5)))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	quiz, err := svc.GenerateQuiz(context.Background(), "Module 2: SQL Joins")
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 5)
	assert.Equal(t, "Question 3?", quiz.Questions[2].Question)
	assert.True(t, gemini.Calls[0].JSON, "module quiz asks for a JSON object")
}

func TestGenerateQuiz_ShortReplyFallsBack(t *testing.T) {
	gemini := llm.NewMockProvider(reply(moduleQuizJSON(4)))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	quiz, err := svc.GenerateQuiz(context.Background(), "SQL Joins")
	require.NoError(t, err)
	assert.Equal(t, fallback.ModuleQuiz("SQL Joins"), quiz)
}

// --- Learning path ---

func TestGenerateLearningPath_TopicFallback(t *testing.T) {
	gemini := llm.NewMockProvider(failure())
	groq := llm.NewMockProvider(failure())
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{
		llm.FamilyGemini: gemini,
		llm.FamilyGroq:   groq,
	})

	path, err := svc.GenerateLearningPath(context.Background(), "UX Design", PathOptions{Type: content.PathTopic})
	require.NoError(t, err)
	assert.Equal(t, content.PathTopic, path.Type)
	require.Len(t, path.Titles, 5)
	for i, title := range path.Titles {
		assert.True(t, strings.HasPrefix(title, fmt.Sprintf("Module %d: ", i+1)), title)
	}
}

func TestGenerateLearningPath_TopicAddsMissingPrefix(t *testing.T) {
	gemini := llm.NewMockProvider(reply(`["Basics", "Module 2: Tools", "Layouts", "module 4: Testing", "Shipping"]`))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	path, err := svc.GenerateLearningPath(context.Background(), "Web Design", PathOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Module 1: Basics",
		"Module 2: Tools",
		"Module 3: Layouts",
		"module 4: Testing",
		"Module 5: Shipping",
	}, path.Titles)
}

func careerModulesJSON(n int) string {
	mods := make([]map[string]string, n)
	for i := range mods {
		mods[i] = map[string]string{
			"title":         fmt.Sprintf("Step %d", i+1),
			"description":   "What it covers",
			"estimatedTime": "2 hours",
			"content":       "Key points",
		}
	}
	mods[0]["description"] = ""
	raw, _ := json.Marshal(mods)
	return string(raw)
}

func TestGenerateLearningPath_CareerRetriesWithinFamily(t *testing.T) {
	gemini := llm.NewMockProvider(failure(), reply(careerModulesJSON(6)))
	groq := llm.NewMockProvider()
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{
		llm.FamilyGemini: gemini,
		llm.FamilyGroq:   groq,
	})

	path, err := svc.GenerateLearningPath(context.Background(), "Go", PathOptions{Type: content.PathCareer})
	require.NoError(t, err)
	assert.Equal(t, content.PathCareer, path.Type)
	require.Len(t, path.Modules, 6)
	assert.Equal(t, "Learn about Go", path.Modules[0].Description)
	assert.Equal(t, 2, gemini.CallCount())
	assert.Equal(t, 0, groq.CallCount())
}

func TestGenerateLearningPath_CareerFallback(t *testing.T) {
	gemini := llm.NewMockProvider()
	svc, m := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	path, err := svc.GenerateLearningPath(context.Background(), "Cloud Security", PathOptions{Type: content.PathCareer})
	require.NoError(t, err)
	assert.Equal(t, fallback.CareerPath("Cloud Security"), path)
	assert.Equal(t, 3, gemini.CallCount(), "career mode retries each family")
	assert.Equal(t, 1.0, generations(m, KindLearningPath, metrics.OutcomeFallback))
}

func TestGenerateLearningPath_CareerTooFewModulesFallsBack(t *testing.T) {
	gemini := llm.NewMockProvider(reply(careerModulesJSON(3)))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	path, err := svc.GenerateLearningPath(context.Background(), "Rust", PathOptions{Type: content.PathCareer})
	require.NoError(t, err)
	assert.Equal(t, fallback.CareerPath("Rust"), path)
}

func TestGenerateLearningPath_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), nil)

	_, err := svc.GenerateLearningPath(context.Background(), "", PathOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GenerateLearningPath(context.Background(), "Go", PathOptions{Type: "bootcamp"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// --- Career paths ---

func TestGenerateCareerPaths_PostProcessing(t *testing.T) {
	modules := func(n int) []map[string]any {
		out := make([]map[string]any, n)
		for i := range out {
			out[i] = map[string]any{"title": fmt.Sprintf("M%d", i+1), "estimatedHours": 2.6}
		}
		return out
	}
	paths := []map[string]any{
		{"pathName": "Data Engineer", "difficulty": "expert", "relevanceScore": 150, "modules": modules(5)},
		{"pathName": "Analyst", "difficulty": "Beginner", "relevanceScore": -10},
		{"pathName": "ML Engineer", "difficulty": "advanced", "relevanceScore": 87.5, "modules": modules(2)},
		{"pathName": "Architect", "difficulty": "intermediate", "relevanceScore": 60, "modules": modules(9)},
	}
	raw, err := json.Marshal(paths)
	require.NoError(t, err)

	gemini := llm.NewMockProvider(reply(string(raw)))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	got, err := svc.GenerateCareerPaths(context.Background(), content.Profile{Name: "Ada", Goal: "Data"})
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, 100, got[0].RelevanceScore)
	assert.Equal(t, content.DifficultyIntermediate, got[0].Difficulty)
	require.Len(t, got[0].Modules, 5)
	assert.Equal(t, 3, got[0].Modules[0].EstimatedHours)

	assert.Equal(t, 0, got[1].RelevanceScore)
	assert.Equal(t, content.DifficultyBeginner, got[1].Difficulty)
	assert.Equal(t, fallback.CareerModules("Analyst", 6), got[1].Modules)

	assert.Equal(t, 88, got[2].RelevanceScore)
	assert.Len(t, got[2].Modules, 6)

	assert.Len(t, got[3].Modules, 8)

	prompt := lastPrompt(t, gemini)
	assert.Contains(t, prompt, "Name: Ada")
	assert.Contains(t, prompt, "Current skills: None")
}

func TestGenerateCareerPaths_InvalidInput(t *testing.T) {
	gemini := llm.NewMockProvider()
	svc, m := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	for _, p := range []content.Profile{{}, {Name: "Ada", Goal: "  "}} {
		_, err := svc.GenerateCareerPaths(context.Background(), p)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Equal(t, 0, gemini.CallCount())
	assert.Equal(t, 2.0, generations(m, KindCareerPaths, metrics.OutcomeInvalid))
}

func TestGenerateCareerPaths_WrongCountFallsBack(t *testing.T) {
	gemini := llm.NewMockProvider(reply(`[{"pathName": "Only one"}]`))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	profile := content.Profile{Goal: "Data Science", Skills: []string{"Python"}, Interests: []string{"Health"}}
	got, err := svc.GenerateCareerPaths(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, fallback.CareerPaths(profile, 6), got)
}

func TestClampRelevance(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{150, 100},
		{-10, 0},
		{42, 42},
		{99.5, 100},
		{0.4, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampRelevance(tt.in), "ClampRelevance(%v)", tt.in)
	}
}

// --- Module content ---

const bstContent = `{
	"title": "Binary Search Trees",
	"type": "technical",
	"sections": [
		{
			"title": "What a BST Is",
			"content": "A binary search tree keeps every key in the left subtree smaller than its parent and every key in the right subtree larger.",
			"keyPoints": ["Ordered keys", "Recursive structure"],
			"codeExample": {"language": "python", "code": "class Node:\n    def __init__(self, key):\n        self.key = key", "explanation": "A node holds one key."}
		},
		{
			"title": "Searching",
			"content": "Searching compares the target with the current node and walks left or right, so a balanced tree answers in logarithmic time.",
			"keyPoints": ["O(log n) when balanced"],
			"codeExample": null
		},
		{
			"title": "Insertion",
			"content": "Insertion follows the same path as a failed search and attaches the new key as a leaf where the search stopped.",
			"keyPoints": [],
			"codeExample": null
		}
	]
}`

func TestGenerateModuleContent_ValidReplyUnmodified(t *testing.T) {
	groq := llm.NewMockProvider(reply(bstContent))
	svc, m := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGroq: groq})

	got, err := svc.GenerateModuleContent(context.Background(), "binary search trees", ModuleOptions{})
	require.NoError(t, err)

	var want content.ModuleContent
	require.NoError(t, json.Unmarshal([]byte(bstContent), &want))
	assert.Equal(t, &want, got)
	assert.Equal(t, content.TypeTechnical, got.Type)

	prompt := lastPrompt(t, groq)
	assert.Contains(t, prompt, "Sections: exactly 3")
	assert.Contains(t, prompt, "Level: Basic")
	assert.True(t, groq.Calls[0].JSON)
	assert.Equal(t, 1.0, generations(m, KindModuleContent, metrics.OutcomeSuccess))
}

func TestGenerateModuleContent_DetailedAsksForFourSections(t *testing.T) {
	groq := llm.NewMockProvider(reply(bstContent))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGroq: groq})

	_, err := svc.GenerateModuleContent(context.Background(), "binary search trees", ModuleOptions{Detailed: true})
	require.NoError(t, err)
	prompt := lastPrompt(t, groq)
	assert.Contains(t, prompt, "Sections: exactly 4")
	assert.Contains(t, prompt, "Level: Advanced")
}

func TestGenerateModuleContent_SanitizesFields(t *testing.T) {
	raw := `{
		"title": "Python Decorators",
		"sections": [{
			"title": "Wrapping functions",
			"content": "A decorator such as ` + "`@cache`" + ` wraps a function.\\nIt returns a new callable that adds behaviour around the original call.",
			"keyPoints": ["` + "`functools.wraps`" + ` keeps metadata", "  "],
			"codeExample": {"code": "` + "```python" + `\ndef deco(f):\n    return f\n` + "```" + `", "explanation": "Identity decorator."}
		}]
	}`
	groq := llm.NewMockProvider(reply(raw))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGroq: groq})

	got, err := svc.GenerateModuleContent(context.Background(), "Python decorators", ModuleOptions{})
	require.NoError(t, err)

	assert.Equal(t, content.TypeTechnical, got.Type, "missing type comes from the classifier")
	sec := got.Sections[0]
	assert.Equal(t, "A decorator such as @cache wraps a function.\nIt returns a new callable that adds behaviour around the original call.", sec.Content)
	assert.Equal(t, []string{"functools.wraps keeps metadata"}, sec.KeyPoints)
	require.NotNil(t, sec.CodeExample)
	assert.Equal(t, "def deco(f):\n    return f", sec.CodeExample.Code)
	assert.Equal(t, "python", sec.CodeExample.Language)
}

func TestGenerateModuleContent_RetriesWholeRoute(t *testing.T) {
	groq := llm.NewMockProvider(failure(), reply(bstContent))
	gemini := llm.NewMockProvider(reply("not json at all"))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{
		llm.FamilyGroq:   groq,
		llm.FamilyGemini: gemini,
	})

	got, err := svc.GenerateModuleContent(context.Background(), "binary search trees", ModuleOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Binary Search Trees", got.Title)
	assert.Equal(t, 2, groq.CallCount())
	assert.Equal(t, 1, gemini.CallCount())
}

func TestGenerateModuleContent_ShortSectionRejected(t *testing.T) {
	short := `{"title": "T", "type": "general", "sections": [{"title": "S", "content": "Too short."}]}`
	groq := llm.NewMockProvider(reply(short), reply(short), reply(short))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGroq: groq})

	_, err := svc.GenerateModuleContent(context.Background(), "Gardening", ModuleOptions{})
	var verr *content.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGenerateModuleContent_Exhausted(t *testing.T) {
	groq := llm.NewMockProvider()
	gemini := llm.NewMockProvider()
	svc, m := newTestService(t, testConfig(), map[string]*llm.MockProvider{
		llm.FamilyGroq:   groq,
		llm.FamilyGemini: gemini,
	})

	_, err := svc.GenerateModuleContent(context.Background(), "Kafka", ModuleOptions{})
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, KindModuleContent, exhausted.Kind)
	assert.Equal(t, 3, exhausted.Attempts)
	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)

	assert.Equal(t, 3, groq.CallCount())
	assert.Equal(t, 3, gemini.CallCount())
	assert.Equal(t, 1.0, generations(m, KindModuleContent, metrics.OutcomeExhausted))
}

func TestGenerateModuleContent_StopsOnCancel(t *testing.T) {
	groq := llm.NewMockProvider(reply(bstContent))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGroq: groq})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GenerateModuleContent(ctx, "binary search trees", ModuleOptions{})
	require.ErrorIs(t, err, context.Canceled)
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 1, exhausted.Attempts)
}

func TestGenerateModuleContent_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), nil)

	_, err := svc.GenerateModuleContent(context.Background(), " ", ModuleOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// --- Chat ---

func TestGenerateChatResponse_Verbatim(t *testing.T) {
	gemini := llm.NewMockProvider(reply("Closures capture **variables**, not values.\n"))
	groq := llm.NewMockProvider(reply("unused"))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{
		llm.FamilyGemini: gemini,
		llm.FamilyGroq:   groq,
	})

	got, err := svc.GenerateChatResponse(context.Background(), "What do closures capture?", content.ChatContext{Topic: "JavaScript"})
	require.NoError(t, err)
	assert.Equal(t, "Closures capture **variables**, not values.\n", got)
	assert.Equal(t, 0, groq.CallCount())

	prompt := lastPrompt(t, gemini)
	assert.Contains(t, prompt, "Topic: JavaScript")
	assert.Contains(t, prompt, "Level: Intermediate")
	assert.Contains(t, prompt, "Focus: General understanding")
	assert.Contains(t, prompt, "What do closures capture?")
	assert.False(t, gemini.Calls[0].JSON)
}

func TestGenerateChatResponse_NoFallback(t *testing.T) {
	gemini := llm.NewMockProvider(failure())
	groq := llm.NewMockProvider(reply("unused"))
	svc, m := newTestService(t, testConfig(), map[string]*llm.MockProvider{
		llm.FamilyGemini: gemini,
		llm.FamilyGroq:   groq,
	})

	_, err := svc.GenerateChatResponse(context.Background(), "Hi", content.ChatContext{})
	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 0, groq.CallCount())
	assert.Equal(t, 1.0, generations(m, KindChat, metrics.OutcomeError))
}

func TestGenerateChatResponse_EmptyReply(t *testing.T) {
	gemini := llm.NewMockProvider(reply("   "))
	svc, _ := newTestService(t, testConfig(), map[string]*llm.MockProvider{llm.FamilyGemini: gemini})

	_, err := svc.GenerateChatResponse(context.Background(), "Hi", content.ChatContext{})
	var invalid *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestGenerateChatResponse_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t, testConfig(), nil)

	_, err := svc.GenerateChatResponse(context.Background(), "", content.ChatContext{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// --- Routing ---

func TestRoutesFor(t *testing.T) {
	routes := RoutesFor([]string{llm.FamilyGroq, llm.FamilyGemini})
	assert.Equal(t, []string{llm.FamilyGroq, llm.FamilyGemini}, routes[KindModuleContent])
	assert.Equal(t, []string{llm.FamilyGemini, llm.FamilyGroq}, routes[KindFlashcards])
	assert.Equal(t, []string{llm.FamilyGemini, llm.FamilyGroq}, routes[KindChat])
	assert.Equal(t, DefaultConfig().Routes, routes)

	routes = RoutesFor([]string{llm.FamilyAnthropic, llm.FamilyGroq, llm.FamilyOpenAI})
	assert.Equal(t, []string{llm.FamilyGroq, llm.FamilyAnthropic, llm.FamilyOpenAI}, routes[KindModuleContent])
	assert.Equal(t, []string{llm.FamilyAnthropic, llm.FamilyOpenAI, llm.FamilyGroq}, routes[KindCareerPaths])

	routes = RoutesFor([]string{llm.FamilyOpenRouter})
	for _, k := range []Kind{KindModuleContent, KindFlashcards, KindTopicQuiz, KindModuleQuiz, KindLearningPath, KindCareerPaths, KindChat} {
		assert.Equal(t, []string{llm.FamilyOpenRouter}, routes[k], k)
	}
}

func TestConfigFor(t *testing.T) {
	lc := llm.DefaultConfig()
	lc.Families = []string{llm.FamilyAnthropic}
	lc.Retry = llm.RetryConfig{MaxAttempts: 5, Delay: 250 * time.Millisecond}

	cfg := ConfigFor(lc)
	assert.Equal(t, []string{llm.FamilyAnthropic}, cfg.Routes[KindChat])
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, lc.Retry, cfg.CareerRetry)

	cfg = ConfigFor(llm.Config{Families: []string{llm.FamilyGemini}})
	assert.Equal(t, DefaultConfig().MaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, DefaultConfig().CareerRetry, cfg.CareerRetry)
}

func TestConfigFor_ConfiguredFamilyIsUsed(t *testing.T) {
	anthropic := llm.NewMockProvider(
		reply("Use a buffered channel."),
		reply(`[{"frontHTML": "Q?", "backHTML": "A."}]`),
	)
	lc := llm.DefaultConfig()
	lc.Families = []string{llm.FamilyAnthropic}
	svc, _ := newTestService(t, ConfigFor(lc), map[string]*llm.MockProvider{llm.FamilyAnthropic: anthropic})

	answer, err := svc.GenerateChatResponse(context.Background(), "How do I queue work?", content.ChatContext{})
	require.NoError(t, err)
	assert.Equal(t, "Use a buffered channel.", answer)

	cards, err := svc.GenerateFlashcards(context.Background(), "Channels", 1)
	require.NoError(t, err)
	assert.Equal(t, "Q?", cards[0].FrontHTML)
	assert.Equal(t, 2, anthropic.CallCount())
}

func TestGenerateModuleContent_PreferredModel(t *testing.T) {
	primary := llm.NewNamedMockProvider("llama-small")
	preferred := llm.NewNamedMockProvider("llama-large", reply(bstContent))
	ladder := llm.NewLadder(llm.FamilyGroq, primary, preferred)

	svc := New(map[string]llm.Provider{llm.FamilyGroq: ladder}, testConfig(), zap.NewNop(), nil)
	mc, err := svc.GenerateModuleContent(context.Background(), "binary search trees", ModuleOptions{Model: "llama-large"})
	require.NoError(t, err)
	assert.Equal(t, "Binary Search Trees", mc.Title)
	assert.Equal(t, 0, primary.CallCount())
	assert.Equal(t, 1, preferred.CallCount())
}
