package content

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/pathwise/internal/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ModuleContent(t *testing.T) {
	raw := `{
		"title": "Binary Search Trees",
		"type": "general",
		"sections": [
			{"title": "Intro", "content": "A binary search tree keeps keys ordered so lookups take logarithmic time.", "keyPoints": ["ordered"], "codeExample": null}
		]
	}`
	mc, err := Decode[ModuleContent](raw, ModuleContentSchema)
	require.NoError(t, err)
	assert.Equal(t, TypeGeneral, mc.Type)
	require.Len(t, mc.Sections, 1)
	assert.Nil(t, mc.Sections[0].CodeExample)
}

func TestDecode_ShapeErrors(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		schema *Schema
	}{
		{"not json", `{"title":`, ModuleContentSchema},
		{"missing sections", `{"title": "x"}`, ModuleContentSchema},
		{"sections not array", `{"title": "x", "sections": "none"}`, ModuleContentSchema},
		{"flashcards object", `{"frontHTML": "q", "backHTML": "a"}`, FlashcardsSchema},
		{"correct index string", `{"questions": [{"question": "q", "options": ["a"], "correctIndex": "0"}]}`, ModuleQuizSchema},
		{"correct answer number", `[{"question": "q", "answers": ["a"], "correctAnswer": 1}]`, TopicQuestionsSchema},
		{"path not strings", `[1, 2]`, TopicPathSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[any](tt.raw, tt.schema)
			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.schema.Name, perr.Schema)
		})
	}
}

func TestDecode_TopicQuestionAnswerForms(t *testing.T) {
	raw := `[
		{"question": "One?", "questionType": "single", "answers": ["a","b","c","d"], "correctAnswer": "a", "point": 10},
		{"question": "Many?", "questionType": "multiple", "answers": ["a","b","c","d"], "correctAnswer": ["b","c"], "point": 10}
	]`
	qs, err := Decode[[]TopicQuestion](raw, TopicQuestionsSchema)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, AnswerSet{"a"}, qs[0].CorrectAnswer)
	assert.Equal(t, AnswerSet{"b", "c"}, qs[1].CorrectAnswer)

	out, err := json.Marshal(qs[0].CorrectAnswer)
	require.NoError(t, err)
	assert.JSONEq(t, `"a"`, string(out))
}

func TestDecode_CareerPathsAcceptsFractionalNumbers(t *testing.T) {
	raw := `[{"pathName": "Data Engineer", "relevanceScore": 87.5, "modules": [{"title": "SQL", "estimatedHours": 4}]}]`
	_, err := Decode[[]map[string]any](raw, CareerPathsSchema)
	assert.NoError(t, err)
}

func TestLearningPathJSON(t *testing.T) {
	topic := LearningPath{Type: PathTopic, Titles: []string{"Module 1: Basics"}}
	raw, err := json.Marshal(topic)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"topic","modules":["Module 1: Basics"]}`, string(raw))

	var back LearningPath
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, topic, back)

	career := LearningPath{Type: PathCareer, Modules: []PathModule{{Title: "Intro", EstimatedTime: "1-2 hours"}}}
	raw, err = json.Marshal(career)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, career, back)
	assert.Equal(t, []string{"Intro"}, back.ModuleTitles())
	assert.Equal(t, 1, back.Len())
}

// Sanitizing well-formed output must not alter any entity.
func TestSanitizeRoundTrip(t *testing.T) {
	values := []any{
		&ModuleContent{Title: "Go", Type: TypeTechnical, Sections: []Section{{
			Title: "Errors", Content: "Errors are values.\nWrap them with %w.", KeyPoints: []string{"wrap", "inspect"},
			CodeExample: &CodeExample{Language: "go", Code: "if err != nil {\n\treturn err\n}", Explanation: "return early"},
		}}},
		&[]Flashcard{{ID: 1, FrontHTML: "<b>Q</b>", BackHTML: "A, with \"quotes\""}},
		&TopicQuiz{NrOfQuestions: "1", Questions: []TopicQuestion{{
			Question: "Pick two", QuestionType: QuestionMultiple, Answers: []string{"a", "b", "c", "d"},
			CorrectAnswer: AnswerSet{"a", "b"}, Explanation: "both", Point: 10,
		}}},
		&ModuleQuiz{Questions: []ModuleQuestion{{Question: "Q", Options: []string{"1", "2", "3", "4"}, CorrectIndex: 2}}},
		&[]CareerPath{{PathName: "SRE", Difficulty: DifficultyAdvanced, RelevanceScore: 90, Modules: []CareerModule{{Title: "Linux", EstimatedHours: 6, KeySkills: []string{"bash"}}}}},
		&LearningPath{Type: PathCareer, Modules: []PathModule{{Title: "Intro", Content: "c:\\path"}}},
	}
	for _, v := range values {
		raw, err := json.Marshal(v)
		require.NoError(t, err)

		clean := sanitize.SanitizeJSON(string(raw))

		var want, got any
		require.NoError(t, json.Unmarshal(raw, &want))
		require.NoError(t, json.Unmarshal([]byte(clean), &got))
		assert.Equal(t, want, got)
	}
}
