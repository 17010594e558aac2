package contentgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/topic"
)

const jsonOnly = "Respond with JSON only. No markdown fences, no commentary before or after the JSON."

const moduleContentSystemPrompt = `You are an expert instructor writing self-study material for an online learning platform. You write accurate, well structured explanations for adult learners. ` + jsonOnly

func buildModuleContentMessage(subject string, c topic.Classification, sections int, detailed bool) string {
	var b strings.Builder

	level := "Basic"
	if detailed {
		level = "Advanced"
	}
	label := "General"
	if c.IsTechnical {
		label = "Technical/Programming"
	}

	fmt.Fprintf(&b, "Create educational content for: %q\n", subject)
	fmt.Fprintf(&b, "Type: %s\n", label)
	fmt.Fprintf(&b, "Level: %s\n", level)
	fmt.Fprintf(&b, "Sections: exactly %d\n", sections)

	if c.IsTechnical {
		fmt.Fprintf(&b, `
Every section must include:
- A working %s code example with an explanation
- Best practices and common patterns
- Error handling where relevant
`, c.SuggestedLanguage)
	}

	codeExample := `null`
	if c.IsTechnical {
		codeExample = fmt.Sprintf(`{"language": %q, "code": "function example() {\n  // implementation\n}", "explanation": "How the code works"}`, c.SuggestedLanguage)
	}

	fmt.Fprintf(&b, `
Each section's content must be at least three full sentences.

Return a JSON object with this structure:
{
  "title": %q,
  "type": %q,
  "sections": [
    {
      "title": "Section title",
      "content": "Detailed explanation",
      "keyPoints": ["Key point 1", "Key point 2"],
      "codeExample": %s
    }
  ]
}`, subject, c.ContentType(), codeExample)

	return b.String()
}

const structuredSystemPrompt = `You are a curriculum designer for an online learning platform. ` + jsonOnly

func buildFlashcardsMessage(subject string, n int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d educational flashcards on %q with increasing difficulty.\n", n, subject)
	fmt.Fprintf(&b, `
Requirements:
- The front side (question) must be short and clear.
- The back side (answer) must be a detailed explanation of 3-4 sentences.
- Difficulty increases from card 1 to card %d: start with basic concepts, move to intermediate details and end with advanced questions.
- Return exactly %d cards.

Return a JSON array:
[
  {"id": 1, "frontHTML": "Basic question?", "backHTML": "Detailed explanation."},
  {"id": %d, "frontHTML": "Advanced question?", "backHTML": "Detailed explanation."}
]`, n, n, n)

	return b.String()
}

func buildTopicQuizMessage(subject string, n int, grounding string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a quiz on %q with exactly %d questions.\n", subject, n)
	if grounding != "" {
		b.WriteString("\nBase the questions on this module material:\n")
		b.WriteString(grounding)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `
Requirements:
- Mix single-choice and multiple-choice questions.
- Give every question exactly 4 answer options.
- correctAnswer is one option string for single-choice questions and an array of option strings for multiple-choice questions.
- Give a short explanation for the correct answer.
- Each question is worth %d points.

Return a JSON array:
[
  {
    "question": "Example question?",
    "questionType": "single",
    "answers": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": "Option A",
    "explanation": "Short explanation.",
    "point": %d
  },
  {
    "question": "Another example?",
    "questionType": "multiple",
    "answers": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": ["Option B", "Option C"],
    "explanation": "Short explanation.",
    "point": %d
  }
]`, content.DefaultPoints, content.DefaultPoints, content.DefaultPoints)

	return b.String()
}

func buildModuleQuizMessage(moduleName string, n int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a %d-question quiz for the module %q.\n", n, moduleName)
	b.WriteString(`
Requirements:
- Each question tests understanding of the module's concepts.
- Mix difficulty levels from basic to advanced.
- Give every question exactly 4 options.
- correctIndex is the 0-based index of the correct option.

Return a JSON object:
{
  "questions": [
    {
      "question": "Question text?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctIndex": 0,
      "explanation": "Why this option is correct"
    }
  ]
}`)

	return b.String()
}

func buildTopicPathMessage(goal string, n int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a learning path for: %q\n", goal)
	fmt.Fprintf(&b, `
Requirements:
- Exactly %d progressive modules, each building on the previous one.
- Focus on practical, hands-on learning with both theory and practice.

Return a JSON array of exactly %d strings:
[`, n, n)
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, `"Module %d: Clear Title"`, i)
	}
	b.WriteString("]")

	return b.String()
}

func buildCareerPathMessage(goal string, min, max int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a structured learning path for someone who wants to learn about %q.\n", goal)
	fmt.Fprintf(&b, "Design between %d and %d modules that build from the basics to advanced concepts.\n", min, max)
	b.WriteString(`
Return a JSON array:
[
  {
    "title": "Module title",
    "description": "What the module covers",
    "estimatedTime": "2-3 hours",
    "content": "Overview of the key points to learn"
  }
]`)

	return b.String()
}

func buildCareerPathsMessage(p content.Profile, count, min, max int) string {
	var b strings.Builder

	b.WriteString("Learner profile:\n")
	if p.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", p.Name)
	}
	if p.Age > 0 {
		fmt.Fprintf(&b, "Age: %d\n", p.Age)
	}
	fmt.Fprintf(&b, "Career goal: %s\n", orNone(p.Goal))
	fmt.Fprintf(&b, "Current skills: %s\n", orNone(strings.Join(p.Skills, ", ")))
	fmt.Fprintf(&b, "Interests: %s\n", orNone(strings.Join(p.Interests, ", ")))

	fmt.Fprintf(&b, `
Suggest exactly %d personalized career paths for this learner.

Requirements:
- Each path has between %d and %d modules.
- difficulty is one of "beginner", "intermediate" or "advanced".
- relevanceScore is an integer from 0 to 100 describing how well the path fits the profile.

Return a JSON array:
[
  {
    "pathName": "Path name",
    "description": "Why this path fits the learner",
    "difficulty": "intermediate",
    "estimatedTimeToComplete": "6 months",
    "relevanceScore": 90,
    "modules": [
      {"title": "Module title", "description": "What it covers", "estimatedHours": 6, "keySkills": ["skill"]}
    ]
  }
]`, count, min, max)

	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}

func buildChatMessage(message string, c content.ChatContext) string {
	var b strings.Builder

	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "Topic: %s\n", c.Topic)
	fmt.Fprintf(&b, "Level: %s\n", c.Level)
	fmt.Fprintf(&b, "Focus: %s\n", c.Focus)
	fmt.Fprintf(&b, "\nBe concise and helpful. Answer the following: %s", message)

	return b.String()
}
