// Package topic classifies free-text learning topics so prompts can be
// shaped for technical or general subjects.
package topic

import (
	"slices"
	"strings"
	"unicode"
)

// Category names a group of technical keywords.
type Category string

const (
	CategoryProgramming Category = "programming"
	CategoryWeb         Category = "web"
	CategoryDatabase    Category = "database"
	CategorySoftware    Category = "software"
	CategoryTech        Category = "tech"
	CategoryGeneral     Category = "general"
)

// DefaultLanguage is suggested when no language keyword matches.
const DefaultLanguage = "javascript"

// Classification is the result of classifying a topic.
type Classification struct {
	IsTechnical       bool
	Category          Category
	SuggestedLanguage string
}

// ContentType returns the module content type label for this classification.
func (c Classification) ContentType() string {
	if c.IsTechnical {
		return "technical"
	}
	return "general"
}

type keywordGroup struct {
	category Category
	keywords []string
}

// Checked in order; the first matching group wins.
var categories = []keywordGroup{
	{CategoryProgramming, []string{"javascript", "python", "java", "coding", "programming", "typescript"}},
	{CategoryWeb, []string{"html", "css", "react", "angular", "vue", "frontend", "backend", "fullstack"}},
	{CategoryDatabase, []string{"sql", "database", "mongodb", "postgres"}},
	{CategorySoftware, []string{"api", "development", "software", "git", "devops", "algorithms"}},
	{CategoryTech, []string{"computer science", "data structures", "networking", "cloud"}},
}

type languageGroup struct {
	language string
	keywords []string
}

var languages = []languageGroup{
	{"javascript", []string{"javascript", "js", "node", "react", "vue", "angular"}},
	{"python", []string{"python", "django", "flask"}},
	{"java", []string{"java", "spring"}},
	{"html", []string{"html", "markup"}},
	{"css", []string{"css", "styling", "scss"}},
	{"sql", []string{"sql", "database", "mysql", "postgresql"}},
	{"typescript", []string{"typescript", "ts"}},
}

// Classify reports whether topic is technical, which keyword category it
// falls into and which programming language suits its code examples.
// Matching is a case-insensitive substring test and group order decides
// ties. Keywords of two letters or fewer ("js", "ts") must match a whole
// word so that "sports" is not read as TypeScript.
func Classify(topic string) Classification {
	t := strings.ToLower(topic)

	c := Classification{Category: CategoryGeneral, SuggestedLanguage: DefaultLanguage}
	for _, g := range categories {
		if containsAny(t, g.keywords) {
			c.IsTechnical = true
			c.Category = g.category
			break
		}
	}
	c.SuggestedLanguage = SuggestLanguage(topic)
	return c
}

// IsTechnical reports whether topic matches any technical keyword.
func IsTechnical(topic string) bool {
	return Classify(topic).IsTechnical
}

// SuggestLanguage picks a code example language for topic.
func SuggestLanguage(topic string) string {
	t := strings.ToLower(topic)
	for _, g := range languages {
		if containsAny(t, g.keywords) {
			return g.language
		}
	}
	return DefaultLanguage
}

func containsAny(s string, keywords []string) bool {
	var words []string
	for _, k := range keywords {
		if len(k) > 2 {
			if strings.Contains(s, k) {
				return true
			}
			continue
		}
		if words == nil {
			words = strings.FieldsFunc(s, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			})
		}
		if slices.Contains(words, k) {
			return true
		}
	}
	return false
}
