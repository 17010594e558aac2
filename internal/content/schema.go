package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema that raw model output must satisfy before it
// is decoded into a typed value.
type Schema struct {
	// Name identifies the schema in the compile cache, e.g. "module-content".
	Name string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// ParseError reports model output that is not valid JSON or does not
// conform to its schema.
type ParseError struct {
	Schema string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Schema, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// Decode parses raw as JSON, validates it against schema and decodes it
// into a value of type T. Failures are reported as *ParseError.
func Decode[T any](raw string, schema *Schema) (T, error) {
	var out T

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return out, &ParseError{Schema: schema.Name, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return out, &ParseError{Schema: schema.Name, Err: err}
	}
	if err := compiled.Validate(parsed); err != nil {
		return out, &ParseError{Schema: schema.Name, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, &ParseError{Schema: schema.Name, Err: fmt.Errorf("decode: %w", err)}
	}
	return out, nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a parsed JSON value, not Go maps with typed slices.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}

var stringArray = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// ModuleContentSchema is the shape of a module content reply.
var ModuleContentSchema = &Schema{
	Name: "module-content",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"type":  map[string]any{"type": "string"},
			"sections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":     map[string]any{"type": "string"},
						"content":   map[string]any{"type": "string"},
						"keyPoints": stringArray,
						"codeExample": map[string]any{
							"type": []any{"object", "null"},
							"properties": map[string]any{
								"language":    map[string]any{"type": "string"},
								"code":        map[string]any{"type": "string"},
								"explanation": map[string]any{"type": "string"},
							},
						},
					},
					"required": []any{"title", "content"},
				},
			},
		},
		"required": []any{"title", "sections"},
	},
}

// FlashcardsSchema is the shape of a flashcard reply.
var FlashcardsSchema = &Schema{
	Name: "flashcards",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":        map[string]any{"type": "integer"},
				"frontHTML": map[string]any{"type": "string"},
				"backHTML":  map[string]any{"type": "string"},
			},
			"required": []any{"frontHTML", "backHTML"},
		},
	},
}

var topicQuestionDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question":     map[string]any{"type": "string"},
		"questionType": map[string]any{"type": "string"},
		"answers":      stringArray,
		"correctAnswer": map[string]any{
			"anyOf": []any{
				map[string]any{"type": "string"},
				stringArray,
			},
		},
		"explanation": map[string]any{"type": "string"},
		"point":       map[string]any{"type": "integer"},
	},
	"required": []any{"question", "answers", "correctAnswer"},
}

// TopicQuestionsSchema is the shape of a topic quiz reply: a bare array of
// questions.
var TopicQuestionsSchema = &Schema{
	Name: "topic-questions",
	Definition: map[string]any{
		"type":  "array",
		"items": topicQuestionDef,
	},
}

// ModuleQuizSchema is the shape of a module quiz reply.
var ModuleQuizSchema = &Schema{
	Name: "module-quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":     map[string]any{"type": "string"},
						"options":      stringArray,
						"correctIndex": map[string]any{"type": "integer"},
						"explanation":  map[string]any{"type": "string"},
					},
					"required": []any{"question", "options", "correctIndex"},
				},
			},
		},
		"required": []any{"questions"},
	},
}

// TopicPathSchema is the shape of a topic-mode learning path reply.
var TopicPathSchema = &Schema{
	Name:       "topic-path",
	Definition: stringArray,
}

// CareerModulesSchema is the shape of a career-mode learning path reply.
var CareerModulesSchema = &Schema{
	Name: "career-modules",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":         map[string]any{"type": "string"},
				"description":   map[string]any{"type": "string"},
				"estimatedTime": map[string]any{"type": "string"},
				"content":       map[string]any{"type": "string"},
			},
			"required": []any{"title"},
		},
	},
}

// CareerPathsSchema is the shape of a career paths reply. Numeric fields
// accept any number; rounding and clamping happen after decoding.
var CareerPathsSchema = &Schema{
	Name: "career-paths",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pathName":                map[string]any{"type": "string"},
				"description":             map[string]any{"type": "string"},
				"difficulty":              map[string]any{"type": "string"},
				"estimatedTimeToComplete": map[string]any{"type": "string"},
				"relevanceScore":          map[string]any{"type": "number"},
				"modules": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"title":          map[string]any{"type": "string"},
							"description":    map[string]any{"type": "string"},
							"estimatedHours": map[string]any{"type": "number"},
							"keySkills":      stringArray,
						},
					},
				},
			},
			"required": []any{"pathName"},
		},
	},
}
