package contentgen

import (
	"time"

	"github.com/abhisek/pathwise/internal/llm"
)

// Kind names a generator. It doubles as the LLM purpose label and the
// metrics kind.
type Kind string

const (
	KindModuleContent Kind = "module_content"
	KindFlashcards    Kind = "flashcards"
	KindTopicQuiz     Kind = "topic_quiz"
	KindModuleQuiz    Kind = "module_quiz"
	KindLearningPath  Kind = "learning_path"
	KindCareerPaths   Kind = "career_paths"
	KindChat          Kind = "chat"
)

// Config holds content generation settings.
type Config struct {
	// MaxAttempts bounds the passes over the route for module content.
	MaxAttempts int
	RetryDelay  time.Duration

	MaxTokens       int
	Temperature     float64
	ChatTemperature float64

	// GroundingLimit caps, in characters, the module text sent along with
	// a topic quiz request.
	GroundingLimit int

	ModuleQuizSize int
	TopicPathSize  int

	// Career-mode learning paths carry between PathModuleMin and
	// PathModuleMax modules.
	PathModuleMin int
	PathModuleMax int

	CareerPathCount    int
	CareerModuleMin    int
	CareerModuleMax    int
	CareerModuleTarget int

	// MaxCount is the largest card or question count a caller may ask for.
	MaxCount int

	// CareerRetry wraps each family in career-mode learning path calls.
	CareerRetry llm.RetryConfig

	// Routes lists, per kind, the provider families to try in order.
	// Families that are not configured are skipped.
	Routes map[Kind][]string
}

// DefaultConfig returns sensible defaults for content generation.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:        3,
		RetryDelay:         1 * time.Second,
		MaxTokens:          4096,
		Temperature:        0.3,
		ChatTemperature:    0.7,
		GroundingLimit:     5000,
		ModuleQuizSize:     5,
		TopicPathSize:      5,
		PathModuleMin:      5,
		PathModuleMax:      7,
		CareerPathCount:    4,
		CareerModuleMin:    5,
		CareerModuleMax:    8,
		CareerModuleTarget: 6,
		MaxCount:           50,
		CareerRetry: llm.RetryConfig{
			MaxAttempts: 3,
			Delay:       1 * time.Second,
		},
		Routes: RoutesFor(llm.DefaultConfig().Families),
	}
}

// ConfigFor returns the defaults with routes built from the enabled
// families of lc and retry policy taken from lc.Retry. A zero Retry keeps
// the defaults.
func ConfigFor(lc llm.Config) Config {
	cfg := DefaultConfig()
	cfg.Routes = RoutesFor(lc.Families)
	if lc.Retry.MaxAttempts > 0 {
		cfg.MaxAttempts = lc.Retry.MaxAttempts
		cfg.CareerRetry.MaxAttempts = lc.Retry.MaxAttempts
		cfg.RetryDelay = lc.Retry.Delay
		cfg.CareerRetry.Delay = lc.Retry.Delay
	}
	return cfg
}

// RoutesFor builds the per-kind routes from families, which are in
// preference order. Module content tries the fast family (groq) first;
// every other kind keeps the given order but tries the fast family last.
func RoutesFor(families []string) map[Kind][]string {
	var fast bool
	rest := make([]string, 0, len(families))
	for _, name := range families {
		if name == llm.FamilyGroq {
			fast = true
			continue
		}
		rest = append(rest, name)
	}

	module := rest
	structured := rest
	if fast {
		module = append([]string{llm.FamilyGroq}, rest...)
		structured = append(append([]string(nil), rest...), llm.FamilyGroq)
	}

	routes := make(map[Kind][]string, 7)
	routes[KindModuleContent] = module
	for _, k := range []Kind{KindFlashcards, KindTopicQuiz, KindModuleQuiz, KindLearningPath, KindCareerPaths, KindChat} {
		routes[k] = structured
	}
	return routes
}
