package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider family names.
const (
	FamilyGroq       = "groq"
	FamilyGemini     = "gemini"
	FamilyAnthropic  = "anthropic"
	FamilyOpenAI     = "openai"
	FamilyOpenRouter = "openrouter"
	FamilyMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Families lists the enabled provider families in preference order.
	// Values: "groq", "gemini", "anthropic", "openai", "openrouter", "mock"
	Families []string

	Groq       FamilyConfig
	Gemini     FamilyConfig
	Anthropic  FamilyConfig
	OpenAI     FamilyConfig
	OpenRouter FamilyConfig

	// Retry bounds module content passes and career path retries.
	Retry RetryConfig

	// RatePerMinute caps requests per family. Zero disables throttling.
	RatePerMinute int

	// Timeout is the maximum duration for a single generation, including
	// fallbacks. Default: 2m.
	Timeout time.Duration
}

// FamilyConfig configures one provider family: a credential and the
// ordered ladder of models to try.
type FamilyConfig struct {
	APIKey  string
	Models  []string
	BaseURL string // Optional. OpenAI-compatible families only.
}

// RetryConfig configures bounded retries with a fixed delay between
// attempts.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Families: []string{FamilyGroq, FamilyGemini},
		Groq: FamilyConfig{
			Models:  []string{"llama3-70b-8192", "llama-3.1-8b-instant", "mixtral-8x7b-32768", "gemma2-9b-it"},
			BaseURL: defaultGroqBaseURL,
		},
		Gemini: FamilyConfig{
			Models: []string{"gemini-1.5-flash", "gemini-1.5-pro"},
		},
		Anthropic: FamilyConfig{
			Models: []string{"claude-haiku", "claude-sonnet"},
		},
		OpenAI: FamilyConfig{
			Models: []string{"gpt-4o-mini", "gpt-4o"},
		},
		OpenRouter: FamilyConfig{
			Models:  []string{"meta-llama/llama-3.1-70b-instruct", "google/gemini-2.0-flash-exp"},
			BaseURL: defaultOpenRouterBaseURL,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			Delay:       1 * time.Second,
		},
		RatePerMinute: 30,
		Timeout:       2 * time.Minute,
	}
}

// Family returns the configuration of the named family.
func (c Config) Family(name string) (FamilyConfig, bool) {
	switch name {
	case FamilyGroq:
		return c.Groq, true
	case FamilyGemini:
		return c.Gemini, true
	case FamilyAnthropic:
		return c.Anthropic, true
	case FamilyOpenAI:
		return c.OpenAI, true
	case FamilyOpenRouter:
		return c.OpenRouter, true
	case FamilyMock:
		return FamilyConfig{Models: []string{"mock"}}, true
	}
	return FamilyConfig{}, false
}

func (c *Config) family(name string) *FamilyConfig {
	switch name {
	case FamilyGroq:
		return &c.Groq
	case FamilyGemini:
		return &c.Gemini
	case FamilyAnthropic:
		return &c.Anthropic
	case FamilyOpenAI:
		return &c.OpenAI
	case FamilyOpenRouter:
		return &c.OpenRouter
	}
	return nil
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. Per-family variables are
// PATHWISE_<FAMILY>_API_KEY, PATHWISE_<FAMILY>_MODELS (comma separated)
// and PATHWISE_<FAMILY>_BASE_URL.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if f := os.Getenv("PATHWISE_LLM_FAMILIES"); f != "" {
		cfg.Families = splitList(f)
	}

	for _, name := range []string{FamilyGroq, FamilyGemini, FamilyAnthropic, FamilyOpenAI, FamilyOpenRouter} {
		fc := cfg.family(name)
		prefix := "PATHWISE_" + strings.ToUpper(name) + "_"
		if k := os.Getenv(prefix + "API_KEY"); k != "" {
			fc.APIKey = k
		}
		if m := os.Getenv(prefix + "MODELS"); m != "" {
			fc.Models = splitList(m)
		}
		if u := os.Getenv(prefix + "BASE_URL"); u != "" {
			fc.BaseURL = u
		}
	}

	// Standard vendor variables fill in missing keys.
	for name, env := range map[string]string{
		FamilyGroq:       "GROQ_API_KEY",
		FamilyGemini:     "GEMINI_API_KEY",
		FamilyAnthropic:  "ANTHROPIC_API_KEY",
		FamilyOpenAI:     "OPENAI_API_KEY",
		FamilyOpenRouter: "OPENROUTER_API_KEY",
	} {
		if fc := cfg.family(name); fc.APIKey == "" {
			fc.APIKey = os.Getenv(env)
		}
	}

	if v := os.Getenv("PATHWISE_LLM_RATE_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RatePerMinute = n
		}
	}
	if v := os.Getenv("PATHWISE_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("PATHWISE_LLM_RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		}
	}
	if v := os.Getenv("PATHWISE_LLM_RETRY_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.Retry.Delay = d
		}
	}

	return cfg
}

// Validate checks that at least one family is enabled and that every
// enabled family is known, has an API key and has at least one model.
func (c Config) Validate() error {
	if len(c.Families) == 0 {
		return fmt.Errorf("no LLM provider families enabled (set PATHWISE_LLM_FAMILIES)")
	}
	seen := map[string]bool{}
	for _, name := range c.Families {
		if seen[name] {
			return fmt.Errorf("LLM provider family %q listed twice", name)
		}
		seen[name] = true

		fc, ok := c.Family(name)
		if !ok {
			return fmt.Errorf("unknown LLM provider family: %q", name)
		}
		if name == FamilyMock {
			continue
		}
		if fc.APIKey == "" {
			return fmt.Errorf("PATHWISE_%s_API_KEY is required for the %s provider family", strings.ToUpper(name), name)
		}
		if len(fc.Models) == 0 {
			return fmt.Errorf("PATHWISE_%s_MODELS must list at least one model", strings.ToUpper(name))
		}
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
