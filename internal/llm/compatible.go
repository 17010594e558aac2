package llm

// NewGroqProvider creates a provider for one Groq model. Groq serves an
// OpenAI-compatible API, so the OpenAI SDK is reused.
func NewGroqProvider(cfg FamilyConfig, model string) (*OpenAIProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	return NewOpenAIProvider(cfg.APIKey, baseURL, model)
}

// NewOpenRouterProvider creates a provider for one OpenRouter model.
func NewOpenRouterProvider(cfg FamilyConfig, model string) (*OpenAIProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return NewOpenAIProvider(cfg.APIKey, baseURL, model)
}
