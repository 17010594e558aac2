package llm

// ModelCost holds per-million-token pricing for a model.
// Prices are in USD per 1 million tokens, sourced from models.dev.
type ModelCost struct {
	InputPerMTok  float64 // USD per 1M input tokens
	OutputPerMTok float64 // USD per 1M output tokens
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the models the default ladders and the friendly names
// resolve to.
var modelCosts = map[string]ModelCost{
	// Groq
	"llama3-70b-8192":         {0.59, 0.79},
	"llama3-8b-8192":          {0.05, 0.08},
	"llama-3.1-8b-instant":    {0.05, 0.08},
	"llama-3.3-70b-versatile": {0.59, 0.79},
	"mixtral-8x7b-32768":      {0.24, 0.24},
	"gemma2-9b-it":            {0.2, 0.2},

	// Google (Gemini)
	"gemini-1.5-flash":    {0.075, 0.3},
	"gemini-1.5-flash-8b": {0.0375, 0.15},
	"gemini-1.5-pro":      {1.25, 5},
	"gemini-2.0-flash":    {0.1, 0.4},
	"gemini-2.5-flash":    {0.3, 2.5},
	"gemini-2.5-pro":      {1.25, 10},

	// Anthropic
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},

	// OpenAI
	"gpt-4o":      {2.5, 10},
	"gpt-4o-mini": {0.15, 0.6},
}
