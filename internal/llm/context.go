package llm

import "context"

type contextKey string

const (
	purposeKey        contextKey = "llm_purpose"
	preferredModelKey contextKey = "llm_preferred_model"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithPreferredModel asks ladders to try the given model first for calls
// made with the returned context. Ladders that do not carry the model
// ignore it.
func WithPreferredModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, preferredModelKey, model)
}

// PreferredModelFrom returns the preferred model attached to ctx, if any.
func PreferredModelFrom(ctx context.Context) string {
	v, _ := ctx.Value(preferredModelKey).(string)
	return v
}
