package llm

import (
	"fmt"
	"strings"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned an empty or unusable reply.
type ErrInvalidResponse struct {
	Text string
	Err  error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Text string
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ModelFailure records one failed model attempt inside a ladder.
type ModelFailure struct {
	Model string
	Err   error
}

// ErrLadderExhausted indicates every model of a family failed. It unwraps to
// the last failure.
type ErrLadderExhausted struct {
	Family   string
	Failures []ModelFailure
}

func (e *ErrLadderExhausted) Error() string {
	if len(e.Failures) == 0 {
		return fmt.Sprintf("%s: no models configured", e.Family)
	}
	models := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		models[i] = f.Model
	}
	last := e.Failures[len(e.Failures)-1]
	return fmt.Sprintf("%s: all %d models failed (%s); last error from %s: %v",
		e.Family, len(e.Failures), strings.Join(models, ", "), last.Model, last.Err)
}

func (e *ErrLadderExhausted) Unwrap() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[len(e.Failures)-1].Err
}
