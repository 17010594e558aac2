package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLadder_FirstModelSucceeds(t *testing.T) {
	primary := NewNamedMockProvider("llama3-70b-8192", MockResponse{Text: "primary"})
	backup := NewNamedMockProvider("gemma2-9b-it", MockResponse{Text: "backup"})

	resp, err := NewLadder(FamilyGroq, primary, backup).Generate(context.Background(), UserPrompt("", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "primary", resp.Text)
	assert.Equal(t, 0, backup.CallCount())
}

func TestLadder_FallsThroughInOrder(t *testing.T) {
	a := NewNamedMockProvider("a", MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})
	b := NewNamedMockProvider("b", MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}})
	c := NewNamedMockProvider("c", MockResponse{Text: "from c"})

	resp, err := NewLadder(FamilyGroq, a, b, c).Generate(context.Background(), UserPrompt("", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "from c", resp.Text)
	assert.Equal(t, "c", resp.Model)
	assert.Equal(t, 1, a.CallCount())
	assert.Equal(t, 1, b.CallCount())
}

func TestLadder_Exhausted(t *testing.T) {
	a := NewNamedMockProvider("a", MockResponse{Err: errors.New("boom a")})
	b := NewNamedMockProvider("b", MockResponse{Err: errors.New("boom b")})

	_, err := NewLadder(FamilyGemini, a, b).Generate(context.Background(), UserPrompt("", "hi"))
	require.Error(t, err)

	var exhausted *ErrLadderExhausted
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, FamilyGemini, exhausted.Family)
	require.Len(t, exhausted.Failures, 2)
	assert.Equal(t, "a", exhausted.Failures[0].Model)
	assert.Equal(t, "b", exhausted.Failures[1].Model)
	assert.Contains(t, err.Error(), "boom b")
	assert.EqualError(t, errors.Unwrap(err), "boom b")
}

func TestLadder_Empty(t *testing.T) {
	_, err := NewLadder(FamilyGroq).Generate(context.Background(), Request{})
	var exhausted *ErrLadderExhausted
	require.ErrorAs(t, err, &exhausted)
	assert.True(t, strings.Contains(err.Error(), "no models configured"))
	assert.Equal(t, "", NewLadder(FamilyGroq).ModelID())
}

func TestLadder_PreferredModelFirst(t *testing.T) {
	a := NewNamedMockProvider("a", MockResponse{Text: "from a"})
	b := NewNamedMockProvider("b", MockResponse{Text: "from b"})
	c := NewNamedMockProvider("c", MockResponse{Text: "from c"})
	l := NewLadder(FamilyGroq, a, b, c)

	ctx := WithPreferredModel(context.Background(), "c")
	resp, err := l.Generate(ctx, UserPrompt("", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "from c", resp.Text)
	assert.Equal(t, 0, a.CallCount())

	// Order is per call; the ladder itself is unchanged.
	assert.Equal(t, []string{"a", "b", "c"}, l.Models())
}

func TestLadder_UnknownPreferredModelIgnored(t *testing.T) {
	a := NewNamedMockProvider("a", MockResponse{Text: "from a"})
	ctx := WithPreferredModel(context.Background(), "zzz")

	resp, err := NewLadder(FamilyGroq, a).Generate(ctx, UserPrompt("", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "from a", resp.Text)
}

func TestLadder_ContextCancelledAborts(t *testing.T) {
	a := NewNamedMockProvider("a", MockResponse{Text: "never"})
	b := NewNamedMockProvider("b", MockResponse{Text: "never"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLadder(FamilyGroq, a, b).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, a.CallCount()+b.CallCount())
}

func TestLadder_ModelIDIsPrimary(t *testing.T) {
	l := NewLadder(FamilyGemini, NewNamedMockProvider("gemini-1.5-flash"), NewNamedMockProvider("gemini-1.5-pro"))
	assert.Equal(t, "gemini-1.5-flash", l.ModelID())
	assert.Equal(t, FamilyGemini, l.Family())
}
