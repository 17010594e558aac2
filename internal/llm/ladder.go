package llm

import "context"

// Ladder is a Provider that tries the models of one family in order and
// returns the first successful reply. Every failure is recorded; when all
// models fail it returns *ErrLadderExhausted.
type Ladder struct {
	family string
	rungs  []Provider
}

// NewLadder creates a ladder over the given single-model providers. The
// first provider is the primary model.
func NewLadder(family string, rungs ...Provider) *Ladder {
	return &Ladder{family: family, rungs: rungs}
}

// Family returns the provider family name.
func (l *Ladder) Family() string {
	return l.family
}

// Models returns the model IDs in ladder order.
func (l *Ladder) Models() []string {
	ids := make([]string, len(l.rungs))
	for i, r := range l.rungs {
		ids[i] = r.ModelID()
	}
	return ids
}

func (l *Ladder) Generate(ctx context.Context, req Request) (*Response, error) {
	exhausted := &ErrLadderExhausted{Family: l.family}

	for _, rung := range l.order(PreferredModelFrom(ctx)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := rung.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		exhausted.Failures = append(exhausted.Failures, ModelFailure{Model: rung.ModelID(), Err: err})
	}

	return nil, exhausted
}

// ModelID returns the primary model of the ladder.
func (l *Ladder) ModelID() string {
	if len(l.rungs) == 0 {
		return ""
	}
	return l.rungs[0].ModelID()
}

// order returns the rungs with the preferred model moved to the front.
func (l *Ladder) order(preferred string) []Provider {
	if preferred == "" {
		return l.rungs
	}
	for i, r := range l.rungs {
		if r.ModelID() != preferred {
			continue
		}
		if i == 0 {
			return l.rungs
		}
		out := make([]Provider, 0, len(l.rungs))
		out = append(out, r)
		out = append(out, l.rungs[:i]...)
		return append(out, l.rungs[i+1:]...)
	}
	return l.rungs
}
