package workflow

import (
	"context"
	"errors"
	"strings"
)

// ErrNoUser is returned when no current user can be resolved.
var ErrNoUser = errors.New("no current user")

// User identifies the learner a workflow acts for.
type User struct {
	ID   string
	Name string
}

// Identity resolves the current user.
type Identity interface {
	CurrentUser(ctx context.Context) (User, error)
}

// StaticIdentity always resolves to the same user.
type StaticIdentity User

func (s StaticIdentity) CurrentUser(context.Context) (User, error) {
	if strings.TrimSpace(s.ID) == "" {
		return User{}, ErrNoUser
	}
	return User(s), nil
}

type userKey struct{}

// WithUser attaches u to ctx for ContextIdentity.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// ContextIdentity resolves the user attached with WithUser. The HTTP server
// attaches one per request.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUser(ctx context.Context) (User, error) {
	u, ok := ctx.Value(userKey{}).(User)
	if !ok || strings.TrimSpace(u.ID) == "" {
		return User{}, ErrNoUser
	}
	return u, nil
}
