package utils

import (
	"context"

	"github.com/EmpoweredVote/lego-catalog/internal/session"
)

type contextKey string

const ContextSessionKey contextKey = "session"

func WithSession(ctx context.Context, u *session.User) context.Context {
	return context.WithValue(ctx, ContextSessionKey, u)
}

// GetSessionFromContext returns the logged-in user, if any.
func GetSessionFromContext(ctx context.Context) (*session.User, bool) {
	u, ok := ctx.Value(ContextSessionKey).(*session.User)
	return u, ok && u != nil
}
