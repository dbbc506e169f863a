package session

import (
	"context"

	"github.com/oneexim/portal/internal/models"
)

type ctxKey int

const sessionKey ctxKey = iota

// WithSession attaches a resolved session to the request context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the session placed by the guard.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}

// UserFromContext returns the authenticated identity, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	s, ok := FromContext(ctx)
	if !ok || s.User == nil {
		return models.User{}, false
	}
	return *s.User, true
}

// TokenFromContext returns the bearer token for downstream backend calls,
// or "" outside a guarded route.
func TokenFromContext(ctx context.Context) string {
	s, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return s.Token
}
