package handlers

import (
	"context"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
)

type sessionKey struct{}

// WithSession attaches the authenticated caller to ctx.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFrom returns the caller attached by WithSession, or nil.
func SessionFrom(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionKey{}).(*domain.Session)
	return session
}
