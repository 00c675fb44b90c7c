package httpx

import (
	"context"

	domainauth "github.com/target/labelboard/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session stored by SetSessionInContext, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok {
		return s
	}
	return nil
}

// IsAuthenticatedContext reports whether ctx carries a confirmed session.
func IsAuthenticatedContext(ctx context.Context) bool {
	s := GetSessionFromContext(ctx)
	return s != nil && s.IsAuthenticated && s.User != nil
}
