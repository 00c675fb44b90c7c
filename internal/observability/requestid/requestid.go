// Package requestid carries a per-request correlation id through contexts.
package requestid

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Header is the HTTP header used to propagate the id.
const Header = "X-Request-Id"

type ctxKey struct{}

// New returns a fresh random id.
func New() string { return uuid.NewString() }

// WithID returns a child context carrying id. Blank ids leave ctx unchanged.
func WithID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the id stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
