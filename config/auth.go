package config

import (
	"strings"
	"time"
)

const (
	defaultTokenCookie     = "auth_token"
	defaultSessionCacheTTL = time.Minute
)

// AuthConfig describes where the bearer token lives and how confirmed sessions are cached.
type AuthConfig struct {
	// TokenCookie is the name of the cookie holding the backend token.
	TokenCookie string `env:"AUTH_TOKEN_KEY" envDefault:"auth_token"`

	// SessionCache enables Redis snapshots of confirmed users.
	// Off by default so every check asks the backend.
	SessionCache bool `env:"SESSION_CACHE_ENABLED" envDefault:"false"`

	// SessionCacheTTL bounds how long a snapshot is trusted.
	SessionCacheTTL time.Duration `env:"SESSION_CACHE_TTL" envDefault:"1m"`
}

// Sanitize restores defaults for blank or non-positive values.
func (c *AuthConfig) Sanitize() {
	c.TokenCookie = strings.TrimSpace(c.TokenCookie)
	if c.TokenCookie == "" {
		c.TokenCookie = defaultTokenCookie
	}
	if c.SessionCacheTTL <= 0 {
		c.SessionCacheTTL = defaultSessionCacheTTL
	}
}
