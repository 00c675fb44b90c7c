package config

import (
	"strings"
	"time"
)

const (
	defaultAPIURL     = "http://localhost:8000/api"
	defaultAPITimeout = 15 * time.Second
)

// APIConfig points the client at the labels REST backend.
type APIConfig struct {
	// URL is the backend base, including any path prefix such as /api.
	URL string `env:"API_URL" envDefault:"http://localhost:8000/api"`

	// Timeout bounds each backend call.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}

// Sanitize trims the URL and restores defaults for unusable values.
func (c *APIConfig) Sanitize() {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if c.URL == "" {
		c.URL = defaultAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultAPITimeout
	}
}
