// Package cookiestore keeps the backend bearer token in a browser cookie.
package cookiestore

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/target/labelboard/internal/ports"
)

// DefaultName is the cookie name used when none is configured.
const DefaultName = "auth_token"

// Options describe the token cookie attributes.
type Options struct {
	Name   string
	Domain string
	Secure bool
}

func (o Options) name() string {
	if o.Name == "" {
		return DefaultName
	}
	return o.Name
}

// Store is a per-request TokenStore: it reads the incoming cookie and
// writes changes to the response as Set-Cookie headers.
type Store struct {
	w    http.ResponseWriter
	opts Options

	mu    sync.Mutex
	token string
}

var _ ports.TokenStore = (*Store)(nil)

// New binds a store to one request/response pair.
func New(w http.ResponseWriter, r *http.Request, opts Options) *Store {
	s := &Store{w: w, opts: opts}
	if c, err := r.Cookie(opts.name()); err == nil {
		s.token = strings.TrimSpace(c.Value)
	}
	return s
}

// HasToken reports whether the request carries a non-empty token cookie.
func HasToken(r *http.Request, name string) bool {
	if name == "" {
		name = DefaultName
	}
	c, err := r.Cookie(name)
	return err == nil && strings.TrimSpace(c.Value) != ""
}

// Token returns the current token as seen by this request.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// SetToken stores the token and emits the cookie.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.write(&http.Cookie{
		Name:     s.opts.name(),
		Value:    token,
		Path:     "/",
		Domain:   s.opts.Domain,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearToken forgets the token and expires the cookie.
func (s *Store) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.write(&http.Cookie{
		Name:     s.opts.name(),
		Value:    "",
		Path:     "/",
		Domain:   s.opts.Domain,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}

// write replaces any Set-Cookie for our name already queued on this response,
// so the last change in a request is the only one the browser sees.
func (s *Store) write(c *http.Cookie) {
	h := s.w.Header()
	prefix := c.Name + "="
	var kept []string
	for _, v := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(v, prefix) {
			kept = append(kept, v)
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
	http.SetCookie(s.w, c)
}
