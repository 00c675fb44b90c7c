package httpx

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler(cfg CSRFConfig) (http.Handler, *string) {
	var seen string
	h := CSRFProtection(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCSRFToken(r)
		_, _ = w.Write([]byte("success"))
	}))
	return h, &seen
}

func csrfCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	return nil
}

// issueToken performs a GET and returns the token the middleware minted.
func issueToken(t *testing.T, h http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	resp := w.Result()
	defer resp.Body.Close()
	c := csrfCookie(t, resp)
	require.NotNil(t, c, "CSRF cookie not set")
	return c.Value
}

func TestCSRFProtection_IssuesCookie(t *testing.T) {
	h, seen := csrfHandler(CSRFConfig{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	resp := w.Result()
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := csrfCookie(t, resp)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, c.Value, *seen, "token is exposed to handlers")
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, csrfCookieMaxAge, c.MaxAge)
}

func TestCSRFProtection_ExistingCookieIsReused(t *testing.T) {
	h, seen := csrfHandler(CSRFConfig{})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "existing"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Empty(t, w.Header().Values("Set-Cookie"))
	assert.Equal(t, "existing", *seen)
}

func TestCSRFProtection_SecureAttribute(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CSRFConfig
		prepare func(r *http.Request)
	}{
		{name: "configured", cfg: CSRFConfig{Secure: true}, prepare: func(*http.Request) {}},
		{name: "tls", prepare: func(r *http.Request) { r.TLS = &tls.ConnectionState{} }},
		{name: "forwarded proto", prepare: func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "http, HTTPS") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := csrfHandler(tt.cfg)
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(r)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			resp := w.Result()
			defer resp.Body.Close()
			c := csrfCookie(t, resp)
			require.NotNil(t, c)
			assert.True(t, c.Secure)
		})
	}
}

func TestCSRFProtection_Validation(t *testing.T) {
	h, _ := csrfHandler(CSRFConfig{CookieDomain: "example.com"})
	token := issueToken(t, h)

	formBody := func(v string) *strings.Reader {
		return strings.NewReader(url.Values{DefaultCSRFCookieName: {v}}.Encode())
	}

	tests := []struct {
		name  string
		build func() *http.Request
		want  int
	}{
		{
			name: "header token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", nil)
				r.Header.Set(DefaultCSRFHeaderName, token)
				return r
			},
			want: http.StatusOK,
		},
		{
			name: "form token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", formBody(token))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
			want: http.StatusOK,
		},
		{
			name: "header takes precedence over the form",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", formBody(token))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				r.Header.Set(DefaultCSRFHeaderName, "wrong")
				return r
			},
			want: http.StatusForbidden,
		},
		{
			name:  "missing token",
			build: func() *http.Request { return httptest.NewRequest(http.MethodPost, "/", nil) },
			want:  http.StatusForbidden,
		},
		{
			name: "mismatched token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodDelete, "/", nil)
				r.Header.Set(DefaultCSRFHeaderName, token+"x")
				return r
			},
			want: http.StatusForbidden,
		},
		{
			name: "form field ignored for json bodies",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", formBody(token))
				r.Header.Set("Content-Type", "application/json")
				return r
			},
			want: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.build()
			r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCSRFProtection_SafeMethodsExempt(t *testing.T) {
	h, _ := csrfHandler(CSRFConfig{})

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		t.Run(method, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(method, "/", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestCSRFProtection_CustomNames(t *testing.T) {
	h, _ := csrfHandler(CSRFConfig{CookieName: "xsrf", HeaderName: "X-Xsrf"})

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.AddCookie(&http.Cookie{Name: "xsrf", Value: "abc"})
	r.Header.Set("X-Xsrf", "abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
