package httpx

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/target/labelboard/internal/adapters/cookiestore"
	"github.com/target/labelboard/internal/apiclient"
	domainauth "github.com/target/labelboard/internal/domain/auth"
	"github.com/target/labelboard/internal/domain/model"
	"github.com/target/labelboard/internal/ports"
	"github.com/target/labelboard/internal/testutil"
)

const (
	testEmail    = "ann@example.com"
	testPassword = "secret1"
)

//nolint:gochecknoglobals // shared fixtures
var (
	testUser    = domainauth.User{ID: 1, Email: testEmail, Name: "Ann"}
	catWork     = model.Category{ID: 1, Name: "Work"}
	catHome     = model.Category{ID: 2, Name: "Home"}
	labelUrgent = model.Label{ID: 10, Name: "Urgent", Categories: []model.Category{catWork}}
)

// RequireTemplateRenderer loads the real templates from the repository.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromTest)})
	require.NoError(t, err)
	return tr
}

// browser drives the full router through a cookie jar, like a real user agent.
type browser struct {
	t       *testing.T
	backend *testutil.Backend
	server  *httptest.Server
	client  *http.Client
}

func newBrowser(t *testing.T) *browser {
	t.Helper()

	backend := testutil.NewBackend(t, testUser, testPassword)
	backend.SetCategories(catWork, catHome)
	backend.SetLabels(labelUrgent)
	return newBrowserFor(t, backend)
}

func newBrowserFor(t *testing.T, backend *testutil.Backend) *browser {
	t.Helper()

	root, err := apiclient.New(apiclient.Options{BaseURL: backend.URL()})
	require.NoError(t, err)

	router, err := NewRouter(RouterServices{
		Backend:    func(ts ports.TokenStore) ports.BackendAPI { return root.WithTokens(ts) },
		TemplateFS: os.DirFS(TemplatePathFromTest),
		StaticFS:   os.DirFS("../../frontend/static"),
	})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &browser{
		t:       t,
		backend: backend,
		server:  server,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req *http.Request, htmx bool) *http.Response {
	b.t.Helper()
	if htmx {
		req.Header.Set("Hx-Request", "true")
	}
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	b.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (b *browser) get(path string, htmx bool) *http.Response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.server.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req, htmx)
}

// postForm submits a form the way the rendered pages do, csrf field included.
func (b *browser) postForm(path string, values url.Values, htmx bool) *http.Response {
	b.t.Helper()
	if values == nil {
		values = url.Values{}
	}
	values.Set(DefaultCSRFCookieName, b.csrfToken())
	req, err := http.NewRequest(http.MethodPost, b.server.URL+path, strings.NewReader(values.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req, htmx)
}

// csrfToken fetches a page first when the jar has no token yet.
func (b *browser) csrfToken() string {
	b.t.Helper()
	if v := b.cookie(DefaultCSRFCookieName); v != "" {
		return v
	}
	b.get("/healthz", false)
	v := b.cookie(DefaultCSRFCookieName)
	require.NotEmpty(b.t, v, "csrf cookie")
	return v
}

func (b *browser) cookie(name string) string {
	u, err := url.Parse(b.server.URL)
	require.NoError(b.t, err)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (b *browser) setCookie(name, value string) {
	u, err := url.Parse(b.server.URL)
	require.NoError(b.t, err)
	b.client.Jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

func (b *browser) token() string { return b.cookie(cookiestore.DefaultName) }

// login signs in with the fixture credentials and checks the redirect.
func (b *browser) login() {
	b.t.Helper()
	resp := b.postForm(pathLogin, url.Values{"email": {testEmail}, "password": {testPassword}}, false)
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(b.t, b.backend.Token(), b.token())
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
