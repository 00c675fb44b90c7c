package httpx

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/labelboard/internal/domain/model"
)

func TestTemplateRenderer_LoadTemplates(t *testing.T) {
	tr := RequireTemplateRenderer(t)

	for _, name := range []string{
		"layout", "content", "error-layout",
		"login-content", "login-form", "dashboard-content",
		"flash", "label-dialog",
	} {
		assert.NotNil(t, tr.t.Lookup(name), "template %s should be loaded", name)
	}
}

func TestTemplateRenderer_RequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	assert.Error(t, err)
}

func TestTemplateRenderer_EmbeddedMatchesDisk(t *testing.T) {
	embedded, err := defaultTemplateFS(false)
	require.NoError(t, err)
	_, err = NewTemplateRenderer(TemplateRendererConfig{TemplateFS: embedded})
	require.NoError(t, err)

	disk, err := os.ReadFile(TemplatePathFromTest + "/layout.tmpl")
	require.NoError(t, err)
	fromEmbed, err := fs.ReadFile(embedded, "layout.tmpl")
	require.NoError(t, err)
	assert.Equal(t, string(disk), string(fromEmbed))
}

func TestTemplateRenderer_RenderFailureWritesNothing(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.tmpl":         {Data: []byte(`{{define "layout"}}start {{.Missing.Field}}{{end}}`)},
		"pages/empty.tmpl":    {Data: []byte(`{{define "empty-content"}}{{end}}`)},
		"partials/empty.tmpl": {Data: []byte(`{{define "empty"}}{{end}}`)},
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = tr.RenderFull(rec, httptest.NewRequest(http.MethodGet, "/", nil), map[string]any{"Missing": 1})
	require.Error(t, err)
	assert.Empty(t, rec.Body.String())
}

func TestTemplateRenderer_Layout(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	data := NewTemplateData(r, loginMeta).With("CSRFToken", "tok123").With("FormData", loginForm{}).Build()
	require.NoError(t, tr.RenderFull(rec, r, data))

	html := rec.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, html, "<title>Sign in")
	assert.Contains(t, html, `id="header-title"`)
	assert.Contains(t, html, "Selamat Datang!")
	assert.Contains(t, html, "X-Csrf-Token")
	assert.Contains(t, html, "tok123")
	assert.Contains(t, html, `id="login-form"`)
}

func TestTemplateRenderer_LabelDialog(t *testing.T) {
	tr := RequireTemplateRenderer(t)

	dialog := labelDialog{
		Categories: []model.Category{{ID: 1, Name: "Work"}, {ID: 2, Name: "<Home>"}},
		Form:       labelForm{Name: "Groceries", CategoryID: 2},
		Errors:     map[string]string{"name": "Name is required"},
		Error:      "Failed to create label",
	}
	rec := httptest.NewRecorder()
	require.NoError(t, tr.Render(rec, "label-dialog", map[string]any{"Dialog": dialog, "CSRFToken": "tok"}))

	html := rec.Body.String()
	assert.Contains(t, html, `value="Groceries"`)
	assert.Contains(t, html, `<option value="2" selected>&lt;Home&gt;</option>`)
	assert.Contains(t, html, "Name is required")
	assert.Contains(t, html, "Failed to create label")
	assert.Contains(t, html, `value="tok"`)
	assert.Equal(t, 1, strings.Count(html, " selected"))
}

func TestTemplateRenderer_Funcs(t *testing.T) {
	funcs := templateFuncs(nil)

	fieldError, ok := funcs["fieldError"].(func(map[string]string, string) string)
	require.True(t, ok)
	assert.Equal(t, "bad", fieldError(map[string]string{"name": "bad"}, "name"))
	assert.Empty(t, fieldError(nil, "name"))

	initial, ok := funcs["initial"].(func(string) string)
	require.True(t, ok)
	assert.Equal(t, "A", initial("ann"))
	assert.Equal(t, "?", initial("  "))
}
