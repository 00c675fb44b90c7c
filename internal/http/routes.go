package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	labelboard "github.com/target/labelboard"
	"github.com/target/labelboard/internal/adapters/cookiestore"
	"github.com/target/labelboard/internal/ports"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	// Backend binds the API client to one request's token store. Required.
	Backend BackendFactory
	// SessionCache is the optional user snapshot cache.
	SessionCache ports.SessionCache
	// Cookie configures the token cookie; its Domain is reused for the CSRF cookie.
	Cookie cookiestore.Options
	// TemplateFS and StaticFS override where templates and assets come from.
	// By default dev mode reads from disk and production from the embedded FS.
	TemplateFS fs.FS
	StaticFS   fs.FS
	IsDev      bool         // Development mode flag for hot reloading, etc.
	Logger     *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates the HTTP router with CSRF protection and the route guard applied.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Backend == nil {
		return nil, errors.New("router: Backend is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS := services.TemplateFS
	if templateFS == nil {
		var err error
		if templateFS, err = defaultTemplateFS(services.IsDev); err != nil {
			return nil, err
		}
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("router: templates: %w", err)
	}

	sessions := &Sessions{
		Backend: services.Backend,
		Cache:   services.SessionCache,
		Cookie:  services.Cookie,
		Logger:  logger,
	}
	ui := &UIHandlers{T: tr, Sessions: sessions, IsDev: services.IsDev, Logger: logger}
	auth := &AuthHandlers{Sessions: sessions, Logger: logger}

	mux := http.NewServeMux()
	registerUIRoutes(mux, ui)
	registerAuthRoutes(mux, auth)
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.Handle("GET /static/", staticHandler(services.StaticFS, services.IsDev))

	var h http.Handler = &notFoundHandler{mux: mux, ui: ui}
	h = RouteGuard(services.Cookie.Name)(h)
	h = CSRFProtection(CSRFConfig{CookieDomain: services.Cookie.Domain, Secure: services.Cookie.Secure})(h)
	return h, nil
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /{$}", h.Login)
	mux.HandleFunc("POST "+pathLogin, h.LoginSubmit)
	mux.HandleFunc("GET /dashboard", h.Dashboard)
	mux.HandleFunc("GET "+pathNewLabel, h.LabelNew)
	mux.HandleFunc("POST "+pathLabels, h.LabelCreate)
	mux.HandleFunc("POST "+pathLabels+"/{id}/delete", h.LabelDelete)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST "+pathLogout, h.Logout)
	mux.HandleFunc("GET "+pathAuthState, h.Status)
}

// defaultTemplateFS picks disk templates in dev mode (hot reload) and the
// embedded copy otherwise.
func defaultTemplateFS(isDev bool) (fs.FS, error) {
	if isDev {
		return os.DirFS(TemplatePathFromRoot), nil
	}
	sub, err := fs.Sub(labelboard.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return nil, fmt.Errorf("router: embedded templates: %w", err)
	}
	return sub, nil
}

// staticHandler serves /static/*. Dev mode reads from disk and disables caching.
func staticHandler(override fs.FS, isDev bool) http.Handler {
	var fsys http.FileSystem
	switch {
	case override != nil:
		fsys = http.FS(override)
	case isDev:
		fsys = http.Dir("frontend/static")
	default:
		sub, err := fs.Sub(labelboard.StaticFS, "frontend/static")
		if err != nil {
			slog.Error("static sub-filesystem unavailable, serving from disk", "error", err)
			fsys = http.Dir("frontend/static")
		} else {
			fsys = http.FS(sub)
		}
	}

	files := http.StripPrefix("/static/", http.FileServer(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		files.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and renders the 404 page for unknown routes.
type notFoundHandler struct {
	mux *http.ServeMux
	ui  *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)

	// Missing static files keep the file server's plain 404.
	if cw.status == http.StatusNotFound && !strings.HasPrefix(r.URL.Path, "/static/") && !cw.rendered() {
		h.ui.NotFound(w, r)
		return
	}
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

// rendered reports whether a handler already produced an HTML 404 page.
func (c *captureWriter) rendered() bool {
	return strings.HasPrefix(c.header.Get("Content-Type"), "text/html")
}

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	_, _ = w.Write(c.buf.Bytes())
}
