package httpx

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"net/http"

	domainauth "github.com/target/labelboard/internal/domain/auth"
	"github.com/target/labelboard/internal/http/ui/viewmodel"
)

const (
	errMsgFixBelow  = "Please fix the errors below."
	errMsgTryAgain  = "An unexpected error occurred. Please try again."
	msgPageNotFound = "The page you are looking for does not exist."
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T        *TemplateRenderer
	Sessions *Sessions
	IsDev    bool // Development mode flag for enhanced error reporting
	Logger   *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}

	if session := GetSessionFromContext(r.Context()); session != nil && session.IsAuthenticated && session.User != nil {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{
			ID:          session.User.ID,
			Email:       session.User.Email,
			Name:        session.User.Name,
			DisplayName: session.User.DisplayName(),
		}
	}

	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
	}

	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}
	if layout.User != nil {
		data["User"] = layout.User
	}

	return data
}

// renderPage renders a page with HTMX partial support. Partial responses
// carry a <title> and an out-of-band header title so htmx keeps the chrome in sync.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)
	page, _ := data["CurrentPage"].(string)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(`<title>` + html.EscapeString(title) + `</title>` +
		`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + html.EscapeString(pageTitle) + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial page chrome", "error", err)
		return
	}

	if err := h.T.Render(w, ContentTemplateFor(page), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// renderFragment renders a single named template, typically an HTMX swap target.
func (h *UIHandlers) renderFragment(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := h.T.Render(w, name, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, name)
	}
}

// NotFound renders the 404 page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderErrorPage(w, r, http.StatusNotFound, msgPageNotFound)
}

func (h *UIHandlers) renderErrorPage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	data := NewTemplateData(r, PageMeta{Title: http.StatusText(status), PageTitle: http.StatusText(status)}).
		WithError(msg).
		With("StatusCode", status).
		Build()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("error page render failed", "error", err, "status", status)
	}
}

// authErrorMessage returns the message to show for a failed backend call.
// Non-auth errors get a generic message so internals never leak to the page.
func authErrorMessage(err error) string {
	var authErr *domainauth.AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return errMsgTryAgain
}

// isCanceled reports whether the request went away; handlers drop results then.
func isCanceled(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled)
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		if _, writeErr := w.Write([]byte(`<div class="template-error">` +
			`<h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
