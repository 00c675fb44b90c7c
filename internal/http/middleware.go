package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/target/labelboard/internal/adapters/cookiestore"
	"github.com/target/labelboard/internal/guard"
	"github.com/target/labelboard/internal/observability/requestid"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", requestid.FromContext(r.Context())),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

const maxRequestIDLen = 128

// RequestID returns a middleware that accepts an incoming X-Request-Id (or
// mints one), echoes it on the response and stores it in the request context
// so outbound backend calls carry the same id.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(requestid.Header))
			if id == "" || len(id) > maxRequestIDLen {
				id = requestid.New()
			}
			w.Header().Set(requestid.Header, id)
			next.ServeHTTP(w, r.WithContext(requestid.WithID(r.Context(), id)))
		})
	}
}

// RouteGuard returns a middleware that applies guard.Decide to every
// navigation before it reaches a page handler. Only the presence of the
// token cookie is checked; the token itself is validated by the dashboard.
func RouteGuard(cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = cookiestore.DefaultName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !guard.Matches(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			d := guard.Decide(r.URL.Path, cookiestore.HasToken(r, cookieName))
			if d.Allow {
				next.ServeHTTP(w, r)
				return
			}
			redirect(w, r, d.RedirectTo)
		})
	}
}

// redirect sends the browser to target. HTMX requests get HX-Redirect so
// htmx performs a full navigation instead of swapping the response body.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
