package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/target/labelboard/internal/guard"
)

// AuthHandlers provides HTTP handlers for session operations outside the page views.
type AuthHandlers struct {
	Sessions *Sessions
	Logger   *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Logout ends the backend session and purges the token cookie. POST /logout.
// A backend failure is logged; the local sign-out happens regardless.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	rs := h.Sessions.forRequest(w, r)
	if err := rs.svc.Logout(r.Context()); err != nil {
		h.logger().InfoContext(r.Context(), "signed out locally after backend error", slog.Any("error", err))
	}

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": guard.LoginPath,
		})
		return
	}
	redirect(w, r, guard.LoginPath)
}

type statusUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type statusResponse struct {
	Authenticated bool        `json:"authenticated"`
	State         string      `json:"state"`
	User          *statusUser `json:"user,omitempty"`
}

// Status confirms the token cookie with the backend and reports the session. GET /auth/status.
// A rejected token is purged exactly as on the dashboard.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	rs := h.Sessions.forRequest(w, r)
	if err := rs.svc.CheckAuth(r.Context()); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusRequestTimeout, ErrCode: "request_canceled", Err: err})
		return
	}

	sess := rs.svc.Session()
	resp := statusResponse{Authenticated: sess.IsAuthenticated, State: string(sess.State)}
	if sess.User != nil {
		resp.User = &statusUser{ID: sess.User.ID, Email: sess.User.Email, Name: sess.User.Name}
	}
	WriteJSON(w, http.StatusOK, resp)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") && !IsHTMX(r)
}
