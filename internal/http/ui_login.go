package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/target/labelboard/internal/domain/auth"
	"github.com/target/labelboard/internal/guard"
	"github.com/target/labelboard/internal/http/validation"
)

const (
	// welcomeParam marks the first dashboard view after signing in.
	welcomeParam = "welcome"
	msgSignedIn  = "Login berhasil!"
)

//nolint:gochecknoglobals // static page metadata
var loginMeta = PageMeta{Title: "Sign in", PageTitle: "Selamat Datang!", CurrentPage: PageLogin}

// loginForm is the posted sign-in form.
type loginForm struct {
	Email    string `form:"email"    validate:"required,looseemail"`
	Password string `form:"password" validate:"required,min=6"`
}

//nolint:gochecknoglobals // static message table
var loginMessages = validation.Messages{
	"email.required":    "Email is required",
	"email.looseemail":  "Email is invalid",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
}

func (f loginForm) credentials() domainauth.Credentials {
	return domainauth.Credentials{Email: f.Email, Password: f.Password}
}

// parseLoginForm keeps the raw values: the email is not trimmed, so a blank
// entry fails the shape check rather than the required check.
func parseLoginForm(r *http.Request) (loginForm, map[string]string) {
	f := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	return f, validation.Struct(f, loginMessages)
}

// Login renders the sign-in page. GET /.
// The route guard already sent token holders to the dashboard.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, loginMeta).
		With("FormData", loginForm{}).
		Build()
	h.renderPage(w, r, data)
}

// LoginSubmit validates the form and exchanges the credentials for a token. POST /login.
// Field errors never reach the backend; backend rejections are shown verbatim.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	rs := h.Sessions.forRequest(w, r)

	HandleForm(FormHandlerOpts[loginForm]{
		W:      w,
		R:      r,
		Parser: parseLoginForm,
		Submit: func(ctx context.Context, f loginForm) error {
			return rs.svc.Login(ctx, f.credentials())
		},
		Renderer:   h.renderLoginForm,
		SuccessURL: guard.DashboardPath + "?" + welcomeParam + "=1",
		PageMeta:   loginMeta,
		HandleError: func(err error) (map[string]string, string) {
			if sessErr := rs.svc.Session().Error; sessErr != nil {
				h.logger().InfoContext(r.Context(), "login rejected",
					slog.Int("status", sessErr.Status),
					slog.String("kind", string(sessErr.Kind)),
				)
				return nil, sessErr.Message
			}
			return nil, ""
		},
	})
}

// renderLoginForm re-renders only the form for htmx, otherwise the whole page.
// The password is never echoed back.
func (h *UIHandlers) renderLoginForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if f, ok := data["FormData"].(loginForm); ok {
		f.Password = ""
		data["FormData"] = f
	}
	if WantsPartial(r) {
		h.renderFragment(w, r, "login-form", data)
		return
	}
	h.renderPage(w, r, data)
}
