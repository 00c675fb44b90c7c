package httpx

import (
	"context"
	"errors"
	"net/http"
)

// FormParser parses form data from an HTTP request and returns the parsed data
// along with any field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormSubmitter performs the action behind a valid form.
type FormSubmitter[T any] func(ctx context.Context, data T) error

// FormRenderer is a function that renders the form template with the given data.
type FormRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// ErrorHandler maps a submit error to field errors and a general message.
// Return nil and "" to fall through to the default handling.
type ErrorHandler func(err error) (fieldErrors map[string]string, generalError string)

// FormHandlerOpts contains all options needed to handle a form submission.
type FormHandlerOpts[T any] struct {
	W        http.ResponseWriter
	R        *http.Request
	Parser   FormParser[T]
	Submit   FormSubmitter[T]
	Renderer FormRenderer
	// SuccessURL is where the browser goes after a successful submit.
	SuccessURL string
	// OnSuccess replaces the redirect to SuccessURL when set.
	OnSuccess func(w http.ResponseWriter, r *http.Request, data T)
	PageMeta  PageMeta
	// Optional: additional data to pass to template on error
	ExtraData map[string]any
	// Optional: custom error handler for domain-specific errors
	HandleError ErrorHandler
	// Optional: HTTP status code to set on validation errors (defaults to 200 for HTMX compatibility)
	ErrorStatus int
}

// HandleForm runs the parse, validate, submit, redirect cycle shared by every form.
// Field errors short-circuit before Submit is called.
//
// Usage example:
//
//	HandleForm(FormHandlerOpts[loginForm]{
//	    W: w, R: r,
//	    Parser:     parseLoginForm,
//	    Submit:     func(ctx context.Context, f loginForm) error { return svc.Login(ctx, f.credentials()) },
//	    Renderer:   h.renderLoginForm,
//	    SuccessURL: "/dashboard",
//	    PageMeta:   loginMeta,
//	})
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Parser == nil || opts.Submit == nil || opts.Renderer == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}

	data, fieldErrors := opts.Parser(opts.R)
	if len(fieldErrors) > 0 {
		opts.renderFormError(fieldErrors, "", data)
		return
	}

	if err := opts.Submit(opts.R.Context(), data); err != nil {
		handleFormSubmitError(opts, err, data)
		return
	}

	if opts.OnSuccess != nil {
		opts.OnSuccess(opts.W, opts.R, data)
		return
	}
	redirect(opts.W, opts.R, opts.SuccessURL)
}

// handleFormSubmitError handles errors returned by Submit.
func handleFormSubmitError[T any](opts FormHandlerOpts[T], err error, data T) {
	// The browser is gone; nothing useful can be rendered.
	if isCanceled(opts.R.Context(), err) {
		http.Error(opts.W, "request canceled", http.StatusRequestTimeout)
		return
	}

	if opts.HandleError != nil {
		fieldErrors, generalError := opts.HandleError(err)
		if fieldErrors != nil || generalError != "" {
			opts.renderFormError(fieldErrors, generalError, data)
			return
		}
	}

	opts.renderFormError(nil, authErrorMessage(err), data)
}

// renderFormError renders the form with errors and preserves form data.
func (fh FormHandlerOpts[T]) renderFormError(fieldErrors map[string]string, generalError string, data T) {
	if fh.ErrorStatus != 0 && len(fieldErrors) > 0 {
		fh.W.WriteHeader(fh.ErrorStatus)
	}

	templateData := NewTemplateData(fh.R, fh.PageMeta).WithFieldErrors(fieldErrors)

	if generalError != "" {
		templateData.WithError(generalError)
	} else if len(fieldErrors) > 0 {
		templateData.WithError(errMsgFixBelow)
	}

	for k, v := range fh.ExtraData {
		templateData.With(k, v)
	}
	templateData.With("FormData", data)

	fh.Renderer(fh.W, fh.R, templateData.Build())
}

// errIsUnauthorized reports whether err is a backend 401.
func errIsUnauthorized(err error) bool {
	var authErr interface{ IsUnauthorized() bool }
	return errors.As(err, &authErr) && authErr.IsUnauthorized()
}
