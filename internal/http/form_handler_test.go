package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/labelboard/internal/domain/auth"
)

type testFormData struct {
	Name string
}

//nolint:gochecknoglobals // shared fixture
var testMeta = PageMeta{Title: "Test", PageTitle: "Test", CurrentPage: "test"}

func staticParser(data testFormData, errs map[string]string) FormParser[testFormData] {
	return func(*http.Request) (testFormData, map[string]string) {
		return data, errs
	}
}

// capture records the data handed to the renderer.
type capture struct {
	data  map[string]any
	calls int
}

func (c *capture) render(w http.ResponseWriter, _ *http.Request, data map[string]any) {
	c.calls++
	c.data = data
	_, _ = w.Write([]byte("form rendered"))
}

func runForm(t *testing.T, r *http.Request, opts FormHandlerOpts[testFormData]) (*httptest.ResponseRecorder, *capture) {
	t.Helper()
	w := httptest.NewRecorder()
	c := &capture{}
	opts.W, opts.R = w, r
	if opts.Renderer == nil {
		opts.Renderer = c.render
	}
	if opts.PageMeta == (PageMeta{}) {
		opts.PageMeta = testMeta
	}
	HandleForm(opts)
	return w, c
}

func TestHandleForm_Success(t *testing.T) {
	t.Parallel()

	var submitted testFormData
	w, c := runForm(t, httptest.NewRequest(http.MethodPost, "/test", nil), FormHandlerOpts[testFormData]{
		Parser: staticParser(testFormData{Name: "work"}, nil),
		Submit: func(_ context.Context, f testFormData) error {
			submitted = f
			return nil
		},
		SuccessURL: "/success",
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/success", w.Header().Get("Location"))
	assert.Equal(t, "work", submitted.Name)
	assert.Zero(t, c.calls)
}

func TestHandleForm_SuccessHTMX(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/test", nil)
	r.Header.Set("Hx-Request", "true")
	w, _ := runForm(t, r, FormHandlerOpts[testFormData]{
		Parser:     staticParser(testFormData{Name: "work"}, nil),
		Submit:     func(context.Context, testFormData) error { return nil },
		SuccessURL: "/success",
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/success", w.Header().Get("Hx-Redirect"))
}

func TestHandleForm_OnSuccess(t *testing.T) {
	t.Parallel()

	w, _ := runForm(t, httptest.NewRequest(http.MethodPost, "/test", nil), FormHandlerOpts[testFormData]{
		Parser: staticParser(testFormData{Name: "work"}, nil),
		Submit: func(context.Context, testFormData) error { return nil },
		OnSuccess: func(w http.ResponseWriter, _ *http.Request, f testFormData) {
			_, _ = w.Write([]byte("created " + f.Name))
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "created work", w.Body.String())
}

func TestHandleForm_FieldErrorsSkipSubmit(t *testing.T) {
	t.Parallel()

	submitted := false
	w, c := runForm(t, httptest.NewRequest(http.MethodPost, "/test", nil), FormHandlerOpts[testFormData]{
		Parser: staticParser(testFormData{Name: " "}, map[string]string{"name": "Name is required"}),
		Submit: func(context.Context, testFormData) error {
			submitted = true
			return nil
		},
	})

	assert.False(t, submitted)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.data)
	assert.Equal(t, map[string]string{"name": "Name is required"}, c.data["Errors"])
	assert.Equal(t, errMsgFixBelow, c.data["ErrorMessage"])
	assert.Equal(t, testFormData{Name: " "}, c.data["FormData"])
	assert.Equal(t, "Test", c.data["Title"])
}

func TestHandleForm_ErrorStatus(t *testing.T) {
	t.Parallel()

	w, c := runForm(t, httptest.NewRequest(http.MethodPost, "/test", nil), FormHandlerOpts[testFormData]{
		Parser:      staticParser(testFormData{}, map[string]string{"name": "Name is required"}),
		Submit:      func(context.Context, testFormData) error { return nil },
		ErrorStatus: http.StatusUnprocessableEntity,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 1, c.calls)
}

func TestHandleForm_SubmitErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		handleError ErrorHandler
		wantMessage string
		wantErrors  map[string]string
	}{
		{
			name:        "backend message is shown",
			err:         domainauth.NewAPIError(http.StatusUnprocessableEntity, "The name has already been taken."),
			wantMessage: "The name has already been taken.",
		},
		{
			name:        "wrapped backend message is shown",
			err:         errors.Join(errors.New("create"), domainauth.NewAPIError(http.StatusConflict, "Duplicate")),
			wantMessage: "Duplicate",
		},
		{
			name:        "unknown errors stay generic",
			err:         errors.New("dial tcp: connection refused"),
			wantMessage: errMsgTryAgain,
		},
		{
			name: "custom handler wins",
			err:  domainauth.NewAPIError(http.StatusUnauthorized, "Unauthenticated."),
			handleError: func(err error) (map[string]string, string) {
				if errIsUnauthorized(err) {
					return nil, "expired"
				}
				return nil, ""
			},
			wantMessage: "expired",
		},
		{
			name: "custom handler may set field errors",
			err:  errors.New("taken"),
			handleError: func(error) (map[string]string, string) {
				return map[string]string{"name": "Already taken"}, ""
			},
			wantErrors: map[string]string{"name": "Already taken"},
		},
		{
			name:        "custom handler falls through",
			err:         errors.New("boom"),
			handleError: func(error) (map[string]string, string) { return nil, "" },
			wantMessage: errMsgTryAgain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, c := runForm(t, httptest.NewRequest(http.MethodPost, "/test", nil), FormHandlerOpts[testFormData]{
				Parser:      staticParser(testFormData{Name: "kept"}, nil),
				Submit:      func(context.Context, testFormData) error { return tt.err },
				HandleError: tt.handleError,
				ExtraData:   map[string]any{"Extra": 1},
			})

			assert.Equal(t, http.StatusOK, w.Code)
			require.NotNil(t, c.data)
			assert.Equal(t, testFormData{Name: "kept"}, c.data["FormData"])
			assert.Equal(t, 1, c.data["Extra"])
			if tt.wantErrors != nil {
				assert.Equal(t, tt.wantErrors, c.data["Errors"])
				assert.Equal(t, errMsgFixBelow, c.data["ErrorMessage"])
				return
			}
			assert.Equal(t, true, c.data["Error"])
			assert.Equal(t, tt.wantMessage, c.data["ErrorMessage"])
		})
	}
}

func TestHandleForm_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := httptest.NewRequest(http.MethodPost, "/test", nil).WithContext(ctx)

	w, c := runForm(t, r, FormHandlerOpts[testFormData]{
		Parser: staticParser(testFormData{Name: "work"}, nil),
		Submit: func(ctx context.Context, _ testFormData) error { return ctx.Err() },
	})

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "request canceled")
	assert.Zero(t, c.calls)
}

func TestHandleForm_GuardRails(t *testing.T) {
	t.Parallel()

	tests := map[string]FormHandlerOpts[testFormData]{
		"missing parser": {Submit: func(context.Context, testFormData) error { return nil }},
		"missing submit": {Parser: staticParser(testFormData{}, nil)},
	}
	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			w, c := runForm(t, httptest.NewRequest(http.MethodPost, "/test", nil), opts)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Zero(t, c.calls)
		})
	}

	t.Run("missing renderer", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		HandleForm(FormHandlerOpts[testFormData]{
			W:      w,
			R:      httptest.NewRequest(http.MethodPost, "/test", nil),
			Parser: staticParser(testFormData{}, nil),
			Submit: func(context.Context, testFormData) error { return nil },
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
