package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/target/labelboard/internal/domain/model"
	"github.com/target/labelboard/internal/guard"
	"github.com/target/labelboard/internal/http/validation"
)

const msgSessionExpired = "Your session has expired. Please sign in again."

// labelForm is the posted create-label dialog.
type labelForm struct {
	Name       string `form:"name"        validate:"required"`
	CategoryID int64  `form:"category_id" validate:"gt=0"`
}

//nolint:gochecknoglobals // static message table
var labelMessages = validation.Messages{
	"name.required":  "Name is required",
	"category_id.gt": "Category is required",
}

func (f labelForm) request() model.CreateLabelRequest {
	return model.CreateLabelRequest{Name: f.Name, CategoryID: f.CategoryID}
}

// parseLabelForm trims the name so a blank entry never reaches the backend.
func parseLabelForm(r *http.Request) (labelForm, map[string]string) {
	f := labelForm{Name: strings.TrimSpace(r.PostFormValue("name"))}
	if id, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue("category_id")), 10, 64); err == nil {
		f.CategoryID = id
	}
	return f, validation.Struct(f, labelMessages)
}

// labelDialog is the view state of the create-label dialog.
type labelDialog struct {
	Categories []model.Category
	Form       labelForm
	Errors     map[string]string
	Error      string
}

func newLabelDialog(categories []model.Category) labelDialog {
	d := labelDialog{Categories: categories}
	if len(categories) > 0 {
		d.Form.CategoryID = categories[0].ID
	}
	return d
}

// LabelNew renders the create-label dialog. GET /dashboard/labels/new.
// htmx gets the dialog fragment; a plain navigation gets the dashboard with the dialog open.
func (h *UIHandlers) LabelNew(w http.ResponseWriter, r *http.Request) {
	if !WantsPartial(r) {
		h.dashboardPage(w, r, func(b *TemplateDataBuilder, view dashboardData) {
			b.With("Dialog", newLabelDialog(view.Categories))
		})
		return
	}

	rs := h.Sessions.forRequest(w, r)
	categories, err := rs.api.GetCategories(r.Context())
	if err != nil {
		if isCanceled(r.Context(), err) {
			return
		}
		h.logger().WarnContext(r.Context(), "categories unavailable for dialog", slog.Any("error", err))
		categories = nil
	}
	h.renderFragment(w, r, "label-dialog", map[string]any{
		"CSRFToken": GetCSRFToken(r),
		"Dialog":    newLabelDialog(categories),
	})
}

// LabelCreate validates the dialog and creates the label. POST /dashboard/labels.
// On success the dashboard is loaded again so the new label shows up.
func (h *UIHandlers) LabelCreate(w http.ResponseWriter, r *http.Request) {
	rs := h.Sessions.forRequest(w, r)

	HandleForm(FormHandlerOpts[labelForm]{
		W:      w,
		R:      r,
		Parser: parseLabelForm,
		Submit: func(ctx context.Context, f labelForm) error {
			label, err := rs.api.CreateLabel(ctx, f.request())
			if err != nil {
				return err
			}
			h.logger().InfoContext(ctx, "label created", slog.Int64("label_id", label.ID))
			return nil
		},
		Renderer: func(w http.ResponseWriter, r *http.Request, data map[string]any) {
			h.renderLabelDialogError(w, r, rs.api.GetCategories, data)
		},
		SuccessURL: guard.DashboardPath,
		PageMeta:   dashboardMeta,
		HandleError: func(err error) (map[string]string, string) {
			if errIsUnauthorized(err) {
				rs.tokens.ClearToken()
				return nil, msgSessionExpired
			}
			return nil, ""
		},
	})
}

// renderLabelDialogError shows the dialog again with the submitted values.
func (h *UIHandlers) renderLabelDialogError(
	w http.ResponseWriter,
	r *http.Request,
	categories func(context.Context) ([]model.Category, error),
	data map[string]any,
) {
	form, _ := data["FormData"].(labelForm)
	errs, _ := data["Errors"].(map[string]string)
	msg, _ := data["ErrorMessage"].(string)

	if !WantsPartial(r) {
		h.dashboardPage(w, r, func(b *TemplateDataBuilder, view dashboardData) {
			b.With("Dialog", labelDialog{Categories: view.Categories, Form: form, Errors: errs, Error: msg})
		})
		return
	}

	cats, err := categories(r.Context())
	if err != nil {
		if isCanceled(r.Context(), err) {
			return
		}
		cats = nil
	}
	h.renderFragment(w, r, "label-dialog", map[string]any{
		"CSRFToken": GetCSRFToken(r),
		"Dialog":    labelDialog{Categories: cats, Form: form, Errors: errs, Error: msg},
	})
}

// LabelDelete removes a label and reloads the dashboard. POST /dashboard/labels/{id}/delete.
func (h *UIHandlers) LabelDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.NotFound(w, r)
		return
	}

	rs := h.Sessions.forRequest(w, r)
	if err := rs.api.DeleteLabel(r.Context(), id); err != nil {
		if isCanceled(r.Context(), err) {
			return
		}
		msg := authErrorMessage(err)
		if errIsUnauthorized(err) {
			rs.tokens.ClearToken()
			msg = msgSessionExpired
		}
		h.logger().WarnContext(r.Context(), "label delete failed", slog.Int64("label_id", id), slog.Any("error", err))
		h.renderFlash(w, r, msg)
		return
	}

	h.logger().InfoContext(r.Context(), "label deleted", slog.Int64("label_id", id))
	redirect(w, r, guard.DashboardPath)
}

// renderFlash shows an error banner without leaving the dashboard.
func (h *UIHandlers) renderFlash(w http.ResponseWriter, r *http.Request, msg string) {
	if IsHTMX(r) {
		SetHXRetarget(w, "#flash")
		w.Header().Set("Hx-Reswap", "innerHTML")
		h.renderFragment(w, r, "flash", map[string]any{"Error": true, "ErrorMessage": msg})
		return
	}
	h.dashboardPage(w, r, func(b *TemplateDataBuilder, _ dashboardData) {
		b.WithError(msg)
	})
}
