package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/target/labelboard/internal/domain/model"
	"github.com/target/labelboard/internal/guard"
	"github.com/target/labelboard/internal/ports"
)

//nolint:gochecknoglobals // static page metadata
var dashboardMeta = PageMeta{Title: "Dashboard", PageTitle: "Labels", CurrentPage: PageDashboard}

// dashboardData is what the dashboard template needs beyond the layout.
type dashboardData struct {
	Groups     []model.CategoryGroup
	Categories []model.Category
	// LabelsErr is set when labels could not be loaded; categories still render.
	LabelsErr string
}

// loadDashboard fetches labels and categories concurrently. A categories
// failure degrades to an empty list; a labels failure is reported in
// LabelsErr. Only cancellation is returned as an error, and then the
// partial results are dropped.
func (h *UIHandlers) loadDashboard(ctx context.Context, api ports.BackendAPI) (dashboardData, error) {
	var (
		labels     []model.Label
		categories []model.Category
		labelsErr  error
	)

	var g errgroup.Group
	g.Go(func() error {
		got, err := api.GetLabels(ctx)
		if err != nil {
			if isCanceled(ctx, err) {
				return err
			}
			labelsErr = err
			return nil
		}
		labels = got
		return nil
	})
	g.Go(func() error {
		got, err := api.GetCategories(ctx)
		if err != nil {
			if isCanceled(ctx, err) {
				return err
			}
			h.logger().WarnContext(ctx, "categories unavailable, showing none", slog.Any("error", err))
			return nil
		}
		categories = got
		return nil
	})
	if err := g.Wait(); err != nil {
		return dashboardData{}, err
	}
	if err := ctx.Err(); err != nil {
		return dashboardData{}, err
	}

	data := dashboardData{
		Groups:     model.GroupLabelsByCategory(categories, labels),
		Categories: categories,
	}
	if labelsErr != nil {
		h.logger().WarnContext(ctx, "labels unavailable", slog.Any("error", labelsErr))
		data.LabelsErr = authErrorMessage(labelsErr)
	}
	return data, nil
}

// Dashboard confirms the token with the backend and renders labels grouped
// by category. GET /dashboard.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.dashboardPage(w, r, nil)
}

// dashboardPage is the shared path for every full dashboard render. extra
// may add fields (an open dialog, a banner) before rendering.
func (h *UIHandlers) dashboardPage(w http.ResponseWriter, r *http.Request, extra func(*TemplateDataBuilder, dashboardData)) {
	rs := h.Sessions.forRequest(w, r)
	if err := rs.svc.CheckAuth(r.Context()); err != nil {
		h.logger().DebugContext(r.Context(), "dashboard request canceled", slog.Any("error", err))
		return
	}

	sess := rs.svc.Session()
	if !sess.IsAuthenticated {
		// CheckAuth already purged a rejected token, so the guard will not bounce back.
		redirect(w, r, guard.LoginPath)
		return
	}
	r = r.WithContext(SetSessionInContext(r.Context(), &sess))

	view, err := h.loadDashboard(r.Context(), rs.api)
	if err != nil {
		h.logger().DebugContext(r.Context(), "dashboard request canceled", slog.Any("error", err))
		return
	}

	b := NewTemplateData(r, dashboardMeta).
		With("Groups", view.Groups).
		With("Categories", view.Categories).
		With("HasCategories", len(view.Categories) > 0)
	if view.LabelsErr != "" {
		b.WithError(view.LabelsErr)
	} else if r.URL.Query().Get(welcomeParam) == "1" {
		b.With("SuccessMessage", msgSignedIn)
	}
	if extra != nil {
		extra(b, view)
	}
	h.renderPage(w, r, b.Build())
}
