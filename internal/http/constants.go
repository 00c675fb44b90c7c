package httpx

// Page identifiers used in templates and layout state.
const (
	PageLogin     = "login"
	PageDashboard = "dashboard"
)

// Template paths used for loading templates in tests and dev mode.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Routes served by the view layer beyond the guarded pages.
const (
	pathLogin     = "/login"
	pathLogout    = "/logout"
	pathLabels    = "/dashboard/labels"
	pathNewLabel  = "/dashboard/labels/new"
	pathAuthState = "/auth/status"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageLogin:     "login-content",
	PageDashboard: "dashboard-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to login-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "login-content"
}
