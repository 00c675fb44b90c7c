// Package guard decides which page a navigation may reach based only on
// whether a token cookie is present. It never validates the token; the
// dashboard handler does that through the session service.
package guard

import "strings"

// Route paths the guard knows about.
const (
	LoginPath     = "/"
	DashboardPath = "/dashboard"
)

// Decision is the outcome for one navigation.
type Decision struct {
	Allow      bool
	RedirectTo string
}

var allow = Decision{Allow: true}

// Decide maps (path, token presence) to a decision.
func Decide(path string, hasToken bool) Decision {
	switch {
	case path == LoginPath && hasToken:
		return Decision{RedirectTo: DashboardPath}
	case isDashboard(path) && !hasToken:
		return Decision{RedirectTo: LoginPath}
	default:
		return allow
	}
}

// Matches reports whether path is in the guarded set: "/", "/dashboard" and "/dashboard/*".
func Matches(path string) bool {
	return path == LoginPath || isDashboard(path)
}

func isDashboard(path string) bool {
	return path == DashboardPath || strings.HasPrefix(path, DashboardPath+"/")
}
