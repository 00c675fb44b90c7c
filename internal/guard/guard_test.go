package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		path     string
		hasToken bool
		want     Decision
	}{
		{"/", true, Decision{RedirectTo: "/dashboard"}},
		{"/", false, Decision{Allow: true}},
		{"/dashboard", false, Decision{RedirectTo: "/"}},
		{"/dashboard/x", false, Decision{RedirectTo: "/"}},
		{"/dashboard/labels/new", false, Decision{RedirectTo: "/"}},
		{"/dashboard", true, Decision{Allow: true}},
		{"/dashboard/x", true, Decision{Allow: true}},
		{"/dashboardx", false, Decision{Allow: true}},
		{"/healthz", false, Decision{Allow: true}},
		{"/healthz", true, Decision{Allow: true}},
		{"/login", true, Decision{Allow: true}},
	}

	for _, tt := range tests {
		got := Decide(tt.path, tt.hasToken)
		assert.Equal(t, tt.want, got, "Decide(%q, %v)", tt.path, tt.hasToken)
	}
}

func TestMatches(t *testing.T) {
	for _, p := range []string{"/", "/dashboard", "/dashboard/", "/dashboard/labels/1/delete"} {
		assert.True(t, Matches(p), p)
	}
	for _, p := range []string{"/login", "/static/app.css", "/dashboards", "/healthz"} {
		assert.False(t, Matches(p), p)
	}
}
