package httpx

import (
	"net/http"
)

// healthHandler is the liveness probe. It never calls the backend: a down
// backend should show up on the login page, not restart this process.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok","service":"labelboard"}`))
}
