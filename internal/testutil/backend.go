package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	domainauth "github.com/target/labelboard/internal/domain/auth"
	"github.com/target/labelboard/internal/domain/model"
)

// RecordedRequest is what the fake backend saw for one call.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Accept        string
	Cookie        string
	Body          []byte
}

// Backend is an httptest REST backend speaking the labels API under /api.
// Lists are served in both envelope styles: labels wrapped in {"data": ...},
// categories as a raw array.
type Backend struct {
	Server *httptest.Server

	mu         sync.Mutex
	user       domainauth.User
	password   string
	token      string
	labels     []model.Label
	categories []model.Category
	failures   map[string]failure
	requests   []RecordedRequest
	nextID     int64
}

type failure struct {
	status  int
	message string
}

// NewBackend starts a fake backend that accepts a single user.
// The server is closed when the test ends.
func NewBackend(t interface {
	TestingTB
	Cleanup(func())
}, user domainauth.User, password string) *Backend {
	t.Helper()

	b := &Backend{
		user:     user,
		password: password,
		token:    "tok-" + strconv.FormatInt(user.ID, 10),
		failures: make(map[string]failure),
		nextID:   1000,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", b.handleLogin)
	mux.HandleFunc("GET /api/user", b.authed(b.handleUser))
	mux.HandleFunc("GET /api/v1/labels", b.authed(b.handleLabels))
	mux.HandleFunc("POST /api/v1/labels", b.authed(b.handleCreateLabel))
	mux.HandleFunc("DELETE /api/v1/labels/{id}", b.authed(b.handleDeleteLabel))
	mux.HandleFunc("GET /api/v1/categories", b.authed(b.handleCategories))
	mux.HandleFunc("POST /api/logout", b.authed(b.handleLogout))

	b.Server = httptest.NewServer(b.record(mux))
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API base (server root + "/api").
func (b *Backend) URL() string { return b.Server.URL + "/api" }

// Token is the bearer token issued on a successful login.
func (b *Backend) Token() string { return b.token }

// SetLabels replaces the label set.
func (b *Backend) SetLabels(labels ...model.Label) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.labels = append([]model.Label(nil), labels...)
}

// SetCategories replaces the category set.
func (b *Backend) SetCategories(categories ...model.Category) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.categories = append([]model.Category(nil), categories...)
}

// Labels returns the current label set.
func (b *Backend) Labels() []model.Label {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Label(nil), b.labels...)
}

// Fail makes "METHOD /path" (path without the /api prefix) answer with status.
// An empty message sends a body without a message field.
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{status: status, message: message}
}

// Requests returns every request seen so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// CountRequests returns how many requests hit "METHOD /path".
func (b *Backend) CountRequests(route string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method+" "+strings.TrimPrefix(r.Path, "/api") == route {
			n++
		}
	}
	return n
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-Id"),
			ContentType:   r.Header.Get("Content-Type"),
			Accept:        r.Header.Get("Accept"),
			Cookie:        r.Header.Get("Cookie"),
			Body:          body,
		})
		f, failing := b.failures[r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api")]
		b.mu.Unlock()

		if failing {
			if f.message == "" {
				writeJSON(w, f.status, map[string]any{"error": true})
				return
			}
			writeJSON(w, f.status, map[string]string{"message": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}
		next(w, r)
	}
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domainauth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed request"})
		return
	}
	if creds.Email != b.user.Email || creds.Password != b.password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "backend_session", Value: "s1", Path: "/"})
	writeJSON(w, http.StatusOK, domainauth.LoginResult{Token: b.token, User: b.user})
}

func (b *Backend) handleUser(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.user)
}

func (b *Backend) handleLabels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": b.Labels()})
}

func (b *Backend) handleCategories(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	cats := append([]model.Category{}, b.categories...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, cats)
}

func (b *Backend) handleCreateLabel(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "The name field is required."})
		return
	}

	b.mu.Lock()
	label := model.Label{ID: b.nextID, Name: req.Name, Categories: []model.Category{}}
	b.nextID++
	for _, c := range b.categories {
		if c.ID == req.CategoryID {
			label.Categories = append(label.Categories, c)
		}
	}
	b.labels = append(b.labels, label)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"data": label})
}

func (b *Backend) handleDeleteLabel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Label not found"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.labels {
		if l.ID == id {
			b.labels = append(b.labels[:i], b.labels[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Label deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Label not found"})
}

func (b *Backend) handleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
