package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"net/http"
	"sync"

	domainauth "github.com/target/labelboard/internal/domain/auth"
	"github.com/target/labelboard/internal/domain/model"
	"github.com/target/labelboard/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.BackendAPI   = (*FakeBackend)(nil)
	_ ports.TokenStore   = (*MemoryTokenStore)(nil)
	_ ports.SessionCache = (*MemorySessionCache)(nil)
)

// MemoryTokenStore holds a token in memory for unit tests.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	sets  int
}

// NewMemoryTokenStore creates a store, optionally seeded with a token.
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (m *MemoryTokenStore) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *MemoryTokenStore) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.sets++
}

func (m *MemoryTokenStore) ClearToken() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}

// Sets returns how many times SetToken was called.
func (m *MemoryTokenStore) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// MemorySessionCache is an in-memory session cache for unit tests.
type MemorySessionCache struct {
	mu    sync.Mutex
	users map[string]domainauth.User
}

// NewMemorySessionCache creates an empty cache.
func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{users: make(map[string]domainauth.User)}
}

func (m *MemorySessionCache) Get(_ context.Context, token string) (domainauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[token]
	if !ok {
		return domainauth.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemorySessionCache) Put(_ context.Context, token string, user domainauth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[token] = user
	return nil
}

func (m *MemorySessionCache) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, token)
	return nil
}

// Len returns the number of cached snapshots.
func (m *MemorySessionCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// FakeBackend is an in-memory stand-in for the REST backend.
// It writes issued tokens to Tokens on login, like the real client does.
type FakeBackend struct {
	mu sync.Mutex

	Tokens     ports.TokenStore
	Users      map[string]domainauth.User // keyed by email
	Passwords  map[string]string          // keyed by email
	Labels     []model.Label
	Categories []model.Category

	// Err* fields force the corresponding call to fail.
	ErrLogin      error
	ErrUser       error
	ErrLabels     error
	ErrCategories error
	ErrCreate     error
	ErrDelete     error
	ErrLogout     error

	calls  map[string]int
	nextID int64
}

// NewFakeBackend creates a backend that knows a single user.
func NewFakeBackend(tokens ports.TokenStore, user domainauth.User, password string) *FakeBackend {
	return &FakeBackend{
		Tokens:    tokens,
		Users:     map[string]domainauth.User{user.Email: user},
		Passwords: map[string]string{user.Email: password},
		calls:     make(map[string]int),
		nextID:    100,
	}
}

// Calls returns how many times the named method was invoked.
func (f *FakeBackend) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakeBackend) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
}

// TokenFor is the deterministic token issued to an email.
func TokenFor(email string) string { return "token-" + email }

func (f *FakeBackend) Login(_ context.Context, creds domainauth.Credentials) (*domainauth.LoginResult, error) {
	f.record("Login")
	if f.ErrLogin != nil {
		return nil, f.ErrLogin
	}
	f.mu.Lock()
	u, ok := f.Users[creds.Email]
	pw := f.Passwords[creds.Email]
	f.mu.Unlock()
	if !ok || pw != creds.Password {
		return nil, domainauth.NewAPIError(http.StatusUnauthorized, "Invalid credentials")
	}
	res := &domainauth.LoginResult{Token: TokenFor(u.Email), User: u}
	if f.Tokens != nil {
		f.Tokens.SetToken(res.Token)
	}
	return res, nil
}

func (f *FakeBackend) GetAuthUser(_ context.Context) (*domainauth.User, error) {
	f.record("GetAuthUser")
	if f.ErrUser != nil {
		return nil, f.ErrUser
	}
	token := ""
	if f.Tokens != nil {
		token, _ = f.Tokens.Token()
	}
	if token == "" {
		return nil, domainauth.NewAPIError(http.StatusUnauthorized, "No authentication token found")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.Users {
		if TokenFor(u.Email) == token {
			return &u, nil
		}
	}
	return nil, domainauth.NewAPIError(http.StatusUnauthorized, "Unauthenticated.")
}

func (f *FakeBackend) GetLabels(_ context.Context) ([]model.Label, error) {
	f.record("GetLabels")
	if f.ErrLabels != nil {
		return nil, f.ErrLabels
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Label(nil), f.Labels...), nil
}

func (f *FakeBackend) GetCategories(_ context.Context) ([]model.Category, error) {
	f.record("GetCategories")
	if f.ErrCategories != nil {
		return nil, f.ErrCategories
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Category(nil), f.Categories...), nil
}

func (f *FakeBackend) CreateLabel(_ context.Context, req model.CreateLabelRequest) (*model.Label, error) {
	f.record("CreateLabel")
	if f.ErrCreate != nil {
		return nil, f.ErrCreate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	l := model.Label{ID: f.nextID, Name: req.Name}
	for _, c := range f.Categories {
		if c.ID == req.CategoryID {
			l.Categories = []model.Category{c}
		}
	}
	f.nextID++
	f.Labels = append(f.Labels, l)
	return &l, nil
}

func (f *FakeBackend) DeleteLabel(_ context.Context, id int64) error {
	f.record("DeleteLabel")
	if f.ErrDelete != nil {
		return f.ErrDelete
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.Labels {
		if l.ID == id {
			f.Labels = append(f.Labels[:i], f.Labels[i+1:]...)
			return nil
		}
	}
	return domainauth.NewAPIError(http.StatusNotFound, "Label not found")
}

func (f *FakeBackend) Logout(_ context.Context) error {
	f.record("Logout")
	return f.ErrLogout
}
