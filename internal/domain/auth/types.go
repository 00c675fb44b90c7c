package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"fmt"
	"net/http"
)

// Credentials is the transient login form payload. It is never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the authenticated principal as reported by the backend.
// A User is replaced wholesale on every successful login or auth check.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DisplayName returns the name shown in greetings, falling back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// LoginResult is the backend response to a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ErrorKind separates transport failures from backend-reported failures.
type ErrorKind string

const (
	// KindNetwork means no usable response was received.
	KindNetwork ErrorKind = "network"
	// KindAPI means the backend responded with a failure status.
	KindAPI ErrorKind = "api"
)

// NetworkErrorMessage is the message used for every transport-level failure.
const NetworkErrorMessage = "Network error occurred"

// AuthError is the single error shape surfaced by the API client.
// Views only read Status and Message.
type AuthError struct {
	Kind    ErrorKind `json:"-"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.Status, e.Cause)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *AuthError) Unwrap() error { return e.Cause }

// IsUnauthorized reports whether the error is 401-class.
func (e *AuthError) IsUnauthorized() bool { return e.Status == http.StatusUnauthorized }

// NewNetworkError wraps a transport failure.
func NewNetworkError(cause error) *AuthError {
	return &AuthError{
		Kind:    KindNetwork,
		Status:  http.StatusInternalServerError,
		Message: NetworkErrorMessage,
		Cause:   cause,
	}
}

// NewAPIError builds an error from a backend failure response.
func NewAPIError(status int, message string) *AuthError {
	return &AuthError{Kind: KindAPI, Status: status, Message: message}
}

// SessionState is the position of a session in the auth lifecycle.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateChecking        SessionState = "checking"
	StateAuthenticated   SessionState = "authenticated"
	StateAuthFailed      SessionState = "auth_failed"
)

// Session is the client's belief about the current authenticated identity.
// Token is empty when no token is held.
type Session struct {
	User            *User        `json:"user"`
	Token           string       `json:"-"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsLoading       bool         `json:"is_loading"`
	Error           *AuthError   `json:"error"`
	State           SessionState `json:"state"`
}

// EmptySession returns the unauthenticated value sessions reset to.
func EmptySession() Session {
	return Session{State: StateUnauthenticated}
}
