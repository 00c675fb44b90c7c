package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	domainauth "github.com/target/labelboard/internal/domain/auth"
)

// Default messages used when the backend sends no message of its own.
const (
	msgLogin         = "Login failed"
	msgGetUser       = "Failed to fetch user"
	msgGetLabels     = "Failed to fetch labels"
	msgGetCategories = "Failed to fetch categories"
	msgCreateLabel   = "Failed to create label"
	msgDeleteLabel   = "Failed to delete label"
	msgLogout        = "Logout failed"
	msgNoToken       = "No authentication token found"
)

const maxErrorBody = 64 << 10

// noTokenError is returned by authenticated calls when no token is stored.
func noTokenError() *domainauth.AuthError {
	return domainauth.NewAPIError(http.StatusUnauthorized, msgNoToken)
}

// apiError builds the error for a non-2xx response, preferring the backend message.
func apiError(resp *http.Response, fallback string) *domainauth.AuthError {
	msg := fallback
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err == nil {
		if m := strings.TrimSpace(body.Message); m != "" {
			msg = m
		}
	}
	return domainauth.NewAPIError(resp.StatusCode, msg)
}

// classify maps a transport error. Cancellation by the caller passes through
// unchanged so it can be told apart from a failing backend.
func classify(parent context.Context, err error) error {
	if parent.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return parent.Err()
	}
	var authErr *domainauth.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return domainauth.NewNetworkError(err)
}

// IsCanceled reports whether err is a caller cancellation rather than a backend failure.
func IsCanceled(err error) bool {
	var authErr *domainauth.AuthError
	if errors.As(err, &authErr) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
