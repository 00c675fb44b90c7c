package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/apiclient; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/labelboard/internal/domain/auth"
	"github.com/target/labelboard/internal/domain/model"
)

// BackendAPI is the remote REST backend as seen by the session service and the views.
type BackendAPI interface {
	// Login exchanges credentials for a bearer token and the user it belongs to.
	Login(ctx context.Context, creds domainauth.Credentials) (*domainauth.LoginResult, error)

	// GetAuthUser returns the user owning the current token.
	GetAuthUser(ctx context.Context) (*domainauth.User, error)

	GetLabels(ctx context.Context) ([]model.Label, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	CreateLabel(ctx context.Context, req model.CreateLabelRequest) (*model.Label, error)
	DeleteLabel(ctx context.Context, id int64) error

	// Logout invalidates the server-side session. It never touches the local token.
	Logout(ctx context.Context) error
}

// TokenStore persists the bearer token between browser requests.
type TokenStore interface {
	// Token returns the stored token and whether one is present.
	Token() (string, bool)
	SetToken(token string)
	ClearToken()
}

// SessionCache keeps short-lived snapshots of confirmed users keyed by token.
type SessionCache interface {
	Get(ctx context.Context, token string) (domainauth.User, error)
	Put(ctx context.Context, token string, user domainauth.User) error
	Delete(ctx context.Context, token string) error
}
