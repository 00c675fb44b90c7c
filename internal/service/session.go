package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/target/labelboard/internal/domain/auth"
	"github.com/target/labelboard/internal/ports"
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	API    ports.BackendAPI   // Required
	Tokens ports.TokenStore   // Required
	Cache  ports.SessionCache // Optional: user snapshots keyed by token
	Logger *slog.Logger       // Optional
}

// SessionService is the single source of truth for who is logged in.
// One instance serves one browser request; its state starts empty and is
// only changed through Login, Logout and CheckAuth.
type SessionService struct {
	api    ports.BackendAPI
	tokens ports.TokenStore
	cache  ports.SessionCache
	logger *slog.Logger

	mu      sync.Mutex
	session domainauth.Session
}

// NewSessionService constructs a SessionService. It panics when a required dependency is missing.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.API == nil {
		panic("service: SessionService requires a BackendAPI")
	}
	if opts.Tokens == nil {
		panic("service: SessionService requires a TokenStore")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		api:     opts.API,
		tokens:  opts.Tokens,
		cache:   opts.Cache,
		logger:  logger.With("component", "session"),
		session: domainauth.EmptySession(),
	}
}

// Session returns a copy of the current session.
func (s *SessionService) Session() domainauth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.session
	if cp.User != nil {
		u := *cp.User
		cp.User = &u
	}
	if cp.Error != nil {
		e := *cp.Error
		cp.Error = &e
	}
	return cp
}

func (s *SessionService) update(fn func(*domainauth.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.session)
}

func (s *SessionService) reset() {
	s.update(func(sess *domainauth.Session) { *sess = domainauth.EmptySession() })
}

func (s *SessionService) authenticated(user domainauth.User, token string) {
	s.update(func(sess *domainauth.Session) {
		*sess = domainauth.Session{
			User:            &user,
			Token:           token,
			IsAuthenticated: true,
			State:           domainauth.StateAuthenticated,
		}
	})
}

// begin enters Checking and returns a function restoring the prior session,
// used when the caller cancels mid-flight.
func (s *SessionService) begin(clearError bool) (restore func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.session
	s.session.IsLoading = true
	s.session.State = domainauth.StateChecking
	if clearError {
		s.session.Error = nil
	}
	return func() { s.update(func(sess *domainauth.Session) { *sess = prev }) }
}

// CheckAuth confirms the stored token with the backend. Without a token no
// backend call is made. A rejected token is purged and the session reset;
// that failure is logged, not returned. Only cancellation is returned.
func (s *SessionService) CheckAuth(ctx context.Context) error {
	token, ok := s.tokens.Token()
	if !ok {
		s.reset()
		return nil
	}

	restore := s.begin(false)

	if user, hit := s.cachedUser(ctx, token); hit {
		s.authenticated(user, token)
		return nil
	}

	user, err := s.api.GetAuthUser(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		restore()
		return ctxErr
	}
	if err != nil {
		s.logger.WarnContext(ctx, "auth check failed, purging token", slog.Any("error", err))
		s.forget(ctx, token)
		s.tokens.ClearToken()
		s.reset()
		return nil
	}

	s.authenticated(*user, token)
	s.remember(ctx, token, *user)
	return nil
}

// Login exchanges credentials for a token. On failure the error is recorded
// on the session and returned; user and token are left as they were.
func (s *SessionService) Login(ctx context.Context, creds domainauth.Credentials) error {
	restore := s.begin(true)

	res, err := s.api.Login(ctx, creds)
	if ctxErr := ctx.Err(); ctxErr != nil {
		restore()
		return ctxErr
	}
	if err != nil {
		authErr := asAuthError(err)
		s.update(func(sess *domainauth.Session) {
			sess.IsLoading = false
			sess.State = domainauth.StateAuthFailed
			sess.Error = authErr
		})
		return fmt.Errorf("login: %w", authErr)
	}

	s.tokens.SetToken(res.Token)
	s.authenticated(res.User, res.Token)
	s.remember(ctx, res.Token, res.User)
	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", res.User.ID))
	return nil
}

// Logout ends the session. The token is purged and the session reset even
// when the backend call fails; that error is returned for information only.
func (s *SessionService) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)

	if token, ok := s.tokens.Token(); ok {
		s.forget(context.WithoutCancel(ctx), token)
	}
	s.tokens.ClearToken()
	s.reset()

	if err != nil {
		s.logger.WarnContext(ctx, "backend logout failed", slog.Any("error", err))
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *SessionService) cachedUser(ctx context.Context, token string) (domainauth.User, bool) {
	if s.cache == nil {
		return domainauth.User{}, false
	}
	user, err := s.cache.Get(ctx, token)
	if err != nil {
		return domainauth.User{}, false
	}
	return user, true
}

func (s *SessionService) remember(ctx context.Context, token string, user domainauth.User) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, token, user); err != nil {
		s.logger.WarnContext(ctx, "session cache put failed", slog.Any("error", err))
	}
}

func (s *SessionService) forget(ctx context.Context, token string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "session cache delete failed", slog.Any("error", err))
	}
}

// asAuthError normalizes any error into the view-facing shape.
func asAuthError(err error) *domainauth.AuthError {
	var authErr *domainauth.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return domainauth.NewNetworkError(err)
}
