package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/labelboard/internal/adapters/cookiestore"
	"github.com/target/labelboard/internal/ports"
	"github.com/target/labelboard/internal/service"
)

// BackendFactory binds the backend client to one request's token store.
type BackendFactory func(ports.TokenStore) ports.BackendAPI

// Sessions builds the per-request collaborators: a cookie token store, a
// backend client bound to it and a fresh SessionService. Nothing is shared
// between requests except the optional snapshot cache.
type Sessions struct {
	Backend BackendFactory // Required
	Cache   ports.SessionCache
	Cookie  cookiestore.Options
	Logger  *slog.Logger
}

// requestSession is everything a handler needs to act for one browser request.
type requestSession struct {
	svc    *service.SessionService
	api    ports.BackendAPI
	tokens *cookiestore.Store
}

func (s *Sessions) forRequest(w http.ResponseWriter, r *http.Request) *requestSession {
	tokens := cookiestore.New(w, r, s.Cookie)
	api := s.Backend(tokens)
	return &requestSession{
		svc: service.NewSessionService(service.SessionServiceOptions{
			API:    api,
			Tokens: tokens,
			Cache:  s.Cache,
			Logger: s.Logger,
		}),
		api:    api,
		tokens: tokens,
	}
}
