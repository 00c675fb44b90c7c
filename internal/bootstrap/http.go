package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/target/labelboard/config"
	"github.com/target/labelboard/internal/adapters/cookiestore"
	httpx "github.com/target/labelboard/internal/http"
)

const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// newRouterServices maps the app config and services onto the router's inputs.
func newRouterServices(cfg *config.AppConfig, services ServiceContainer, logger *slog.Logger) httpx.RouterServices {
	return httpx.RouterServices{
		Backend:      services.Backend,
		SessionCache: services.SessionCache,
		Cookie: cookiestore.Options{
			Name:   cfg.Auth.TokenCookie,
			Domain: cfg.HTTP.CookieDomain,
			Secure: cfg.SecureCookies(),
		},
		IsDev:  cfg.IsDev,
		Logger: logger,
	}
}

// BuildHTTPHandler wraps the router with the server-wide middleware.
// Order: RequestID -> Recover -> Logging -> Compression -> Router.
func BuildHTTPHandler(cfg *config.AppConfig, services ServiceContainer, logger *slog.Logger) (http.Handler, error) {
	router, err := httpx.NewRouter(newRouterServices(cfg, services, logger))
	if err != nil {
		return nil, err
	}

	h := router
	if cfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: logger})(h)
	}

	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)
	h = httpx.RequestID()(h)
	return h, nil
}

// StartHTTPServer binds the listener and serves in the background. Bind
// errors are returned directly; later serve errors arrive on errCh.
func StartHTTPServer(cfg *HTTPServerConfig, errCh chan<- error) (*http.Server, net.Addr, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, nil, errors.New("http server: config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler, err := BuildHTTPHandler(cfg.Config, cfg.Services, logger)
	if err != nil {
		return nil, nil, err
	}

	// Guard against empty addr to avoid listening on Go default
	addr := cfg.Config.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("http server: listen %s: %w", addr, err)
	}

	go func() {
		logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if serveErr := server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", serveErr)
			if errCh != nil {
				errCh <- serveErr
			}
		}
	}()

	return server, ln.Addr(), nil
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	logger.Info("HTTP server stopped")
	return nil
}
