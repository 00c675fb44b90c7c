package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
)

// RunConfig is everything Run needs to serve until shutdown.
type RunConfig struct {
	HTTP   *HTTPServerConfig
	Logger *slog.Logger
}

// Run starts the HTTP server and blocks until ctx is done, SIGINT/SIGTERM
// arrives or the server fails, then shuts down gracefully.
func Run(ctx context.Context, cfg RunConfig) error {
	if cfg.HTTP == nil {
		return errors.New("run: http config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	server, _, err := StartHTTPServer(cfg.HTTP, errCh)
	if err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down services...")
	case serveErr = <-errCh:
		logger.Error("service error", "error", serveErr)
	}

	// The parent context may already be canceled; shutdown gets its own deadline.
	if err := ShutdownHTTPServer(context.WithoutCancel(ctx), server, logger); err != nil {
		return errors.Join(serveErr, err)
	}
	return serveErr
}
