package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/target/labelboard/config"
	"github.com/target/labelboard/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		slog.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger := bootstrap.InitLogger(&cfg)
	logStartupInfo(ctx, logger, &cfg)

	redisClient, err := bootstrap.InitRedis(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	if services.Metrics != nil {
		defer func() {
			if cerr := services.Metrics.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close statsd failed", "error", cerr)
			}
		}()
	}

	return bootstrap.Run(ctx, bootstrap.RunConfig{
		HTTP:   &bootstrap.HTTPServerConfig{Config: &cfg, Services: services, Logger: logger},
		Logger: logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting labelboard",
		"addr", cfg.HTTP.Addr,
		"api_url", cfg.API.URL,
		"dev", cfg.IsDev,
		"session_cache", cfg.Auth.SessionCache,
		"metrics", cfg.Observability.Metrics.IsEnabled())
}
