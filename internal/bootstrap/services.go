package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/labelboard/config"
	redisadapter "github.com/target/labelboard/internal/adapters/redis"
	"github.com/target/labelboard/internal/apiclient"
	httpx "github.com/target/labelboard/internal/http"
	"github.com/target/labelboard/internal/observability/statsd"
	"github.com/target/labelboard/internal/ports"
)

// ServiceContainer holds what the HTTP layer is built from.
type ServiceContainer struct {
	// Backend binds the shared API client to one request's token store.
	Backend httpx.BackendFactory
	// SessionCache is nil when the cache is disabled.
	SessionCache ports.SessionCache
	// Metrics is nil when metrics are disabled.
	Metrics *statsd.Client
	API     *apiclient.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient // nil unless the session cache is enabled
	Logger      *slog.Logger
}

// NewServices builds the backend client and the optional session cache.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("services: config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	metrics := buildMetrics(logger, cfg.Observability.Metrics)

	opts := apiclient.Options{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
	}
	// A nil *statsd.Client must not become a non-nil Sink.
	if metrics != nil {
		opts.Metrics = metrics
	}
	client, err := apiclient.New(opts)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("services: api client: %w", err)
	}

	out := ServiceContainer{
		Backend: func(ts ports.TokenStore) ports.BackendAPI { return client.WithTokens(ts) },
		Metrics: metrics,
		API:     client,
	}
	if cfg.Auth.SessionCache && deps.RedisClient != nil {
		out.SessionCache = redisadapter.NewSessionCache(deps.RedisClient, cfg.Auth.SessionCacheTTL)
	}
	return out, nil
}

// buildMetrics dials StatsD when enabled. A dial failure is logged and
// metrics are skipped rather than failing startup.
func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// InitRedis connects to Redis only when the session cache needs it.
//
//nolint:ireturn // the concrete client depends on the topology
func InitRedis(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	if cfg == nil || !cfg.Auth.SessionCache {
		return nil, nil
	}
	client, err := ConnectRedis(ctx, RedisOptions{Config: cfg.Redis, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return client, nil
}
