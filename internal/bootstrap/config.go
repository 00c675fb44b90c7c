package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/target/labelboard/config"
)

// InitLogger installs the process logger: colored tint output in dev mode,
// JSON otherwise.
func InitLogger(cfg *config.AppConfig) *slog.Logger {
	level := slog.LevelInfo
	isDev := false
	if cfg != nil {
		level = cfg.Observability.Level()
		isDev = cfg.IsDev
	}
	logger := NewLogger(os.Stdout, isDev, level)
	slog.SetDefault(logger)
	return logger
}

// NewLogger builds the handler InitLogger installs.
func NewLogger(w io.Writer, isDev bool, level slog.Level) *slog.Logger {
	if isDev {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if err, ok := a.Value.Any().(error); ok {
					errAttr := tint.Err(err)
					errAttr.Key = a.Key
					return errAttr
				}
				return a
			},
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
