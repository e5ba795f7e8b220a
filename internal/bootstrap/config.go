package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ibmec/pict-api/config"
)

// InitLogger initializes the structured logger.
// LOG_LEVEL accepts debug, info, warn or error.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
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

// ValidateConfig rejects combinations the server cannot start with.
func ValidateConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if cfg.Auth.Mode == config.AuthModeMock && !cfg.IsDev {
		return errors.New("AUTH_MODE=mock is only allowed in development (set DEV=true)")
	}
	if cfg.Auth.Mode == config.AuthModeOAuth {
		var missing []string
		if cfg.Auth.Microsoft.ClientID == "" {
			missing = append(missing, "MICROSOFT_CLIENT_ID")
		}
		if cfg.Auth.Microsoft.ClientSecret == "" {
			missing = append(missing, "MICROSOFT_CLIENT_SECRET")
		}
		if len(missing) > 0 {
			return fmt.Errorf("oauth mode requires %s", strings.Join(missing, ", "))
		}
	}
	return nil
}
