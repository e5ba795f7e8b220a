package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ibmec/pict-api/config"
	"github.com/ibmec/pict-api/internal/bootstrap"
	"github.com/ibmec/pict-api/internal/observability/tracing"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err = bootstrap.ValidateConfig(&cfg); err != nil {
		return err
	}
	logStartupInfo(ctx, logger, &cfg)

	shutdownTracing, err := tracing.Setup(ctx, cfg.Observability.Tracing, cfg.Version, logger)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if terr := shutdownTracing(context.WithoutCancel(ctx)); terr != nil {
			logger.ErrorContext(ctx, "flush traces failed", "error", terr)
		}
	}()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer db.Close()

	redisClient, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	if cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	provider, err := bootstrap.BuildAuthProvider(ctx, bootstrap.AuthConfig{Auth: cfg.Auth, Logger: logger})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		DB:          db,
		RedisClient: redisClient,
		Provider:    provider,
		Registerer:  metricsRegisterer(cfg, reg),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	handler := bootstrap.NewHTTPHandler(bootstrap.HTTPHandlerConfig{
		Config:   &cfg,
		Services: services,
		Gatherer: reg,
		Logger:   logger,
	})
	return bootstrap.RunHTTP(ctx, cfg.HTTP, handler, logger)
}

//nolint:ireturn // nil disables metrics collection.
func metricsRegisterer(cfg config.AppConfig, reg *prometheus.Registry) prometheus.Registerer {
	if !cfg.Observability.Metrics.Enabled {
		return nil
	}
	return reg
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting pict api",
		"version", cfg.Version,
		"auth_mode", cfg.Auth.Mode,
		"api_prefix", cfg.HTTP.APIPrefix,
		"frontend_url", cfg.HTTP.FrontendURL,
		"db_host", cfg.Postgres.Host,
		"db_name", cfg.Postgres.Name,
		"redis_enabled", cfg.Redis.Enabled,
		"dev", cfg.IsDev,
	)
}
