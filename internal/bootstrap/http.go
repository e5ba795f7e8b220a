package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/ibmec/pict-api/config"
	httpx "github.com/ibmec/pict-api/internal/http"
)

// HTTPHandlerConfig contains what the API handler is built from.
type HTTPHandlerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	// Gatherer backs the /metrics endpoint when metrics are enabled.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHTTPHandler builds the router and wraps it with OpenTelemetry instrumentation.
func NewHTTPHandler(cfg HTTPHandlerConfig) http.Handler {
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var metricsHandler http.Handler
	if appCfg.Observability.Metrics.Enabled && cfg.Gatherer != nil {
		metricsHandler = promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})
	}

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:           cfg.Services.Auth,
		Projects:       cfg.Services.Projects,
		Documents:      cfg.Services.Documents,
		Activities:     cfg.Services.Activities,
		Profiles:       cfg.Services.Profiles,
		Settings:       cfg.Services.Settings,
		APIPrefix:      appCfg.HTTP.APIPrefix,
		AllowedOrigins: appCfg.HTTP.AllowedOrigins(),
		UploadsDir:     appCfg.Storage.UploadsDir,
		MaxUploadBytes: appCfg.Storage.MaxUploadBytes,
		MetricsHandler: metricsHandler,
		MetricsPath:    appCfg.Observability.Metrics.Path,
		Metrics:        cfg.Services.Metrics,
		Version:        appCfg.Version,
		Logger:         logger,
	})
	return otelhttp.NewHandler(router, "pict-api")
}

// RunHTTP serves handler until ctx is canceled or SIGINT/SIGTERM arrives,
// then drains in-flight requests within the configured shutdown timeout.
func RunHTTP(ctx context.Context, cfg config.HTTPConfig, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	addr := cfg.Addr
	if addr == "" {
		addr = ":8000"
	}
	grace := cfg.ShutdownTimeout
	if grace <= 0 {
		grace = 10 * time.Second
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), grace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("HTTP server stopped")
		return nil
	})
	return g.Wait()
}
