package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/local-insights/internal/adapter/http"
	"github.com/couchcryptid/local-insights/internal/adapter/mapbox"
	"github.com/couchcryptid/local-insights/internal/adapter/postcodes"
	"github.com/couchcryptid/local-insights/internal/cache"
	"github.com/couchcryptid/local-insights/internal/config"
	"github.com/couchcryptid/local-insights/internal/observability"
	"github.com/couchcryptid/local-insights/internal/report"
)

func main() {
	// Best effort; production configures through real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	results := cache.New()
	results.OnGet(func(hit bool) {
		if hit {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
		} else {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		}
	})

	resolver := postcodes.NewClient(cfg.PostcodesBaseURL, cfg.UpstreamTimeout, metrics, logger)
	registry := report.DefaultRegistry(cfg, results, logger)
	maps := mapbox.NewBuilder(cfg.MapboxToken)
	if cfg.MapboxToken == "" {
		logger.Info("map imagery disabled (no MAPBOX_TOKEN)")
	}

	service := report.NewService(resolver, registry, maps, logger, metrics)

	// No PDF pipeline ships with the service; the endpoint reports 501.
	srv := httpadapter.NewServer(cfg.HTTPAddr, service, nil, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
