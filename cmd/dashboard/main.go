package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/berlin-dashboard/internal/adapter/httpadapter"
	"github.com/couchcryptid/berlin-dashboard/internal/adapter/lageso"
	"github.com/couchcryptid/berlin-dashboard/internal/config"
	"github.com/couchcryptid/berlin-dashboard/internal/domain"
	"github.com/couchcryptid/berlin-dashboard/internal/observability"
	"github.com/couchcryptid/berlin-dashboard/internal/pipeline"
	"github.com/couchcryptid/berlin-dashboard/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var fetcher pipeline.FeedFetcher
	if cfg.FeedFile != "" {
		fetcher = lageso.FileSource{Path: cfg.FeedFile}
		logger.Info("using local feed file", "path", cfg.FeedFile)
	} else {
		fetcher = lageso.NewClient(cfg.FeedURL, cfg.FeedTimeout, logger)
		logger.Info("using remote feed", "url", cfg.FeedURL, "timeout", cfg.FeedTimeout, "retries", cfg.FeedRetries)
	}

	p := pipeline.New(fetcher, logger, metrics, pipeline.Options{
		Retries:        cfg.FeedRetries,
		InitialBackoff: cfg.FeedRetryBackoff,
	})

	defaults := httpadapter.Defaults{Entities: cfg.DefaultDistricts, WindowDays: cfg.DefaultWindowDays}
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, render.New(cfg.ChartWidth, cfg.ChartHeight), defaults, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Load the feed once so readiness reflects upstream availability before the first visitor.
	go func() {
		if _, _, err := p.Derive(ctx, []string{domain.AllBerlin}); err != nil {
			logger.Warn("initial feed load failed", "error", err)
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
