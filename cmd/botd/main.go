// Package main is the entry point for the forecastbot daemon.
//
// It loads configuration, restores tracked forecasts from durable storage,
// wires the weather provider (circuit breaker plus outbound rate limiter)
// into the tracker service, and serves the command surface over HTTP.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM);
// the store is persisted one final time before exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forecastbot/internal/advisory"
	"forecastbot/internal/api"
	"forecastbot/internal/commands"
	"forecastbot/internal/config"
	"forecastbot/internal/provider"
	"forecastbot/internal/store"
	"forecastbot/internal/tracker"
	"forecastbot/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("forecastbot starting",
		"environment", cfg.Environment,
		"service", cfg.Service,
		"port", cfg.Server.Port,
		"store_path", cfg.Store.Path,
	)

	// Restore tracked state. Corruption degrades to an empty store inside
	// Load, so startup never fails on a bad file.
	st := store.NewForecastStore(cfg.Store.Path, logger)
	st.Load()

	// Outbound weather calls: API client with circuit breaker, wrapped in a
	// token-bucket throttle so refresh fan-out stays within the plan budget.
	var weather types.WeatherProvider = provider.NewWeatherAPIClient(
		cfg.Weather.APIKey,
		cfg.Weather.BaseURL,
		cfg.Weather.FetchTimeout,
	)
	weather = provider.NewThrottled(weather, cfg.Weather.RateLimitPerSec, cfg.Weather.RateLimitBurst)

	engine := advisory.NewEngine(cfg.Advisory)

	svc := tracker.NewService(
		st,
		weather,
		engine,
		logger,
		types.RealClock{},
		cfg.Weather.HorizonDays,
		cfg.Weather.RefreshConcurrency,
	)

	handler := commands.NewHandler(svc, logger)
	srv := api.NewServer(handler, logger)

	return runHTTPServer(srv, svc, cfg, logger)
}

// runHTTPServer starts the command surface with graceful shutdown. The store
// is persisted after the listener drains so the final in-memory state
// survives restarts.
func runHTTPServer(srv *api.Server, svc *tracker.Service, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := svc.Persist(); err != nil {
		logger.Error("final store persist failed", "error", err)
		return fmt.Errorf("persisting store on shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	})
	return slog.New(handler)
}
