// Package main is the entry point for the Finwell analysis service.
// The service ingests pre-fetched market data, runs the analysis pipeline
// (indicators, fundamentals, market and sentiment, risk, recommendations)
// over symbol sets and stores the resulting reports.
//
// The application follows the same layering throughout:
// - Domain layer is pure (no infrastructure dependencies)
// - Dependency injection via DI container
// - Repository pattern for data access
// - HTTP handlers for API endpoints
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/finwell/internal/config"
	"github.com/aristath/finwell/internal/di"
	"github.com/aristath/finwell/internal/scheduler"
	"github.com/aristath/finwell/internal/server"
	"github.com/aristath/finwell/pkg/logger"
)

// shutdownTimeout bounds the drain of in-flight HTTP requests
const shutdownTimeout = 10 * time.Second

// main initializes and runs the service.
//
// Startup sequence:
// 1. Loads configuration from environment variables (.env supported)
// 2. Initializes structured logging
// 3. Wires all dependencies via DI container (databases, repositories, services, jobs)
// 4. Starts the cron scheduler (report retention, database checks)
// 5. Starts the HTTP server
// 6. Waits for shutdown signal and performs graceful shutdown
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty || cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("workers", cfg.Analysis.Workers).
		Msg("Starting Finwell")

	sched := scheduler.New(log)

	container, jobs, err := di.Wire(cfg, sched, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		DataDir:   cfg.DataDir,
		Container: container,
		Jobs:      jobs,
	})

	sched.Start()

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal or a fatal server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-serverErr:
		log.Error().Err(err).Msg("HTTP server failed")
	}

	// Stop scheduler first so no job touches a closing database
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	container.Close()
	log.Info().Msg("Server stopped")
}
