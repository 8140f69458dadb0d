// Package main is the entry point for the Budget Tracker API server.
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

	"github.com/joho/godotenv"

	"github.com/budget-tracker/backend/config"
	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/infra/db"
	"github.com/budget-tracker/backend/internal/infra/dependency"
	"github.com/budget-tracker/backend/internal/infra/logging"
	"github.com/budget-tracker/backend/internal/integration/scheduler"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	slog.Info("Starting Budget Tracker API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := database.Migrate(); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed successfully")

	externals, err := dependency.ConnectExternals(ctx, cfg)
	if err != nil {
		slog.Error("Failed to connect external services", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := externals.Close(); err != nil {
			slog.Error("Failed to close external connections", "error", err)
		}
	}()

	injector := dependency.NewInjector(cfg, database.DB(), externals, adapter.SystemClock{})
	engine := injector.Router.Setup(cfg.Server.Environment)

	if cfg.Recurring.WorkerEnabled {
		worker := scheduler.NewWorker(injector.BatchRunner, scheduler.WorkerConfig{
			Interval: cfg.Recurring.Interval,
			Timeout:  cfg.Recurring.LockTTL,
		})
		go worker.Start(ctx)
		slog.Info("In-process recurring worker started", "interval", cfg.Recurring.Interval)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return
	}

	slog.Info("Server exited properly")
}
