// Package main runs the recurring batch without the HTTP API. With -once it applies
// the due rules a single time and exits, which suits an external cron; otherwise it
// keeps running on RECURRING_WORKER_INTERVAL.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/budget-tracker/backend/config"
	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/infra/db"
	"github.com/budget-tracker/backend/internal/infra/dependency"
	"github.com/budget-tracker/backend/internal/infra/logging"
	"github.com/budget-tracker/backend/internal/integration/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single batch and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *once); err != nil {
		slog.Error("Recurring worker failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, once bool) error {
	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		return err
	}

	externals, err := dependency.ConnectExternals(ctx, cfg)
	if err != nil {
		return err
	}
	defer externals.Close()

	injector := dependency.NewInjector(cfg, database.DB(), externals, adapter.SystemClock{})

	if once {
		output, err := injector.BatchRunner.Execute(ctx)
		if err != nil {
			return err
		}
		slog.Info("Recurring batch finished", "processed", output.ProcessedCount, "failed", output.FailedCount)
		return nil
	}

	worker := scheduler.NewWorker(injector.BatchRunner, scheduler.WorkerConfig{
		Interval: cfg.Recurring.Interval,
		Timeout:  cfg.Recurring.LockTTL,
	})
	slog.Info("Recurring worker started", "interval", cfg.Recurring.Interval)
	worker.Start(ctx)
	slog.Info("Recurring worker stopped")
	return nil
}
