// Package scheduler runs the recurring batch on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/budget-tracker/backend/internal/application/usecase/recurrence"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// BatchRunner runs one recurring batch.
type BatchRunner interface {
	Execute(ctx context.Context) (*recurrence.RunDueRecurrencesOutput, error)
}

// Worker triggers the batch runner periodically.
type Worker struct {
	runner   BatchRunner
	interval time.Duration
	timeout  time.Duration
}

// WorkerConfig holds configuration for the recurring worker.
type WorkerConfig struct {
	Interval time.Duration
	// Timeout bounds a single run. Zero means no limit beyond the worker's context.
	Timeout time.Duration
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Interval: time.Hour,
		Timeout:  10 * time.Minute,
	}
}

// NewWorker creates a new recurring worker.
func NewWorker(runner BatchRunner, config WorkerConfig) *Worker {
	if config.Interval <= 0 {
		config.Interval = DefaultWorkerConfig().Interval
	}
	return &Worker{
		runner:   runner,
		interval: config.Interval,
		timeout:  config.Timeout,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Recurring worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run immediately on start, then on ticker
	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Recurring worker shutting down")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce runs a single batch and logs its outcome.
func (w *Worker) RunOnce(ctx context.Context) {
	runCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := w.runner.Execute(runCtx)
	if err != nil {
		if errors.Is(err, domainerror.ErrBatchAlreadyRunning) {
			slog.Info("Recurring batch skipped, another instance holds the lock")
			return
		}
		slog.Error("Recurring batch failed", "error", err)
		return
	}

	slog.Info("Recurring batch finished",
		"processed", out.ProcessedCount,
		"failed", out.FailedCount,
		"duration", time.Since(start),
	)
}
