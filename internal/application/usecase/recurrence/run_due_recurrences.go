package recurrence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// DefaultBatchLockKey is the Redis key guarding a batch run.
const DefaultBatchLockKey = "locks:recurring-batch"

// RunDueRecurrencesConfig holds configuration for the batch runner.
type RunDueRecurrencesConfig struct {
	Concurrency int
	LockKey     string
	LockTTL     time.Duration
}

// RunDueRecurrencesOutput summarizes one batch run.
type RunDueRecurrencesOutput struct {
	ProcessedCount int
	DueCount       int
	SkippedCount   int
	FailedCount    int
	RanAt          time.Time
}

// RunDueRecurrencesUseCase applies every due rule once. Per-rule failures are
// logged and counted; only a failing scan or lock aborts the run.
type RunDueRecurrencesUseCase struct {
	recurrenceRepo adapter.RecurrenceRepository
	applier        *ApplyRecurrenceUseCase
	locker         adapter.Locker
	clock          adapter.Clock
	config         RunDueRecurrencesConfig
}

// NewRunDueRecurrencesUseCase creates a new RunDueRecurrencesUseCase instance.
// locker may be nil, in which case concurrent runs rely on the per-rule guard alone.
func NewRunDueRecurrencesUseCase(
	recurrenceRepo adapter.RecurrenceRepository,
	applier *ApplyRecurrenceUseCase,
	locker adapter.Locker,
	clock adapter.Clock,
	config RunDueRecurrencesConfig,
) *RunDueRecurrencesUseCase {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.LockKey == "" {
		config.LockKey = DefaultBatchLockKey
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 10 * time.Minute
	}

	return &RunDueRecurrencesUseCase{
		recurrenceRepo: recurrenceRepo,
		applier:        applier,
		locker:         locker,
		clock:          clock,
		config:         config,
	}
}

// Execute runs one batch.
func (uc *RunDueRecurrencesUseCase) Execute(ctx context.Context) (*RunDueRecurrencesOutput, error) {
	if uc.locker != nil {
		lock, acquired, err := uc.locker.TryAcquire(ctx, uc.config.LockKey, uc.config.LockTTL)
		if err != nil {
			return nil, domainerror.NewRecurrenceError(
				domainerror.ErrCodeStorageFailure,
				"failed to acquire batch lock",
				fmt.Errorf("%w: %w", domainerror.ErrStorageFailure, err),
			)
		}
		if !acquired {
			return nil, domainerror.NewRecurrenceError(
				domainerror.ErrCodeBatchAlreadyRunning,
				"another recurring batch is in progress",
				domainerror.ErrBatchAlreadyRunning,
			)
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				slog.WarnContext(ctx, "Failed to release batch lock", "error", err)
			}
		}()
	}

	now := uc.clock.Now()
	rules, err := uc.recurrenceRepo.FindDue(ctx, now)
	if err != nil {
		return nil, domainerror.NewRecurrenceError(
			domainerror.ErrCodeStorageFailure,
			"failed to find due recurrence rules",
			fmt.Errorf("%w: %w", domainerror.ErrStorageFailure, err),
		)
	}

	slog.InfoContext(ctx, "Processing due recurrence rules",
		"due", len(rules),
		"as_of", now.Format("2006-01-02"),
		"concurrency", uc.config.Concurrency,
	)

	var processed, skipped, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(uc.config.Concurrency)

	for _, rule := range rules {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			switch uc.applyOne(ctx, rule, now) {
			case outcomeApplied:
				processed.Add(1)
			case outcomeSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	output := &RunDueRecurrencesOutput{
		ProcessedCount: int(processed.Load()),
		DueCount:       len(rules),
		SkippedCount:   int(skipped.Load()),
		FailedCount:    int(failed.Load()),
		RanAt:          now,
	}

	if ctx.Err() != nil {
		slog.WarnContext(ctx, "Recurring batch interrupted", "error", ctx.Err())
	}

	slog.InfoContext(ctx, "Recurring batch complete",
		"processed", output.ProcessedCount,
		"due", output.DueCount,
		"skipped", output.SkippedCount,
		"failed", output.FailedCount,
	)

	return output, nil
}

type outcome int

const (
	outcomeApplied outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (uc *RunDueRecurrencesUseCase) applyOne(ctx context.Context, rule *entity.RecurrenceRule, now time.Time) outcome {
	logger := slog.With(
		"rule_id", rule.ID,
		"wallet_id", rule.WalletID,
	)

	out, err := uc.applier.Execute(ctx, ApplyRecurrenceInput{Rule: rule, AsOf: now})
	if err != nil {
		if errors.Is(err, domainerror.ErrRecurrenceAlreadyApplied) || errors.Is(err, domainerror.ErrRecurrenceNotDue) {
			logger.InfoContext(ctx, "Skipped recurrence rule", "reason", err)
			return outcomeSkipped
		}
		logger.ErrorContext(ctx, "Failed to apply recurrence rule", "error", err)
		return outcomeFailed
	}

	logger.DebugContext(ctx, "Applied recurrence rule",
		"transaction_id", out.Transaction.ID,
		"date", out.Transaction.Date.Format("2006-01-02"),
		"is_active", out.IsActive,
	)
	return outcomeApplied
}
