// Package recurrence contains the use cases that manage recurrence rules and
// materialize their occurrences into the ledger.
package recurrence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// ApplyRecurrenceInput represents the input for applying one occurrence of a rule.
type ApplyRecurrenceInput struct {
	Rule *entity.RecurrenceRule
	// AsOf is the processing time. Zero means the clock's current time.
	AsOf time.Time
}

// ApplyRecurrenceOutput represents the output of a successful application.
type ApplyRecurrenceOutput struct {
	Transaction *entity.Transaction
	LastRunAt   time.Time
	NextRunAt   *time.Time
	IsActive    bool
}

// ApplyRecurrenceUseCase writes the due occurrence of a rule as a ledger entry,
// moves the wallet balance and advances the rule, all in one unit of work.
type ApplyRecurrenceUseCase struct {
	recurrenceRepo adapter.RecurrenceRepository
	publisher      adapter.EventPublisher
	clock          adapter.Clock
}

// NewApplyRecurrenceUseCase creates a new ApplyRecurrenceUseCase instance.
func NewApplyRecurrenceUseCase(
	recurrenceRepo adapter.RecurrenceRepository,
	publisher adapter.EventPublisher,
	clock adapter.Clock,
) *ApplyRecurrenceUseCase {
	return &ApplyRecurrenceUseCase{
		recurrenceRepo: recurrenceRepo,
		publisher:      publisher,
		clock:          clock,
	}
}

// Execute applies the rule's pending occurrence. A rule that is not due is reported
// with ErrRecurrenceNotDue and left untouched.
func (uc *ApplyRecurrenceUseCase) Execute(ctx context.Context, input ApplyRecurrenceInput) (*ApplyRecurrenceOutput, error) {
	rule := input.Rule
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = uc.clock.Now()
	}

	if !rule.IsDue(asOf) {
		return nil, domainerror.NewRecurrenceError(
			domainerror.ErrCodeRecurrenceNotDue,
			"recurrence rule is not due",
			domainerror.ErrRecurrenceNotDue,
		)
	}

	appliedAt := uc.clock.Now().UTC()
	dueDate := valueobject.StartOfDay(*rule.NextRunAt)
	entry := entity.NewTransaction(
		rule.WalletID,
		rule.UserID,
		rule.Amount,
		rule.TransactionType,
		rule.CategoryID,
		rule.LedgerDescription(),
		dueDate,
		&rule.ID,
	)
	entry.CreatedAt = appliedAt
	entry.UpdatedAt = appliedAt
	advance := rule.Advance(asOf)

	application := &adapter.RecurrenceApplication{
		RuleID:            rule.ID,
		WalletID:          rule.WalletID,
		ExpectedNextRunAt: dueDate,
		Entry:             entry,
		BalanceDelta:      rule.BalanceDelta(),
		Advance:           advance,
		AppliedAt:         appliedAt,
	}

	if err := uc.recurrenceRepo.ApplyAtomically(ctx, application); err != nil {
		return nil, classifyApplyError(err)
	}

	uc.publish(ctx, rule, entry, advance, appliedAt)

	return &ApplyRecurrenceOutput{
		Transaction: entry,
		LastRunAt:   advance.LastRunAt,
		NextRunAt:   advance.NextRunAt,
		IsActive:    advance.IsActive,
	}, nil
}

// publish emits the applied event. The ledger is already committed, so a broker
// failure is only logged.
func (uc *ApplyRecurrenceUseCase) publish(ctx context.Context, rule *entity.RecurrenceRule, entry *entity.Transaction, advance entity.ScheduleAdvance, appliedAt time.Time) {
	if uc.publisher == nil {
		return
	}

	err := uc.publisher.PublishRecurrenceApplied(ctx, adapter.RecurrenceAppliedEvent{
		RuleID:        rule.ID,
		WalletID:      rule.WalletID,
		UserID:        rule.UserID,
		TransactionID: entry.ID,
		Amount:        entry.Amount,
		Type:          string(entry.Type),
		Date:          entry.Date,
		NextRunAt:     advance.NextRunAt,
		IsActive:      advance.IsActive,
		AppliedAt:     appliedAt,
	})
	if err != nil {
		slog.WarnContext(ctx, "Failed to publish recurrence event",
			"rule_id", rule.ID,
			"transaction_id", entry.ID,
			"error", err,
		)
	}
}

// classifyApplyError maps repository failures onto the recurrence error taxonomy.
// Missing wallets and categories keep their own sentinel.
func classifyApplyError(err error) error {
	switch {
	case errors.Is(err, domainerror.ErrRecurrenceAlreadyApplied):
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeRecurrenceAlreadyApplied,
			"recurrence rule was already applied by another run",
			err,
		)
	case errors.Is(err, domainerror.ErrLedgerInvariantViolation):
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeLedgerInvariantViolation,
			"ledger invariant violated, application rolled back",
			err,
		)
	case errors.Is(err, domainerror.ErrRecurrenceNotFound):
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeRecurrenceNotFound,
			"recurrence rule not found",
			err,
		)
	case errors.Is(err, domainerror.ErrWalletNotFound),
		errors.Is(err, domainerror.ErrCategoryNotFound):
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeRecCategoryNotFound,
			"referenced wallet or category not found",
			err,
		)
	default:
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeStorageFailure,
			"failed to apply recurrence rule",
			fmt.Errorf("%w: %w", domainerror.ErrStorageFailure, err),
		)
	}
}
