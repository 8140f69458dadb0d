package recurrence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// UpdateRecurrenceInput represents a partial rule update. Nil fields are left unchanged;
// the Clear flags remove optional values.
type UpdateRecurrenceInput struct {
	UserID          uuid.UUID
	RuleID          uuid.UUID
	Name            *string
	Amount          *decimal.Decimal
	TransactionType *entity.TransactionType
	Frequency       *valueobject.Frequency
	CategoryID      *uuid.UUID
	Description     *string
	EndDate         *time.Time
	ClearEndDate    bool
	CycleDayOfMonth *int
	ClearDayOfMonth bool
	CycleDayOfWeek  *int
	ClearDayOfWeek  bool
	IsActive        *bool
}

// UpdateRecurrenceOutput represents the output of a rule update.
type UpdateRecurrenceOutput struct {
	Rule *entity.RecurrenceRule
}

// UpdateRecurrenceUseCase edits a rule's definition and keeps its schedule coherent.
type UpdateRecurrenceUseCase struct {
	recurrenceRepo adapter.RecurrenceRepository
	walletRepo     adapter.WalletRepository
	categoryRepo   adapter.CategoryRepository
	clock          adapter.Clock
}

// NewUpdateRecurrenceUseCase creates a new UpdateRecurrenceUseCase instance.
func NewUpdateRecurrenceUseCase(
	recurrenceRepo adapter.RecurrenceRepository,
	walletRepo adapter.WalletRepository,
	categoryRepo adapter.CategoryRepository,
	clock adapter.Clock,
) *UpdateRecurrenceUseCase {
	return &UpdateRecurrenceUseCase{
		recurrenceRepo: recurrenceRepo,
		walletRepo:     walletRepo,
		categoryRepo:   categoryRepo,
		clock:          clock,
	}
}

// Execute applies the update. The next run is recomputed when the frequency or an
// anchor changes, or when a paused or exhausted rule is reactivated with a next run
// in the past.
func (uc *UpdateRecurrenceUseCase) Execute(ctx context.Context, input UpdateRecurrenceInput) (*UpdateRecurrenceOutput, error) {
	rule, err := findAccessibleRule(ctx, uc.recurrenceRepo, uc.walletRepo, input.RuleID, input.UserID, entity.SharePermissionEdit)
	if err != nil {
		return nil, err
	}

	expectedNextRunAt := rule.NextRunAt
	wasActive := rule.IsActive
	frequencyChanged := false
	anchorChanged := false

	if input.Name != nil {
		rule.Name = *input.Name
	}
	if input.Amount != nil {
		rule.Amount = *input.Amount
	}
	if input.TransactionType != nil {
		rule.TransactionType = *input.TransactionType
	}
	if input.Frequency != nil && *input.Frequency != rule.Frequency {
		rule.Frequency = *input.Frequency
		frequencyChanged = true
	}
	if input.CategoryID != nil {
		rule.CategoryID = *input.CategoryID
	}
	if input.Description != nil {
		rule.Description = *input.Description
	}

	switch {
	case input.ClearEndDate:
		rule.EndDate = nil
	case input.EndDate != nil:
		end := valueobject.StartOfDay(*input.EndDate)
		rule.EndDate = &end
	}

	switch {
	case input.ClearDayOfMonth:
		anchorChanged = anchorChanged || rule.CycleDayOfMonth != nil
		rule.CycleDayOfMonth = nil
	case input.CycleDayOfMonth != nil:
		anchorChanged = anchorChanged || !sameDay(rule.CycleDayOfMonth, *input.CycleDayOfMonth)
		v := *input.CycleDayOfMonth
		rule.CycleDayOfMonth = &v
	}

	switch {
	case input.ClearDayOfWeek:
		anchorChanged = anchorChanged || rule.CycleDayOfWeek != nil
		rule.CycleDayOfWeek = nil
	case input.CycleDayOfWeek != nil:
		anchorChanged = anchorChanged || !sameDay(rule.CycleDayOfWeek, *input.CycleDayOfWeek)
		v := *input.CycleDayOfWeek
		rule.CycleDayOfWeek = &v
	}

	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}

	def := ruleDefinition{
		name:            rule.Name,
		amount:          rule.Amount,
		transactionType: rule.TransactionType,
		frequency:       rule.Frequency,
		description:     rule.Description,
		startDate:       rule.StartDate,
		endDate:         rule.EndDate,
		cycleDayOfMonth: rule.CycleDayOfMonth,
		cycleDayOfWeek:  rule.CycleDayOfWeek,
	}
	if err := def.validate(); err != nil {
		return nil, err
	}

	if input.CategoryID != nil || input.TransactionType != nil {
		if err := requireMatchingCategory(ctx, uc.categoryRepo, rule.WalletID, rule.CategoryID, rule.TransactionType); err != nil {
			return nil, err
		}
	}

	now := uc.clock.Now()
	today := valueobject.StartOfDay(now)
	reactivated := !wasActive && rule.IsActive

	switch {
	case anchorChanged && rule.IsActive:
		// A new anchor only takes effect from today; the last run no longer dictates the cycle.
		next := rule.ComputeNextRun(nil, now)
		rule.NextRunAt = &next
	case anchorChanged:
		// Paused rules are re-anchored when they resume.
		rule.NextRunAt = nil
	case frequencyChanged:
		next := rule.ComputeNextRun(rule.LastRunAt, now)
		rule.NextRunAt = &next
	}

	// A resumed rule continues from today; periods missed while paused are not replayed.
	if reactivated && (rule.NextRunAt == nil || rule.NextRunAt.Before(today)) {
		next := rule.ComputeNextRun(rule.LastRunAt, now)
		if next.Before(today) {
			next = rule.ComputeNextRun(nil, now)
		}
		rule.NextRunAt = &next
	}

	if rule.IsActive && rule.NextRunAt != nil && rule.EndsBefore(*rule.NextRunAt) {
		rule.IsActive = false
		rule.NextRunAt = nil
	}

	rule.UpdatedAt = now

	if err := uc.recurrenceRepo.Update(ctx, rule, expectedNextRunAt); err != nil {
		if errors.Is(err, domainerror.ErrRecurrenceAlreadyApplied) {
			return nil, domainerror.NewRecurrenceError(
				domainerror.ErrCodeRecurrenceAlreadyApplied,
				"recurrence rule was applied concurrently, retry the update",
				err,
			)
		}
		if errors.Is(err, domainerror.ErrRecurrenceNotFound) {
			return nil, domainerror.NewRecurrenceError(
				domainerror.ErrCodeRecurrenceNotFound,
				"recurrence rule not found",
				err,
			)
		}
		return nil, fmt.Errorf("failed to update recurrence rule: %w", err)
	}

	return &UpdateRecurrenceOutput{Rule: rule}, nil
}

func sameDay(current *int, next int) bool {
	return current != nil && *current == next
}
