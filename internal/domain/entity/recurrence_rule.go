// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// RecurringDescriptionPrefix prefixes the description of generated entries when the
// rule has no description of its own.
const RecurringDescriptionPrefix = "Recurring: "

// RecurrenceRule is a template that materializes ledger entries on a schedule
// (subscriptions, salaries, rent).
type RecurrenceRule struct {
	ID              uuid.UUID
	WalletID        uuid.UUID
	UserID          uuid.UUID
	Name            string
	Amount          decimal.Decimal // Always positive, direction comes from TransactionType
	TransactionType TransactionType
	Frequency       valueobject.Frequency
	CategoryID      uuid.UUID
	Description     string
	StartDate       time.Time
	EndDate         *time.Time
	IsActive        bool
	CycleDayOfMonth *int
	CycleDayOfWeek  *int
	LastRunAt       *time.Time // Date of the last materialized occurrence
	NextRunAt       *time.Time // Next due date, nil once the rule is exhausted
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewRecurrenceRule creates an active rule whose first due date is computed from its
// start date relative to now.
func NewRecurrenceRule(
	walletID uuid.UUID,
	userID uuid.UUID,
	name string,
	amount decimal.Decimal,
	transactionType TransactionType,
	frequency valueobject.Frequency,
	categoryID uuid.UUID,
	description string,
	startDate time.Time,
	endDate *time.Time,
	cycleDayOfMonth *int,
	cycleDayOfWeek *int,
	now time.Time,
) *RecurrenceRule {
	createdAt := time.Now().UTC()

	rule := &RecurrenceRule{
		ID:              uuid.New(),
		WalletID:        walletID,
		UserID:          userID,
		Name:            name,
		Amount:          amount,
		TransactionType: transactionType,
		Frequency:       frequency,
		CategoryID:      categoryID,
		Description:     description,
		StartDate:       valueobject.StartOfDay(startDate),
		IsActive:        true,
		CycleDayOfMonth: cycleDayOfMonth,
		CycleDayOfWeek:  cycleDayOfWeek,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	if endDate != nil {
		end := valueobject.StartOfDay(*endDate)
		rule.EndDate = &end
	}

	next := rule.ComputeNextRun(nil, now)
	rule.NextRunAt = &next

	return rule
}

// ScheduleInput returns the schedule parameters of the rule anchored at lastRunAt.
func (r *RecurrenceRule) ScheduleInput(lastRunAt *time.Time) valueobject.ScheduleInput {
	return valueobject.ScheduleInput{
		Frequency:       r.Frequency,
		StartDate:       r.StartDate,
		LastRunAt:       lastRunAt,
		CycleDayOfMonth: r.CycleDayOfMonth,
		CycleDayOfWeek:  r.CycleDayOfWeek,
	}
}

// ComputeNextRun returns the rule's next due date anchored at lastRunAt.
func (r *RecurrenceRule) ComputeNextRun(lastRunAt *time.Time, now time.Time) time.Time {
	return valueobject.NextRun(r.ScheduleInput(lastRunAt), now)
}

// EndsBefore reports whether the rule's end date lies before the given day.
func (r *RecurrenceRule) EndsBefore(day time.Time) bool {
	if r.EndDate == nil {
		return false
	}
	return valueobject.StartOfDay(*r.EndDate).Before(valueobject.StartOfDay(day))
}

// IsDue reports whether the rule should be applied as of the given day. This mirrors
// the predicate used by the repository scanner.
func (r *RecurrenceRule) IsDue(asOf time.Time) bool {
	day := valueobject.StartOfDay(asOf)
	if !r.IsActive || r.NextRunAt == nil {
		return false
	}
	if valueobject.StartOfDay(r.StartDate).After(day) {
		return false
	}
	if valueobject.StartOfDay(*r.NextRunAt).After(day) {
		return false
	}
	return !r.EndsBefore(day)
}

// LedgerDescription returns the description given to generated entries.
func (r *RecurrenceRule) LedgerDescription() string {
	if r.Description != "" {
		return r.Description
	}
	return RecurringDescriptionPrefix + r.Name
}

// BalanceDelta returns the change one occurrence applies to the wallet's balance.
func (r *RecurrenceRule) BalanceDelta() decimal.Decimal {
	return SignedAmount(r.TransactionType, r.Amount)
}

// ScheduleAdvance is the schedule state of a rule after one occurrence has been applied.
type ScheduleAdvance struct {
	LastRunAt time.Time  // The occurrence just applied
	NextRunAt *time.Time // nil when the rule is exhausted
	IsActive  bool
}

// Advance computes the schedule state after the occurrence at NextRunAt is applied.
// The applied date becomes the new anchor; if the following date would pass the end
// date the rule is deactivated and its next run cleared. Callers must ensure NextRunAt
// is set.
func (r *RecurrenceRule) Advance(now time.Time) ScheduleAdvance {
	applied := valueobject.StartOfDay(*r.NextRunAt)
	next := r.ComputeNextRun(&applied, now)

	if r.EndsBefore(next) {
		return ScheduleAdvance{LastRunAt: applied, NextRunAt: nil, IsActive: false}
	}
	return ScheduleAdvance{LastRunAt: applied, NextRunAt: &next, IsActive: r.IsActive}
}

// RecurrenceRuleListResult represents a page of recurrence rules.
type RecurrenceRuleListResult struct {
	Rules      []*RecurrenceRule
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
