package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(year int, month time.Month, d int) *time.Time {
	v := day(year, month, d)
	return &v
}

func newRule(frequency valueobject.Frequency, next time.Time) *RecurrenceRule {
	return &RecurrenceRule{
		ID:              uuid.New(),
		WalletID:        uuid.New(),
		UserID:          uuid.New(),
		Name:            "Gym",
		Amount:          decimal.RequireFromString("10.00"),
		TransactionType: TransactionTypeExpense,
		Frequency:       frequency,
		CategoryID:      uuid.New(),
		StartDate:       day(2024, time.June, 1),
		IsActive:        true,
		NextRunAt:       &next,
	}
}

var now = time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)

func TestRecurrenceRule_Advance(t *testing.T) {
	t.Run("uses applied date as the new anchor", func(t *testing.T) {
		rule := newRule(valueobject.FrequencyMonthly, day(2024, time.June, 10))

		adv := rule.Advance(now)

		if !adv.LastRunAt.Equal(day(2024, time.June, 10)) {
			t.Errorf("expected last run 2024-06-10, got %s", adv.LastRunAt)
		}
		if adv.NextRunAt == nil || !adv.NextRunAt.Equal(day(2024, time.July, 10)) {
			t.Errorf("expected next run 2024-07-10, got %v", adv.NextRunAt)
		}
		if !adv.IsActive {
			t.Error("expected rule to stay active")
		}
	})

	t.Run("deactivates when next run passes end date", func(t *testing.T) {
		rule := newRule(valueobject.FrequencyWeekly, day(2024, time.June, 15))
		rule.EndDate = dayPtr(2024, time.June, 20)

		adv := rule.Advance(now)

		if adv.NextRunAt != nil {
			t.Errorf("expected next run to be cleared, got %s", adv.NextRunAt)
		}
		if adv.IsActive {
			t.Error("expected rule to be deactivated")
		}
		if !adv.LastRunAt.Equal(day(2024, time.June, 15)) {
			t.Errorf("expected last run 2024-06-15, got %s", adv.LastRunAt)
		}
	})

	t.Run("continues when next run equals end date", func(t *testing.T) {
		rule := newRule(valueobject.FrequencyDaily, day(2024, time.June, 15))
		rule.EndDate = dayPtr(2024, time.June, 16)

		adv := rule.Advance(now)

		if adv.NextRunAt == nil || !adv.NextRunAt.Equal(day(2024, time.June, 16)) {
			t.Errorf("expected next run 2024-06-16, got %v", adv.NextRunAt)
		}
		if !adv.IsActive {
			t.Error("expected rule to stay active")
		}
	})

	t.Run("late batch keeps schedule anchored on due date", func(t *testing.T) {
		rule := newRule(valueobject.FrequencyDaily, day(2024, time.June, 10))

		adv := rule.Advance(now)

		if adv.NextRunAt == nil || !adv.NextRunAt.Equal(day(2024, time.June, 11)) {
			t.Errorf("expected next run 2024-06-11, got %v", adv.NextRunAt)
		}
	})
}

func TestRecurrenceRule_IsDue(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *RecurrenceRule)
		want   bool
	}{
		{"due today", func(r *RecurrenceRule) {}, true},
		{"inactive", func(r *RecurrenceRule) { r.IsActive = false }, false},
		{"no next run", func(r *RecurrenceRule) { r.NextRunAt = nil }, false},
		{"next run tomorrow", func(r *RecurrenceRule) { r.NextRunAt = dayPtr(2024, time.June, 16) }, false},
		{"start in future", func(r *RecurrenceRule) { r.StartDate = day(2024, time.June, 20) }, false},
		{"ended yesterday", func(r *RecurrenceRule) { r.EndDate = dayPtr(2024, time.June, 14) }, false},
		{"ends today", func(r *RecurrenceRule) { r.EndDate = dayPtr(2024, time.June, 15) }, true},
		{"overdue", func(r *RecurrenceRule) { r.NextRunAt = dayPtr(2024, time.June, 1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := newRule(valueobject.FrequencyDaily, day(2024, time.June, 15))
			tt.mutate(rule)

			if got := rule.IsDue(now); got != tt.want {
				t.Errorf("expected IsDue=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestRecurrenceRule_LedgerDescription(t *testing.T) {
	rule := newRule(valueobject.FrequencyDaily, day(2024, time.June, 15))

	if got := rule.LedgerDescription(); got != "Recurring: Gym" {
		t.Errorf("expected default description, got %q", got)
	}

	rule.Description = "Monthly membership"
	if got := rule.LedgerDescription(); got != "Monthly membership" {
		t.Errorf("expected rule description, got %q", got)
	}
}

func TestRecurrenceRule_BalanceDelta(t *testing.T) {
	rule := newRule(valueobject.FrequencyDaily, day(2024, time.June, 15))

	if got := rule.BalanceDelta(); !got.Equal(decimal.RequireFromString("-10")) {
		t.Errorf("expected -10 for expense, got %s", got)
	}

	rule.TransactionType = TransactionTypeIncome
	if got := rule.BalanceDelta(); !got.Equal(decimal.RequireFromString("10")) {
		t.Errorf("expected 10 for income, got %s", got)
	}
}

func TestNewRecurrenceRule_ComputesFirstRun(t *testing.T) {
	dom := 25
	rule := NewRecurrenceRule(
		uuid.New(), uuid.New(), "Rent", decimal.NewFromInt(1200), TransactionTypeExpense,
		valueobject.FrequencyMonthly, uuid.New(), "", day(2024, time.June, 1), nil, &dom, nil, now,
	)

	if !rule.IsActive {
		t.Error("expected new rule to be active")
	}
	if rule.NextRunAt == nil || !rule.NextRunAt.Equal(day(2024, time.June, 25)) {
		t.Errorf("expected first run 2024-06-25, got %v", rule.NextRunAt)
	}
	if rule.LastRunAt != nil {
		t.Errorf("expected no last run, got %s", rule.LastRunAt)
	}
}
