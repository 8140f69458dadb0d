package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// RecurrenceApplication is everything one occurrence of a rule writes to storage.
type RecurrenceApplication struct {
	RuleID   uuid.UUID
	WalletID uuid.UUID

	// ExpectedNextRunAt is the rule's next run as read by the caller. The rule is only
	// advanced if it still holds this value.
	ExpectedNextRunAt time.Time

	Entry        *entity.Transaction
	BalanceDelta decimal.Decimal
	Advance      entity.ScheduleAdvance

	// AppliedAt stamps updated_at on the wallet and the rule.
	AppliedAt time.Time
}

// RecurrenceRepository defines the interface for recurrence rule persistence operations.
type RecurrenceRepository interface {
	// Create creates a new rule in the database.
	Create(ctx context.Context, rule *entity.RecurrenceRule) error

	// FindByID retrieves a rule by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RecurrenceRule, error)

	// FindByWallet retrieves the rules of a wallet with pagination.
	FindByWallet(ctx context.Context, walletID uuid.UUID, pagination Pagination) (*entity.RecurrenceRuleListResult, error)

	// Update saves a rule's definition and schedule state. It fails with
	// ErrRecurrenceAlreadyApplied when the stored next run no longer equals
	// expectedNextRunAt, so an edit never rewinds a schedule advanced meanwhile.
	Update(ctx context.Context, rule *entity.RecurrenceRule, expectedNextRunAt *time.Time) error

	// Delete removes a rule. Entries it generated keep their back-reference cleared.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindDue retrieves active rules whose next run is at or before asOf (day
	// granularity) and whose end date has not passed, ordered by ID.
	FindDue(ctx context.Context, asOf time.Time) ([]*entity.RecurrenceRule, error)

	// ApplyAtomically inserts the entry, adjusts the wallet balance and advances the
	// rule in a single unit of work. Nothing is persisted when it returns an error.
	ApplyAtomically(ctx context.Context, application *RecurrenceApplication) error
}
