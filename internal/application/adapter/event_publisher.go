package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurrenceAppliedEvent is published after a rule occurrence has been committed.
type RecurrenceAppliedEvent struct {
	RuleID        uuid.UUID       `json:"ruleId"`
	WalletID      uuid.UUID       `json:"walletId"`
	UserID        uuid.UUID       `json:"userId"`
	TransactionID uuid.UUID       `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Date          time.Time       `json:"date"`
	NextRunAt     *time.Time      `json:"nextRunAt"`
	IsActive      bool            `json:"isActive"`
	AppliedAt     time.Time       `json:"appliedAt"`
}

// EventPublisher defines the interface for publishing domain events.
type EventPublisher interface {
	// PublishRecurrenceApplied publishes a recurrence.applied event.
	PublishRecurrenceApplied(ctx context.Context, event RecurrenceAppliedEvent) error
}
