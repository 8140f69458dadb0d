package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// TransactionFilter defines filter options for listing ledger entries of a wallet.
type TransactionFilter struct {
	WalletID         uuid.UUID
	StartDate        *time.Time
	EndDate          *time.Time
	Type             *entity.TransactionType
	CategoryID       *uuid.UUID
	RecurrenceRuleID *uuid.UUID
}

// Pagination defines pagination options.
type Pagination struct {
	Page  int
	Limit int
}

// TransactionRepository defines the interface for ledger persistence operations.
// Every mutation adjusts the owning wallet's balance by the signed amount in the
// same unit of work as the entry itself.
type TransactionRepository interface {
	// CreateWithBalance inserts an entry and applies its signed amount to the wallet balance.
	CreateWithBalance(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves an entry by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByFilter retrieves entries based on filter criteria with pagination.
	FindByFilter(ctx context.Context, filter TransactionFilter, pagination Pagination) (*entity.TransactionListResult, error)

	// UpdateWithBalance saves an entry, reverting its previous signed amount and applying the new one.
	UpdateWithBalance(ctx context.Context, transaction *entity.Transaction) error

	// DeleteWithBalance soft-deletes an entry and reverts its signed amount.
	DeleteWithBalance(ctx context.Context, id uuid.UUID) error

	// SignedSumByWallet returns the sum of signed amounts of all live entries of a wallet.
	SignedSumByWallet(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error)
}
