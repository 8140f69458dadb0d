// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of money movement of a ledger entry.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid reports whether the transaction type is INCOME or EXPENSE.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// SignedAmount returns the balance delta produced by an amount of the given type:
// +amount for income, -amount for expense.
func SignedAmount(transactionType TransactionType, amount decimal.Decimal) decimal.Decimal {
	if transactionType == TransactionTypeIncome {
		return amount
	}
	return amount.Neg()
}

// Transaction is a ledger entry: an immutable record of money moving in or out of a wallet.
type Transaction struct {
	ID               uuid.UUID
	WalletID         uuid.UUID
	UserID           uuid.UUID       // User who recorded the entry (the rule owner for generated entries)
	Amount           decimal.Decimal // Always positive, direction comes from Type
	Type             TransactionType
	CategoryID       uuid.UUID
	Description      string
	Date             time.Time
	RecurrenceRuleID *uuid.UUID // Set when generated by a recurrence rule
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time // Soft-delete support
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	walletID uuid.UUID,
	userID uuid.UUID,
	amount decimal.Decimal,
	transactionType TransactionType,
	categoryID uuid.UUID,
	description string,
	date time.Time,
	recurrenceRuleID *uuid.UUID,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:               uuid.New(),
		WalletID:         walletID,
		UserID:           userID,
		Amount:           amount,
		Type:             transactionType,
		CategoryID:       categoryID,
		Description:      description,
		Date:             date,
		RecurrenceRuleID: recurrenceRuleID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// BalanceDelta returns the change this entry applies to its wallet's balance.
func (t *Transaction) BalanceDelta() decimal.Decimal {
	return SignedAmount(t.Type, t.Amount)
}

// TransactionListResult represents a page of ledger entries.
type TransactionListResult struct {
	Transactions []*Transaction
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}
