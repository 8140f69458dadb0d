// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a wallet is created without a currency code.
const DefaultCurrency = "USD"

// Wallet is a user-owned financial account. Balance is a cache of the signed sum of the
// wallet's ledger entries and only changes through ledger operations.
type Wallet struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Currency    string
	Description string
	Balance     decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewWallet creates a new Wallet entity with a zero balance.
func NewWallet(userID uuid.UUID, name, currency, description string) *Wallet {
	now := time.Now().UTC()
	if currency == "" {
		currency = DefaultCurrency
	}

	return &Wallet{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Currency:    currency,
		Description: description,
		Balance:     decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsOwnedBy reports whether the wallet belongs to the given user.
func (w *Wallet) IsOwnedBy(userID uuid.UUID) bool {
	return w.UserID == userID
}

// BalanceCheck is the result of comparing a wallet's cached balance with its ledger.
type BalanceCheck struct {
	WalletID      uuid.UUID
	CachedBalance decimal.Decimal
	LedgerBalance decimal.Decimal
}

// Consistent reports whether the cached balance equals the ledger sum.
func (c *BalanceCheck) Consistent() bool {
	return c.CachedBalance.Equal(c.LedgerBalance)
}

// Drift returns cached minus ledger balance.
func (c *BalanceCheck) Drift() decimal.Decimal {
	return c.CachedBalance.Sub(c.LedgerBalance)
}
