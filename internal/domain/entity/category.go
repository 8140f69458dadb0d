// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType represents the type of category. It shares its values with TransactionType
// because a category only classifies entries of its own direction.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// IsValid reports whether the category type is INCOME or EXPENSE.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Matches reports whether entries of the given transaction type may use this category type.
func (t CategoryType) Matches(transactionType TransactionType) bool {
	return string(t) == string(transactionType)
}

// Category classifies ledger entries. It belongs to exactly one wallet and
// (wallet, name, type) is unique.
type Category struct {
	ID        uuid.UUID
	WalletID  uuid.UUID
	Name      string
	Type      CategoryType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory creates a new Category entity.
func NewCategory(walletID uuid.UUID, name string, categoryType CategoryType) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:        uuid.New(),
		WalletID:  walletID,
		Name:      name,
		Type:      categoryType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DefaultCategory is a category seeded into every new wallet.
type DefaultCategory struct {
	Name string
	Type CategoryType
}

// DefaultCategories are created alongside every new wallet.
var DefaultCategories = []DefaultCategory{
	{Name: "Groceries", Type: CategoryTypeExpense},
	{Name: "Rent / Mortgage", Type: CategoryTypeExpense},
	{Name: "Utilities", Type: CategoryTypeExpense},
	{Name: "Transportation", Type: CategoryTypeExpense},
	{Name: "Dining Out", Type: CategoryTypeExpense},
	{Name: "Healthcare", Type: CategoryTypeExpense},
	{Name: "Entertainment", Type: CategoryTypeExpense},
	{Name: "Clothing & Accessories", Type: CategoryTypeExpense},
	{Name: "Household Supplies", Type: CategoryTypeExpense},
	{Name: "Insurance", Type: CategoryTypeExpense},
	{Name: "Education", Type: CategoryTypeExpense},
	{Name: "Travel", Type: CategoryTypeExpense},
	{Name: "Debt Payments", Type: CategoryTypeExpense},

	{Name: "Salary", Type: CategoryTypeIncome},
	{Name: "Freelance Work", Type: CategoryTypeIncome},
	{Name: "Business Income", Type: CategoryTypeIncome},
	{Name: "Investments", Type: CategoryTypeIncome},
	{Name: "Rental Income", Type: CategoryTypeIncome},
	{Name: "Gifts", Type: CategoryTypeIncome},
	{Name: "Refunds & Reimbursements", Type: CategoryTypeIncome},
}
