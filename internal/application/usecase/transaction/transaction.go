// Package transaction contains transaction-related use cases. Every mutation goes
// through the ledger repository so the wallet balance moves with the entry.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
const MaxDescriptionLength = 255

// TransactionOutput represents a single ledger entry in the output.
type TransactionOutput struct {
	ID               uuid.UUID
	WalletID         uuid.UUID
	UserID           uuid.UUID
	Date             time.Time
	Description      string
	Amount           decimal.Decimal
	Type             entity.TransactionType
	CategoryID       uuid.UUID
	Category         *CategoryOutput
	RecurrenceRuleID *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CategoryOutput represents category information in transaction output.
type CategoryOutput struct {
	ID   uuid.UUID
	Name string
	Type entity.CategoryType
}

func toOutput(t *entity.Transaction, category *entity.Category) *TransactionOutput {
	out := &TransactionOutput{
		ID:               t.ID,
		WalletID:         t.WalletID,
		UserID:           t.UserID,
		Date:             t.Date,
		Description:      t.Description,
		Amount:           t.Amount,
		Type:             t.Type,
		CategoryID:       t.CategoryID,
		RecurrenceRuleID: t.RecurrenceRuleID,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if category != nil {
		out.Category = &CategoryOutput{
			ID:   category.ID,
			Name: category.Name,
			Type: category.Type,
		}
	}
	return out
}

// loadCategory returns the wallet's category and verifies it classifies entries of the given type.
func loadCategory(
	ctx context.Context,
	categoryRepo adapter.CategoryRepository,
	walletID, categoryID uuid.UUID,
	transactionType entity.TransactionType,
) (*entity.Category, error) {
	category, err := categoryRepo.FindByID(ctx, categoryID)
	if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if err != nil || category.WalletID != walletID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTxnCategoryNotFound,
			"category not found",
			domainerror.ErrCategoryNotFoundForTransaction,
		)
	}

	if !category.Type.Matches(transactionType) {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTxnCategoryTypeMismatch,
			"category type must match transaction type",
			domainerror.ErrCategoryTypeMismatch,
		)
	}

	return category, nil
}

// findEditableTransaction loads an entry and checks the user may edit its wallet.
func findEditableTransaction(
	ctx context.Context,
	transactionRepo adapter.TransactionRepository,
	walletRepo adapter.WalletRepository,
	transactionID, userID uuid.UUID,
) (*entity.Transaction, error) {
	transaction, err := transactionRepo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	if _, err := access.RequireWallet(ctx, walletRepo, transaction.WalletID, userID, entity.SharePermissionEdit); err != nil {
		return nil, err
	}

	return transaction, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}
	return nil
}

func validateType(transactionType entity.TransactionType) error {
	if !transactionType.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'INCOME' or 'EXPENSE'",
			domainerror.ErrInvalidTransactionType,
		)
	}
	return nil
}
