package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// UpdateTransactionInput represents the input for transaction update. Nil fields are
// left unchanged. The wallet of an entry cannot change.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
	Date          *time.Time
	Description   *string
	Amount        *decimal.Decimal
	Type          *entity.TransactionType
	CategoryID    *uuid.UUID
}

// UpdateTransactionOutput represents the output of transaction update.
type UpdateTransactionOutput struct {
	Transaction *TransactionOutput
}

// UpdateTransactionUseCase edits an entry and moves the wallet balance by the
// difference between its old and new signed amounts.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	walletRepo      adapter.WalletRepository
	categoryRepo    adapter.CategoryRepository
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	walletRepo adapter.WalletRepository,
	categoryRepo adapter.CategoryRepository,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		categoryRepo:    categoryRepo,
	}
}

// Execute performs the transaction update.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	transaction, err := findEditableTransaction(ctx, uc.transactionRepo, uc.walletRepo, input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		transaction.Date = valueobject.StartOfDay(*input.Date)
	}

	if input.Description != nil {
		if err := validateDescription(*input.Description); err != nil {
			return nil, err
		}
		transaction.Description = *input.Description
	}

	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		transaction.Amount = *input.Amount
	}

	if input.Type != nil {
		if err := validateType(*input.Type); err != nil {
			return nil, err
		}
		transaction.Type = *input.Type
	}

	if input.CategoryID != nil {
		transaction.CategoryID = *input.CategoryID
	}

	// The category is re-checked whenever it or the direction changes.
	category, err := loadCategory(ctx, uc.categoryRepo, transaction.WalletID, transaction.CategoryID, transaction.Type)
	if err != nil {
		return nil, err
	}

	transaction.UpdatedAt = time.Now().UTC()

	if err := uc.transactionRepo.UpdateWithBalance(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return &UpdateTransactionOutput{
		Transaction: toOutput(transaction, category),
	}, nil
}
