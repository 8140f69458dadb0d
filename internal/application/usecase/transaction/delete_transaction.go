package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
)

// DeleteTransactionInput represents the input for transaction deletion.
type DeleteTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// DeleteTransactionOutput represents the output of transaction deletion.
type DeleteTransactionOutput struct {
	Success bool
}

// DeleteTransactionUseCase handles transaction deletion logic.
type DeleteTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	walletRepo      adapter.WalletRepository
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(transactionRepo adapter.TransactionRepository, walletRepo adapter.WalletRepository) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
	}
}

// Execute soft-deletes the entry and reverses its effect on the wallet balance.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	transaction, err := findEditableTransaction(ctx, uc.transactionRepo, uc.walletRepo, input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.DeleteWithBalance(ctx, transaction.ID); err != nil {
		return nil, fmt.Errorf("failed to delete transaction: %w", err)
	}

	return &DeleteTransactionOutput{
		Success: true,
	}, nil
}
