package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	UserID      uuid.UUID
	WalletID    uuid.UUID
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        entity.TransactionType
	CategoryID  uuid.UUID
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *TransactionOutput
}

// CreateTransactionUseCase records a manual ledger entry.
type CreateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	walletRepo      adapter.WalletRepository
	categoryRepo    adapter.CategoryRepository
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	walletRepo adapter.WalletRepository,
	categoryRepo adapter.CategoryRepository,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		categoryRepo:    categoryRepo,
	}
}

// Execute performs the transaction creation.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	if input.Date.IsZero() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"date is required",
			domainerror.ErrInvalidTransactionDate,
		)
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateType(input.Type); err != nil {
		return nil, err
	}

	if _, err := access.RequireWallet(ctx, uc.walletRepo, input.WalletID, input.UserID, entity.SharePermissionEdit); err != nil {
		return nil, err
	}

	category, err := loadCategory(ctx, uc.categoryRepo, input.WalletID, input.CategoryID, input.Type)
	if err != nil {
		return nil, err
	}

	transaction := entity.NewTransaction(
		input.WalletID,
		input.UserID,
		input.Amount,
		input.Type,
		input.CategoryID,
		input.Description,
		valueobject.StartOfDay(input.Date),
		nil,
	)

	if err := uc.transactionRepo.CreateWithBalance(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &CreateTransactionOutput{
		Transaction: toOutput(transaction, category),
	}, nil
}
