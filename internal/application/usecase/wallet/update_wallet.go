package wallet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// UpdateWalletInput represents the input for a wallet update. Nil fields are left unchanged.
type UpdateWalletInput struct {
	UserID      uuid.UUID
	WalletID    uuid.UUID
	Name        *string
	Currency    *string
	Description *string
}

// UpdateWalletUseCase renames or re-describes a wallet. Only the owner may do so.
type UpdateWalletUseCase struct {
	walletRepo adapter.WalletRepository
}

// NewUpdateWalletUseCase creates a new UpdateWalletUseCase instance.
func NewUpdateWalletUseCase(walletRepo adapter.WalletRepository) *UpdateWalletUseCase {
	return &UpdateWalletUseCase{walletRepo: walletRepo}
}

// Execute performs the wallet update.
func (uc *UpdateWalletUseCase) Execute(ctx context.Context, input UpdateWalletInput) (*entity.Wallet, error) {
	wallet, err := access.RequireOwnedWallet(ctx, uc.walletRepo, input.WalletID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domainerror.NewWalletError(
				domainerror.ErrCodeWalletNameRequired,
				"wallet name is required",
				domainerror.ErrWalletNameRequired,
			)
		}
		if len(name) > MaxWalletNameLength {
			return nil, domainerror.NewWalletError(
				domainerror.ErrCodeWalletNameTooLong,
				fmt.Sprintf("wallet name must not exceed %d characters", MaxWalletNameLength),
				domainerror.ErrWalletNameTooLong,
			)
		}
		wallet.Name = name
	}

	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if !currencyRegex.MatchString(currency) {
			return nil, domainerror.NewWalletError(
				domainerror.ErrCodeInvalidCurrency,
				"currency must be a three-letter ISO 4217 code",
				domainerror.ErrInvalidCurrency,
			)
		}
		wallet.Currency = currency
	}

	if input.Description != nil {
		wallet.Description = *input.Description
	}

	wallet.UpdatedAt = time.Now().UTC()
	if err := uc.walletRepo.Update(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	return wallet, nil
}
