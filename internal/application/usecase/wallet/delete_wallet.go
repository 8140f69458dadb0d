package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// DeleteWalletInput represents the input for wallet deletion.
type DeleteWalletInput struct {
	UserID   uuid.UUID
	WalletID uuid.UUID
}

// DeleteWalletUseCase removes an empty wallet together with its categories, rules
// and shares. A wallet with live entries is refused; delete the entries first.
type DeleteWalletUseCase struct {
	walletRepo adapter.WalletRepository
}

// NewDeleteWalletUseCase creates a new DeleteWalletUseCase instance.
func NewDeleteWalletUseCase(walletRepo adapter.WalletRepository) *DeleteWalletUseCase {
	return &DeleteWalletUseCase{walletRepo: walletRepo}
}

// Execute performs the wallet deletion.
func (uc *DeleteWalletUseCase) Execute(ctx context.Context, input DeleteWalletInput) error {
	if _, err := access.RequireOwnedWallet(ctx, uc.walletRepo, input.WalletID, input.UserID); err != nil {
		return err
	}

	if err := uc.walletRepo.Delete(ctx, input.WalletID); err != nil {
		if errors.Is(err, domainerror.ErrWalletHasTransactions) {
			return domainerror.NewWalletError(
				domainerror.ErrCodeWalletHasEntries,
				"wallet still has transactions",
				domainerror.ErrWalletHasTransactions,
			)
		}
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	return nil
}
