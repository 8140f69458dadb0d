package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// ListWalletsInput represents the input for listing a user's wallets.
type ListWalletsInput struct {
	UserID uuid.UUID
}

// ListWalletsOutput represents the output of listing wallets. Owned wallets come
// first, followed by the wallets shared with the user.
type ListWalletsOutput struct {
	Wallets []*entity.Wallet
}

// ListWalletsUseCase lists the wallets a user owns or has accepted a share for.
type ListWalletsUseCase struct {
	walletRepo adapter.WalletRepository
}

// NewListWalletsUseCase creates a new ListWalletsUseCase instance.
func NewListWalletsUseCase(walletRepo adapter.WalletRepository) *ListWalletsUseCase {
	return &ListWalletsUseCase{walletRepo: walletRepo}
}

// Execute lists the wallets.
func (uc *ListWalletsUseCase) Execute(ctx context.Context, input ListWalletsInput) (*ListWalletsOutput, error) {
	owned, err := uc.walletRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	shared, err := uc.walletRepo.FindShared(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared wallets: %w", err)
	}
	return &ListWalletsOutput{Wallets: append(owned, shared...)}, nil
}

// GetWalletInput represents the input for fetching one wallet.
type GetWalletInput struct {
	UserID   uuid.UUID
	WalletID uuid.UUID
}

// GetWalletUseCase returns a wallet the user can view.
type GetWalletUseCase struct {
	walletRepo adapter.WalletRepository
}

// NewGetWalletUseCase creates a new GetWalletUseCase instance.
func NewGetWalletUseCase(walletRepo adapter.WalletRepository) *GetWalletUseCase {
	return &GetWalletUseCase{walletRepo: walletRepo}
}

// Execute fetches the wallet.
func (uc *GetWalletUseCase) Execute(ctx context.Context, input GetWalletInput) (*entity.Wallet, error) {
	return access.RequireWallet(ctx, uc.walletRepo, input.WalletID, input.UserID, entity.SharePermissionView)
}
