// Package access contains authorization checks shared by wallet-scoped use cases.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// RequireOwnedWallet loads a wallet and verifies that userID owns it.
func RequireOwnedWallet(ctx context.Context, walletRepo adapter.WalletRepository, walletID, userID uuid.UUID) (*entity.Wallet, error) {
	wallet, err := findWallet(ctx, walletRepo, walletID)
	if err != nil {
		return nil, err
	}

	if !wallet.IsOwnedBy(userID) {
		return nil, accessDenied()
	}

	return wallet, nil
}

// RequireWallet loads a wallet and verifies that userID either owns it or holds an
// accepted share whose permission covers required.
func RequireWallet(
	ctx context.Context,
	walletRepo adapter.WalletRepository,
	walletID, userID uuid.UUID,
	required entity.SharePermission,
) (*entity.Wallet, error) {
	wallet, err := findWallet(ctx, walletRepo, walletID)
	if err != nil {
		return nil, err
	}
	if wallet.IsOwnedBy(userID) {
		return wallet, nil
	}

	permission, err := walletRepo.FindSharePermission(ctx, walletID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet share: %w", err)
	}
	if !permission.Allows(required) {
		return nil, accessDenied()
	}

	return wallet, nil
}

func findWallet(ctx context.Context, walletRepo adapter.WalletRepository, walletID uuid.UUID) (*entity.Wallet, error) {
	wallet, err := walletRepo.FindByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, domainerror.ErrWalletNotFound) {
			return nil, domainerror.NewWalletError(
				domainerror.ErrCodeWalletNotFound,
				"wallet not found",
				domainerror.ErrWalletNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find wallet: %w", err)
	}
	return wallet, nil
}

func accessDenied() error {
	return domainerror.NewWalletError(
		domainerror.ErrCodeNotAuthorizedWallet,
		"access denied",
		domainerror.ErrNotAuthorizedToAccessWallet,
	)
}
