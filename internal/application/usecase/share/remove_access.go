package share

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// ListSharesInput represents the input for listing a wallet's shares.
type ListSharesInput struct {
	WalletID uuid.UUID
	UserID   uuid.UUID
}

// ListSharesUseCase lists the pending and accepted shares of a wallet for its owner.
type ListSharesUseCase struct {
	walletRepo adapter.WalletRepository
	shareRepo  adapter.WalletShareRepository
}

// NewListSharesUseCase creates a new ListSharesUseCase instance.
func NewListSharesUseCase(walletRepo adapter.WalletRepository, shareRepo adapter.WalletShareRepository) *ListSharesUseCase {
	return &ListSharesUseCase{
		walletRepo: walletRepo,
		shareRepo:  shareRepo,
	}
}

// Execute lists the shares.
func (uc *ListSharesUseCase) Execute(ctx context.Context, input ListSharesInput) ([]*entity.WalletShare, error) {
	if _, err := access.RequireOwnedWallet(ctx, uc.walletRepo, input.WalletID, input.UserID); err != nil {
		return nil, err
	}

	shares, err := uc.shareRepo.FindByWallet(ctx, input.WalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	return shares, nil
}

// RemoveAccessInput represents the input for revoking a share.
type RemoveAccessInput struct {
	WalletID uuid.UUID
	ShareID  uuid.UUID
	UserID   uuid.UUID
}

// RemoveAccessUseCase revokes a share, pending or accepted. Only the owner may do so.
type RemoveAccessUseCase struct {
	walletRepo adapter.WalletRepository
	shareRepo  adapter.WalletShareRepository
}

// NewRemoveAccessUseCase creates a new RemoveAccessUseCase instance.
func NewRemoveAccessUseCase(walletRepo adapter.WalletRepository, shareRepo adapter.WalletShareRepository) *RemoveAccessUseCase {
	return &RemoveAccessUseCase{
		walletRepo: walletRepo,
		shareRepo:  shareRepo,
	}
}

// Execute revokes the share.
func (uc *RemoveAccessUseCase) Execute(ctx context.Context, input RemoveAccessInput) error {
	if _, err := access.RequireOwnedWallet(ctx, uc.walletRepo, input.WalletID, input.UserID); err != nil {
		return err
	}

	share, err := uc.shareRepo.FindByID(ctx, input.ShareID)
	if err != nil && !errors.Is(err, domainerror.ErrShareNotFound) {
		return fmt.Errorf("failed to find share: %w", err)
	}
	if share == nil || share.WalletID != input.WalletID {
		return shareNotFound()
	}

	if err := uc.shareRepo.Delete(ctx, share.ID); err != nil {
		if errors.Is(err, domainerror.ErrShareNotFound) {
			return shareNotFound()
		}
		return fmt.Errorf("failed to remove share: %w", err)
	}
	return nil
}

func shareNotFound() error {
	return domainerror.NewShareError(
		domainerror.ErrCodeShareNotFound,
		"share not found",
		domainerror.ErrShareNotFound,
	)
}
