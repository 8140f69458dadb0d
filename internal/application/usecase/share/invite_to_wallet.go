// Package share contains wallet sharing use cases.
package share

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// InviteToWalletInput represents the input for inviting a user to a wallet.
type InviteToWalletInput struct {
	WalletID     uuid.UUID
	InviterID    uuid.UUID
	InviterEmail string
	Email        string
	Permission   entity.SharePermission // Optional, defaults to VIEW
}

// InviteToWalletOutput represents the output of an invitation.
type InviteToWalletOutput struct {
	Share *entity.WalletShare
}

// InviteToWalletUseCase lets a wallet owner invite another user by email.
type InviteToWalletUseCase struct {
	walletRepo adapter.WalletRepository
	shareRepo  adapter.WalletShareRepository
}

// NewInviteToWalletUseCase creates a new InviteToWalletUseCase instance.
func NewInviteToWalletUseCase(walletRepo adapter.WalletRepository, shareRepo adapter.WalletShareRepository) *InviteToWalletUseCase {
	return &InviteToWalletUseCase{
		walletRepo: walletRepo,
		shareRepo:  shareRepo,
	}
}

// Execute performs the invitation.
func (uc *InviteToWalletUseCase) Execute(ctx context.Context, input InviteToWalletInput) (*InviteToWalletOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	if !emailRegex.MatchString(email) {
		return nil, domainerror.NewShareError(
			domainerror.ErrCodeInvalidShareEmail,
			"invalid email address",
			domainerror.ErrInvalidShareEmail,
		)
	}

	permission := input.Permission
	if permission == "" {
		permission = entity.SharePermissionView
	}
	if !permission.IsValid() {
		return nil, domainerror.NewShareError(
			domainerror.ErrCodeInvalidSharePermission,
			"permission must be 'VIEW' or 'EDIT'",
			domainerror.ErrInvalidSharePermission,
		)
	}

	if _, err := access.RequireOwnedWallet(ctx, uc.walletRepo, input.WalletID, input.InviterID); err != nil {
		return nil, err
	}

	if email == entity.NormalizeEmail(input.InviterEmail) {
		return nil, domainerror.NewShareError(
			domainerror.ErrCodeCannotShareWithSelf,
			"you cannot share a wallet with yourself",
			domainerror.ErrCannotShareWithSelf,
		)
	}

	share := entity.NewWalletShare(input.WalletID, input.InviterID, email, permission)
	if err := uc.shareRepo.Create(ctx, share); err != nil {
		if errors.Is(err, domainerror.ErrWalletAlreadyShared) {
			return nil, domainerror.NewShareError(
				domainerror.ErrCodeWalletAlreadyShared,
				"the wallet is already shared with this user",
				domainerror.ErrWalletAlreadyShared,
			)
		}
		return nil, fmt.Errorf("failed to create share: %w", err)
	}

	return &InviteToWalletOutput{Share: share}, nil
}
