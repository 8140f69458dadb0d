package share

import (
	"context"
	"errors"
	"fmt"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// ListInvitationsInput represents the input for listing a user's pending invitations.
type ListInvitationsInput struct {
	Email string
}

// Invitation is a pending share together with the wallet it opens.
type Invitation struct {
	Share  *entity.WalletShare
	Wallet *entity.Wallet
}

// ListInvitationsOutput represents the output of listing invitations.
type ListInvitationsOutput struct {
	Invitations []Invitation
}

// ListInvitationsUseCase lists the invitations waiting for the caller's answer.
type ListInvitationsUseCase struct {
	walletRepo adapter.WalletRepository
	shareRepo  adapter.WalletShareRepository
}

// NewListInvitationsUseCase creates a new ListInvitationsUseCase instance.
func NewListInvitationsUseCase(walletRepo adapter.WalletRepository, shareRepo adapter.WalletShareRepository) *ListInvitationsUseCase {
	return &ListInvitationsUseCase{
		walletRepo: walletRepo,
		shareRepo:  shareRepo,
	}
}

// Execute lists the invitations.
func (uc *ListInvitationsUseCase) Execute(ctx context.Context, input ListInvitationsInput) (*ListInvitationsOutput, error) {
	shares, err := uc.shareRepo.FindPendingByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	invitations := make([]Invitation, 0, len(shares))
	for _, s := range shares {
		wallet, err := uc.walletRepo.FindByID(ctx, s.WalletID)
		if err != nil {
			// The wallet was deleted between the two reads.
			if errors.Is(err, domainerror.ErrWalletNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to find wallet: %w", err)
		}
		invitations = append(invitations, Invitation{Share: s, Wallet: wallet})
	}

	return &ListInvitationsOutput{Invitations: invitations}, nil
}
