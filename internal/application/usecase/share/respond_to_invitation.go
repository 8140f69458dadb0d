package share

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// RespondToInvitationInput represents the invitee's answer to an invitation.
type RespondToInvitationInput struct {
	ShareID uuid.UUID
	UserID  uuid.UUID
	Email   string
	Accept  bool
}

// RespondToInvitationOutput represents the outcome. Share is nil when the
// invitation was declined.
type RespondToInvitationOutput struct {
	Share *entity.WalletShare
}

// RespondToInvitationUseCase accepts or declines a pending invitation. Accepting binds
// the share to the caller; declining removes it.
type RespondToInvitationUseCase struct {
	shareRepo adapter.WalletShareRepository
}

// NewRespondToInvitationUseCase creates a new RespondToInvitationUseCase instance.
func NewRespondToInvitationUseCase(shareRepo adapter.WalletShareRepository) *RespondToInvitationUseCase {
	return &RespondToInvitationUseCase{shareRepo: shareRepo}
}

// Execute records the answer.
func (uc *RespondToInvitationUseCase) Execute(ctx context.Context, input RespondToInvitationInput) (*RespondToInvitationOutput, error) {
	share, err := uc.shareRepo.FindByID(ctx, input.ShareID)
	if err != nil && !errors.Is(err, domainerror.ErrShareNotFound) {
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}
	// Invitations addressed to someone else are reported as missing.
	if share == nil || !share.IsPending() || !share.IsAddressedTo(input.Email) {
		return nil, domainerror.NewShareError(
			domainerror.ErrCodeInvitationNotFound,
			"invitation not found",
			domainerror.ErrInvitationNotFound,
		)
	}

	if !input.Accept {
		if err := uc.shareRepo.Delete(ctx, share.ID); err != nil {
			return nil, fmt.Errorf("failed to decline invitation: %w", err)
		}
		return &RespondToInvitationOutput{}, nil
	}

	share.Accept(input.UserID)
	if err := uc.shareRepo.Update(ctx, share); err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}
	return &RespondToInvitationOutput{Share: share}, nil
}
