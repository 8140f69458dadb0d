package dto

import (
	"time"

	"github.com/budget-tracker/backend/internal/application/usecase/share"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// InviteToWalletRequest represents the request body for sharing a wallet.
type InviteToWalletRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Permission string `json:"permission,omitempty" binding:"omitempty,oneof=VIEW EDIT"`
}

// RespondToInvitationRequest represents the invitee's answer.
type RespondToInvitationRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// ShareResponse represents a single wallet share in API responses.
type ShareResponse struct {
	ID         string    `json:"id"`
	WalletID   string    `json:"wallet_id"`
	Email      string    `json:"email"`
	UserID     *string   `json:"user_id"`
	Permission string    `json:"permission"`
	Status     string    `json:"status"`
	InvitedBy  string    `json:"invited_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ShareListResponse represents the response for listing a wallet's shares.
type ShareListResponse struct {
	Shares []ShareResponse `json:"shares"`
}

// InvitationResponse represents a pending invitation with the wallet it opens.
type InvitationResponse struct {
	ShareResponse
	WalletName string `json:"wallet_name"`
}

// InvitationListResponse represents the response for listing invitations.
type InvitationListResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
}

// ToShareResponse converts a domain WalletShare entity to a ShareResponse DTO.
func ToShareResponse(s *entity.WalletShare) ShareResponse {
	var userID *string
	if s.UserID != nil {
		id := s.UserID.String()
		userID = &id
	}

	return ShareResponse{
		ID:         s.ID.String(),
		WalletID:   s.WalletID.String(),
		Email:      s.Email,
		UserID:     userID,
		Permission: string(s.Permission),
		Status:     string(s.Status),
		InvitedBy:  s.InvitedBy.String(),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// ToShareListResponse converts shares to a ShareListResponse DTO.
func ToShareListResponse(shares []*entity.WalletShare) ShareListResponse {
	response := ShareListResponse{Shares: make([]ShareResponse, len(shares))}
	for i, s := range shares {
		response.Shares[i] = ToShareResponse(s)
	}
	return response
}

// ToInvitationListResponse converts invitations to an InvitationListResponse DTO.
func ToInvitationListResponse(invitations []share.Invitation) InvitationListResponse {
	response := InvitationListResponse{Invitations: make([]InvitationResponse, len(invitations))}
	for i, inv := range invitations {
		response.Invitations[i] = InvitationResponse{
			ShareResponse: ToShareResponse(inv.Share),
			WalletName:    inv.Wallet.Name,
		}
	}
	return response
}
