package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SharePermission is the access level a share grants on a wallet.
type SharePermission string

const (
	SharePermissionView SharePermission = "VIEW"
	SharePermissionEdit SharePermission = "EDIT"
)

// IsValid reports whether the permission is VIEW or EDIT.
func (p SharePermission) IsValid() bool {
	return p == SharePermissionView || p == SharePermissionEdit
}

// Allows reports whether holding p is enough for an operation that needs required.
// EDIT implies VIEW.
func (p SharePermission) Allows(required SharePermission) bool {
	switch p {
	case SharePermissionEdit:
		return required.IsValid()
	case SharePermissionView:
		return required == SharePermissionView
	default:
		return false
	}
}

// ShareStatus is the lifecycle state of a share.
type ShareStatus string

const (
	ShareStatusPending  ShareStatus = "PENDING"
	ShareStatusAccepted ShareStatus = "ACCEPTED"
)

// WalletShare grants a user other than the owner access to a wallet. It is created
// for an email address and bound to a user ID once the invitee accepts.
type WalletShare struct {
	ID         uuid.UUID
	WalletID   uuid.UUID
	InvitedBy  uuid.UUID
	Email      string
	UserID     *uuid.UUID
	Permission SharePermission
	Status     ShareStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewWalletShare creates a pending invitation.
func NewWalletShare(walletID, invitedBy uuid.UUID, email string, permission SharePermission) *WalletShare {
	now := time.Now().UTC()

	return &WalletShare{
		ID:         uuid.New(),
		WalletID:   walletID,
		InvitedBy:  invitedBy,
		Email:      NormalizeEmail(email),
		Permission: permission,
		Status:     ShareStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsPending reports whether the invitation has not been answered yet.
func (s *WalletShare) IsPending() bool {
	return s.Status == ShareStatusPending
}

// IsAddressedTo reports whether the invitation was sent to email.
func (s *WalletShare) IsAddressedTo(email string) bool {
	return s.Email == NormalizeEmail(email)
}

// Accept binds the share to the accepting user.
func (s *WalletShare) Accept(userID uuid.UUID) {
	s.UserID = &userID
	s.Status = ShareStatusAccepted
	s.UpdatedAt = time.Now().UTC()
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
