package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// WalletShareModel represents the wallet_shares table in the database.
type WalletShareModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	WalletID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_shares_wallet_email"`
	InvitedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	Email      string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_wallet_shares_wallet_email;index"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Permission string     `gorm:"type:varchar(10);not null"`
	Status     string     `gorm:"type:varchar(10);not null"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`

	Wallet *WalletModel `gorm:"foreignKey:WalletID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the WalletShareModel.
func (WalletShareModel) TableName() string {
	return "wallet_shares"
}

// ToEntity converts a WalletShareModel to a domain WalletShare entity.
func (m *WalletShareModel) ToEntity() *entity.WalletShare {
	return &entity.WalletShare{
		ID:         m.ID,
		WalletID:   m.WalletID,
		InvitedBy:  m.InvitedBy,
		Email:      m.Email,
		UserID:     m.UserID,
		Permission: entity.SharePermission(m.Permission),
		Status:     entity.ShareStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// WalletShareFromEntity creates a WalletShareModel from a domain WalletShare entity.
func WalletShareFromEntity(share *entity.WalletShare) *WalletShareModel {
	return &WalletShareModel{
		ID:         share.ID,
		WalletID:   share.WalletID,
		InvitedBy:  share.InvitedBy,
		Email:      share.Email,
		UserID:     share.UserID,
		Permission: string(share.Permission),
		Status:     string(share.Status),
		CreatedAt:  share.CreatedAt,
		UpdatedAt:  share.UpdatedAt,
	}
}
