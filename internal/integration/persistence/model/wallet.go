// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// WalletModel represents the wallets table in the database.
type WalletModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"type:varchar(100);not null"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Description string          `gorm:"type:varchar(255)"`
	Balance     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the WalletModel.
func (WalletModel) TableName() string {
	return "wallets"
}

// ToEntity converts a WalletModel to a domain Wallet entity.
func (m *WalletModel) ToEntity() *entity.Wallet {
	return &entity.Wallet{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Currency:    m.Currency,
		Description: m.Description,
		Balance:     m.Balance,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// WalletFromEntity creates a WalletModel from a domain Wallet entity.
func WalletFromEntity(wallet *entity.Wallet) *WalletModel {
	return &WalletModel{
		ID:          wallet.ID,
		UserID:      wallet.UserID,
		Name:        wallet.Name,
		Currency:    wallet.Currency,
		Description: wallet.Description,
		Balance:     wallet.Balance,
		CreatedAt:   wallet.CreatedAt,
		UpdatedAt:   wallet.UpdatedAt,
	}
}
