package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// TransactionModel represents the transactions (ledger entries) table in the database.
type TransactionModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WalletID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date             time.Time       `gorm:"not null;index"`
	Description      string          `gorm:"type:varchar(255)"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type             string          `gorm:"type:varchar(10);not null;index"`
	CategoryID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	RecurrenceRuleID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
	DeletedAt        gorm.DeletedAt  `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Wallet   *WalletModel   `gorm:"foreignKey:WalletID;references:ID"`
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Transaction{
		ID:               m.ID,
		WalletID:         m.WalletID,
		UserID:           m.UserID,
		Amount:           m.Amount,
		Type:             entity.TransactionType(m.Type),
		CategoryID:       m.CategoryID,
		Description:      m.Description,
		Date:             m.Date.UTC(),
		RecurrenceRuleID: m.RecurrenceRuleID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		DeletedAt:        deletedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	var deletedAt gorm.DeletedAt
	if transaction.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *transaction.DeletedAt, Valid: true}
	}

	return &TransactionModel{
		ID:               transaction.ID,
		WalletID:         transaction.WalletID,
		UserID:           transaction.UserID,
		Date:             transaction.Date.UTC(),
		Description:      transaction.Description,
		Amount:           transaction.Amount,
		Type:             string(transaction.Type),
		CategoryID:       transaction.CategoryID,
		RecurrenceRuleID: transaction.RecurrenceRuleID,
		CreatedAt:        transaction.CreatedAt,
		UpdatedAt:        transaction.UpdatedAt,
		DeletedAt:        deletedAt,
	}
}
