package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CategoryModel represents the categories table in the database.
type CategoryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	WalletID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_wallet_name_type"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_categories_wallet_name_type"`
	Type      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_categories_wallet_name_type"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Wallet *WalletModel `gorm:"foreignKey:WalletID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ToEntity converts a CategoryModel to a domain Category entity.
func (m *CategoryModel) ToEntity() *entity.Category {
	return &entity.Category{
		ID:        m.ID,
		WalletID:  m.WalletID,
		Name:      m.Name,
		Type:      entity.CategoryType(m.Type),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CategoryFromEntity creates a CategoryModel from a domain Category entity.
func CategoryFromEntity(category *entity.Category) *CategoryModel {
	return &CategoryModel{
		ID:        category.ID,
		WalletID:  category.WalletID,
		Name:      category.Name,
		Type:      string(category.Type),
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}
