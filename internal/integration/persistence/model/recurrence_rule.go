package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// RecurrenceRuleModel represents the recurrence_rules table in the database.
type RecurrenceRuleModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WalletID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name            string          `gorm:"type:varchar(100);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TransactionType string          `gorm:"type:varchar(10);not null"`
	Frequency       string          `gorm:"type:varchar(10);not null"`
	CategoryID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description     string          `gorm:"type:varchar(255)"`
	StartDate       time.Time       `gorm:"not null"`
	EndDate         *time.Time
	IsActive        bool `gorm:"not null;index:idx_recurrence_rules_due,priority:1"`
	CycleDayOfMonth *int `gorm:"type:integer"`
	CycleDayOfWeek  *int `gorm:"type:integer"`
	LastRunAt       *time.Time
	NextRunAt       *time.Time `gorm:"index:idx_recurrence_rules_due,priority:2"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`

	Wallet   *WalletModel   `gorm:"foreignKey:WalletID;references:ID;constraint:OnDelete:CASCADE"`
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the RecurrenceRuleModel.
func (RecurrenceRuleModel) TableName() string {
	return "recurrence_rules"
}

// ToEntity converts a RecurrenceRuleModel to a domain RecurrenceRule entity.
func (m *RecurrenceRuleModel) ToEntity() *entity.RecurrenceRule {
	return &entity.RecurrenceRule{
		ID:              m.ID,
		WalletID:        m.WalletID,
		UserID:          m.UserID,
		Name:            m.Name,
		Amount:          m.Amount,
		TransactionType: entity.TransactionType(m.TransactionType),
		Frequency:       valueobject.Frequency(m.Frequency),
		CategoryID:      m.CategoryID,
		Description:     m.Description,
		StartDate:       m.StartDate.UTC(),
		EndDate:         utcPtr(m.EndDate),
		IsActive:        m.IsActive,
		CycleDayOfMonth: m.CycleDayOfMonth,
		CycleDayOfWeek:  m.CycleDayOfWeek,
		LastRunAt:       utcPtr(m.LastRunAt),
		NextRunAt:       utcPtr(m.NextRunAt),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// RecurrenceRuleFromEntity creates a RecurrenceRuleModel from a domain RecurrenceRule entity.
func RecurrenceRuleFromEntity(rule *entity.RecurrenceRule) *RecurrenceRuleModel {
	return &RecurrenceRuleModel{
		ID:              rule.ID,
		WalletID:        rule.WalletID,
		UserID:          rule.UserID,
		Name:            rule.Name,
		Amount:          rule.Amount,
		TransactionType: string(rule.TransactionType),
		Frequency:       string(rule.Frequency),
		CategoryID:      rule.CategoryID,
		Description:     rule.Description,
		StartDate:       rule.StartDate.UTC(),
		EndDate:         utcPtr(rule.EndDate),
		IsActive:        rule.IsActive,
		CycleDayOfMonth: rule.CycleDayOfMonth,
		CycleDayOfWeek:  rule.CycleDayOfWeek,
		LastRunAt:       utcPtr(rule.LastRunAt),
		NextRunAt:       utcPtr(rule.NextRunAt),
		CreatedAt:       rule.CreatedAt,
		UpdatedAt:       rule.UpdatedAt,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// All returns every model managed by the persistence layer, in migration order.
func All() []any {
	return []any{
		&WalletModel{},
		&CategoryModel{},
		&WalletShareModel{},
		&RecurrenceRuleModel{},
		&TransactionModel{},
	}
}
