package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

// recurrenceRepository implements the adapter.RecurrenceRepository interface.
type recurrenceRepository struct {
	db *gorm.DB
}

// NewRecurrenceRepository creates a new recurrence rule repository instance.
func NewRecurrenceRepository(db *gorm.DB) adapter.RecurrenceRepository {
	return &recurrenceRepository{
		db: db,
	}
}

// Create creates a new rule in the database.
func (r *recurrenceRepository) Create(ctx context.Context, rule *entity.RecurrenceRule) error {
	return r.db.WithContext(ctx).Create(model.RecurrenceRuleFromEntity(rule)).Error
}

// FindByID retrieves a rule by its ID.
func (r *recurrenceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RecurrenceRule, error) {
	var ruleModel model.RecurrenceRuleModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrRecurrenceNotFound
		}
		return nil, result.Error
	}
	return ruleModel.ToEntity(), nil
}

// FindByWallet retrieves the rules of a wallet, newest first.
func (r *recurrenceRepository) FindByWallet(ctx context.Context, walletID uuid.UUID, pagination adapter.Pagination) (*entity.RecurrenceRuleListResult, error) {
	query := r.db.WithContext(ctx).
		Model(&model.RecurrenceRuleModel{}).
		Where("wallet_id = ?", walletID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (pagination.Page - 1) * pagination.Limit
	totalPages := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	if totalPages == 0 {
		totalPages = 1
	}

	var ruleModels []model.RecurrenceRuleModel
	result := query.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(pagination.Limit).
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.RecurrenceRule, len(ruleModels))
	for i, rm := range ruleModels {
		rules[i] = rm.ToEntity()
	}

	return &entity.RecurrenceRuleListResult{
		Rules:      rules,
		Total:      total,
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update saves a rule if its schedule was not advanced since the caller read it.
func (r *recurrenceRepository) Update(ctx context.Context, rule *entity.RecurrenceRule, expectedNextRunAt *time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.RecurrenceRuleModel
		if err := lockingRead(tx).Where("id = ?", rule.ID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrRecurrenceNotFound
			}
			return err
		}
		if !sameInstant(current.NextRunAt, expectedNextRunAt) {
			return domainerror.ErrRecurrenceAlreadyApplied
		}

		return tx.Save(model.RecurrenceRuleFromEntity(rule)).Error
	})
}

// Delete removes a rule and clears the back-reference of the entries it generated.
func (r *recurrenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Model(&model.TransactionModel{}).
			Where("recurrence_rule_id = ?", id).
			Update("recurrence_rule_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.RecurrenceRuleModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrRecurrenceNotFound
		}
		return nil
	})
}

// FindDue retrieves the rules due as of the given day, ordered by ID.
func (r *recurrenceRepository) FindDue(ctx context.Context, asOf time.Time) ([]*entity.RecurrenceRule, error) {
	day := valueobject.StartOfDay(asOf)

	var ruleModels []model.RecurrenceRuleModel
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("next_run_at IS NOT NULL AND next_run_at <= ?", day).
		Where("start_date <= ?", day).
		Where("(end_date IS NULL OR end_date >= ?)", day).
		Order("id ASC").
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.RecurrenceRule, len(ruleModels))
	for i, rm := range ruleModels {
		rules[i] = rm.ToEntity()
	}
	return rules, nil
}

// ApplyAtomically materializes one occurrence: the entry, the balance increment and
// the schedule advance commit together or not at all.
func (r *recurrenceRepository) ApplyAtomically(ctx context.Context, application *adapter.RecurrenceApplication) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.RecurrenceRuleModel
		if err := lockingRead(tx).Where("id = ?", application.RuleID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrRecurrenceNotFound
			}
			return err
		}
		if !current.IsActive || !sameInstant(current.NextRunAt, &application.ExpectedNextRunAt) {
			return domainerror.ErrRecurrenceAlreadyApplied
		}
		if current.WalletID != application.WalletID || application.Entry.WalletID != application.WalletID {
			return domainerror.ErrLedgerInvariantViolation
		}

		var categories int64
		if err := tx.Model(&model.CategoryModel{}).
			Where("id = ? AND wallet_id = ?", application.Entry.CategoryID, application.WalletID).
			Count(&categories).Error; err != nil {
			return err
		}
		if categories == 0 {
			return domainerror.ErrCategoryNotFound
		}

		if err := tx.Create(model.TransactionFromEntity(application.Entry)).Error; err != nil {
			return err
		}

		if err := incrementBalance(tx, application.WalletID, application.BalanceDelta, application.AppliedAt); err != nil {
			return err
		}

		var nextRunAt interface{}
		if application.Advance.NextRunAt != nil {
			nextRunAt = application.Advance.NextRunAt.UTC()
		}
		result := tx.Model(&model.RecurrenceRuleModel{}).
			Where("id = ? AND next_run_at = ? AND is_active = ?", application.RuleID, application.ExpectedNextRunAt.UTC(), true).
			Updates(map[string]interface{}{
				"last_run_at": application.Advance.LastRunAt.UTC(),
				"next_run_at": nextRunAt,
				"is_active":   application.Advance.IsActive,
				"updated_at":  application.AppliedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return domainerror.ErrRecurrenceAlreadyApplied
		}
		return nil
	})
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
