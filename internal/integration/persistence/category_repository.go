package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// Create creates a new category in the database.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).Create(model.CategoryFromEntity(category))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerror.ErrCategoryNameExists
		}
		return result.Error
	}
	return nil
}

// FindByID retrieves a category by its ID.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}

// FindByWallet retrieves the categories of a wallet, optionally filtered by type.
func (r *categoryRepository) FindByWallet(ctx context.Context, walletID uuid.UUID, categoryType *entity.CategoryType) ([]*entity.Category, error) {
	query := r.db.WithContext(ctx).Where("wallet_id = ?", walletID)
	if categoryType != nil {
		query = query.Where("type = ?", string(*categoryType))
	}

	var categoryModels []model.CategoryModel
	result := query.Order("type ASC, name ASC").Find(&categoryModels)
	if result.Error != nil {
		return nil, result.Error
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i, cm := range categoryModels {
		categories[i] = cm.ToEntity()
	}
	return categories, nil
}

// ExistsByNameAndType checks whether the wallet already has a category with the given name and type.
func (r *categoryRepository) ExistsByNameAndType(ctx context.Context, walletID uuid.UUID, name string, categoryType entity.CategoryType) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("wallet_id = ? AND name = ? AND type = ?", walletID, name, string(categoryType)).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// IsReferenced reports whether live entries or rules use the category.
func (r *categoryRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	return categoryReferenced(r.db.WithContext(ctx), id)
}

// Update saves a category's name and type.
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":       category.Name,
			"type":       string(category.Type),
			"updated_at": category.UpdatedAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerror.ErrCategoryNameExists
		}
		return result.Error
	}
	if result.RowsAffected != 1 {
		return domainerror.ErrCategoryNotFound
	}
	return nil
}

// Delete removes an unused category. Soft-deleted entries still pointing at it are purged.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category model.CategoryModel
		if err := lockingRead(tx).Where("id = ?", id).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrCategoryNotFound
			}
			return err
		}

		referenced, err := categoryReferenced(tx, id)
		if err != nil {
			return err
		}
		if referenced {
			return domainerror.ErrCategoryInUse
		}

		if err := tx.Unscoped().Where("category_id = ?", id).Delete(&model.TransactionModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.CategoryModel{}).Error
	})
}

func categoryReferenced(db *gorm.DB, id uuid.UUID) (bool, error) {
	var entries int64
	if err := db.Model(&model.TransactionModel{}).Where("category_id = ?", id).Count(&entries).Error; err != nil {
		return false, err
	}
	if entries > 0 {
		return true, nil
	}

	var rules int64
	if err := db.Model(&model.RecurrenceRuleModel{}).Where("category_id = ?", id).Count(&rules).Error; err != nil {
		return false, err
	}
	return rules > 0, nil
}
