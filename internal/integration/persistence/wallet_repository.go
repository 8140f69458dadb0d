// Package persistence implements repository interfaces for database operations.
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

// walletRepository implements the adapter.WalletRepository interface.
type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository instance.
func NewWalletRepository(db *gorm.DB) adapter.WalletRepository {
	return &walletRepository{
		db: db,
	}
}

// CreateWithCategories creates a wallet and its seeded categories in one unit of work.
func (r *walletRepository) CreateWithCategories(ctx context.Context, wallet *entity.Wallet, categories []*entity.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model.WalletFromEntity(wallet)).Error; err != nil {
			return err
		}

		if len(categories) == 0 {
			return nil
		}

		categoryModels := make([]*model.CategoryModel, len(categories))
		for i, c := range categories {
			categoryModels[i] = model.CategoryFromEntity(c)
		}
		return tx.Create(&categoryModels).Error
	})
}

// FindByID retrieves a wallet by its ID.
func (r *walletRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Wallet, error) {
	var walletModel model.WalletModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&walletModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrWalletNotFound
		}
		return nil, result.Error
	}
	return walletModel.ToEntity(), nil
}

// FindByUser retrieves all wallets owned by a user.
func (r *walletRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Wallet, error) {
	var walletModels []model.WalletModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&walletModels)
	if result.Error != nil {
		return nil, result.Error
	}

	wallets := make([]*entity.Wallet, len(walletModels))
	for i, wm := range walletModels {
		wallets[i] = wm.ToEntity()
	}
	return wallets, nil
}

// CountByUser counts the wallets owned by a user.
func (r *walletRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.WalletModel{}).
		Where("user_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// FindShared retrieves the wallets shared with a user through accepted shares.
func (r *walletRepository) FindShared(ctx context.Context, userID uuid.UUID) ([]*entity.Wallet, error) {
	var walletModels []model.WalletModel
	result := r.db.WithContext(ctx).
		Select("wallets.*").
		Joins("JOIN wallet_shares ON wallet_shares.wallet_id = wallets.id").
		Where("wallet_shares.user_id = ? AND wallet_shares.status = ?", userID, string(entity.ShareStatusAccepted)).
		Order("wallets.created_at ASC").
		Find(&walletModels)
	if result.Error != nil {
		return nil, result.Error
	}

	wallets := make([]*entity.Wallet, len(walletModels))
	for i, wm := range walletModels {
		wallets[i] = wm.ToEntity()
	}
	return wallets, nil
}

// FindSharePermission returns the permission of the user's accepted share on the wallet.
func (r *walletRepository) FindSharePermission(ctx context.Context, walletID, userID uuid.UUID) (entity.SharePermission, error) {
	var shareModel model.WalletShareModel
	result := r.db.WithContext(ctx).
		Where("wallet_id = ? AND user_id = ? AND status = ?", walletID, userID, string(entity.ShareStatusAccepted)).
		Limit(1).
		Find(&shareModel)
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", nil
	}
	return entity.SharePermission(shareModel.Permission), nil
}

// Update saves a wallet's name, currency and description.
func (r *walletRepository) Update(ctx context.Context, wallet *entity.Wallet) error {
	result := r.db.WithContext(ctx).
		Model(&model.WalletModel{}).
		Where("id = ?", wallet.ID).
		Updates(map[string]interface{}{
			"name":        wallet.Name,
			"currency":    wallet.Currency,
			"description": wallet.Description,
			"updated_at":  wallet.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return domainerror.ErrWalletNotFound
	}
	return nil
}

// Delete removes an empty wallet and everything scoped to it. Soft-deleted entries
// are purged so the categories they point at can go too.
func (r *walletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet model.WalletModel
		if err := lockingRead(tx).Where("id = ?", id).First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrWalletNotFound
			}
			return err
		}

		var live int64
		if err := tx.Model(&model.TransactionModel{}).Where("wallet_id = ?", id).Count(&live).Error; err != nil {
			return err
		}
		if live > 0 {
			return domainerror.ErrWalletHasTransactions
		}

		if err := tx.Unscoped().Where("wallet_id = ?", id).Delete(&model.TransactionModel{}).Error; err != nil {
			return err
		}
		for _, scoped := range []any{&model.RecurrenceRuleModel{}, &model.WalletShareModel{}, &model.CategoryModel{}} {
			if err := tx.Where("wallet_id = ?", id).Delete(scoped).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&model.WalletModel{}).Error
	})
}
