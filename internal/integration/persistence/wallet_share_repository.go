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

// walletShareRepository implements the adapter.WalletShareRepository interface.
type walletShareRepository struct {
	db *gorm.DB
}

// NewWalletShareRepository creates a new wallet share repository instance.
func NewWalletShareRepository(db *gorm.DB) adapter.WalletShareRepository {
	return &walletShareRepository{
		db: db,
	}
}

// Create stores a new share.
func (r *walletShareRepository) Create(ctx context.Context, share *entity.WalletShare) error {
	result := r.db.WithContext(ctx).Create(model.WalletShareFromEntity(share))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerror.ErrWalletAlreadyShared
		}
		return result.Error
	}
	return nil
}

// FindByID retrieves a share by its ID.
func (r *walletShareRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.WalletShare, error) {
	var shareModel model.WalletShareModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&shareModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrShareNotFound
		}
		return nil, result.Error
	}
	return shareModel.ToEntity(), nil
}

// FindByWallet retrieves every share of a wallet.
func (r *walletShareRepository) FindByWallet(ctx context.Context, walletID uuid.UUID) ([]*entity.WalletShare, error) {
	return r.find(r.db.WithContext(ctx).Where("wallet_id = ?", walletID))
}

// FindPendingByEmail retrieves the unanswered invitations sent to email.
func (r *walletShareRepository) FindPendingByEmail(ctx context.Context, email string) ([]*entity.WalletShare, error) {
	return r.find(r.db.WithContext(ctx).
		Where("email = ? AND status = ?", entity.NormalizeEmail(email), string(entity.ShareStatusPending)))
}

func (r *walletShareRepository) find(query *gorm.DB) ([]*entity.WalletShare, error) {
	var shareModels []model.WalletShareModel
	if err := query.Order("created_at ASC").Find(&shareModels).Error; err != nil {
		return nil, err
	}

	shares := make([]*entity.WalletShare, len(shareModels))
	for i, sm := range shareModels {
		shares[i] = sm.ToEntity()
	}
	return shares, nil
}

// Update saves a share's status, permission and bound user.
func (r *walletShareRepository) Update(ctx context.Context, share *entity.WalletShare) error {
	result := r.db.WithContext(ctx).
		Model(&model.WalletShareModel{}).
		Where("id = ?", share.ID).
		Updates(map[string]interface{}{
			"user_id":    share.UserID,
			"permission": string(share.Permission),
			"status":     string(share.Status),
			"updated_at": share.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return domainerror.ErrShareNotFound
	}
	return nil
}

// Delete removes a share.
func (r *walletShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.WalletShareModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return domainerror.ErrShareNotFound
	}
	return nil
}
