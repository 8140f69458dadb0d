package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// CreateWithBalance inserts an entry and applies its signed amount to the wallet balance.
func (r *transactionRepository) CreateWithBalance(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model.TransactionFromEntity(transaction)).Error; err != nil {
			return err
		}
		return incrementBalance(tx, transaction.WalletID, transaction.BalanceDelta(), transaction.CreatedAt)
	})
}

// FindByID retrieves an entry by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// FindByFilter retrieves entries based on filter criteria with pagination.
func (r *transactionRepository) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.Pagination) (*entity.TransactionListResult, error) {
	query := r.db.WithContext(ctx).Model(&model.TransactionModel{})

	query = query.Where("wallet_id = ?", filter.WalletID)

	if filter.StartDate != nil {
		query = query.Where("date >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", filter.EndDate.UTC())
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.RecurrenceRuleID != nil {
		query = query.Where("recurrence_rule_id = ?", *filter.RecurrenceRuleID)
	}

	var total int64
	countQuery := query.Session(&gorm.Session{})
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (pagination.Page - 1) * pagination.Limit
	totalPages := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	if totalPages == 0 {
		totalPages = 1
	}

	var transactionModels []model.TransactionModel
	result := query.
		Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(pagination.Limit).
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i, tm := range transactionModels {
		transactions[i] = tm.ToEntity()
	}

	return &entity.TransactionListResult{
		Transactions: transactions,
		Total:        total,
		Page:         pagination.Page,
		Limit:        pagination.Limit,
		TotalPages:   totalPages,
	}, nil
}

// UpdateWithBalance saves an entry and moves the wallet balance by the difference
// between the new and the stored signed amount.
func (r *transactionRepository) UpdateWithBalance(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.TransactionModel
		if err := lockingRead(tx).Where("id = ?", transaction.ID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrTransactionNotFound
			}
			return err
		}
		if current.WalletID != transaction.WalletID {
			return domainerror.ErrLedgerInvariantViolation
		}

		result := tx.Model(&model.TransactionModel{}).
			Where("id = ?", transaction.ID).
			Updates(map[string]interface{}{
				"amount":      transaction.Amount,
				"type":        string(transaction.Type),
				"category_id": transaction.CategoryID,
				"description": transaction.Description,
				"date":        transaction.Date.UTC(),
				"updated_at":  transaction.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return domainerror.ErrLedgerInvariantViolation
		}

		previous := entity.SignedAmount(entity.TransactionType(current.Type), current.Amount)
		delta := transaction.BalanceDelta().Sub(previous)
		if delta.IsZero() {
			return nil
		}
		return incrementBalance(tx, transaction.WalletID, delta, transaction.UpdatedAt)
	})
}

// DeleteWithBalance soft-deletes an entry and reverts its signed amount.
func (r *transactionRepository) DeleteWithBalance(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.TransactionModel
		if err := lockingRead(tx).Where("id = ?", id).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrTransactionNotFound
			}
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.TransactionModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return domainerror.ErrLedgerInvariantViolation
		}

		signed := entity.SignedAmount(entity.TransactionType(current.Type), current.Amount)
		return incrementBalance(tx, current.WalletID, signed.Neg(), tx.NowFunc())
	})
}

// SignedSumByWallet returns the sum of signed amounts of all live entries of a wallet.
func (r *transactionRepository) SignedSumByWallet(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select(signedAmountExpr).
		Where("wallet_id = ? AND deleted_at IS NULL", walletID).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
