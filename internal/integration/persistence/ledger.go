package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

// incrementBalance adds delta to the wallet's cached balance with a single atomic
// UPDATE. It never reads the balance first.
func incrementBalance(tx *gorm.DB, walletID uuid.UUID, delta decimal.Decimal, at time.Time) error {
	result := tx.Model(&model.WalletModel{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return domainerror.ErrWalletNotFound
	}
	return nil
}

// lockingRead adds SELECT ... FOR UPDATE where the dialect supports row locks.
// SQLite serializes writers on its own.
func lockingRead(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// signedAmountExpr is the SQL form of entity.SignedAmount.
const signedAmountExpr = "COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE -amount END), 0)"
