package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(year int, month time.Month, d int) *time.Time {
	v := day(year, month, d)
	return &v
}

type fixture struct {
	wallet  *entity.Wallet
	expense *entity.Category
	income  *entity.Category
}

func seedWallet(t *testing.T, db *gorm.DB, balance string) fixture {
	t.Helper()
	ctx := context.Background()

	wallet := entity.NewWallet(uuid.New(), "Main", "USD", "")
	wallet.Balance = decimal.RequireFromString(balance)
	expense := entity.NewCategory(wallet.ID, "Gym", entity.CategoryTypeExpense)
	income := entity.NewCategory(wallet.ID, "Salary", entity.CategoryTypeIncome)

	err := NewWalletRepository(db).CreateWithCategories(ctx, wallet, []*entity.Category{expense, income})
	require.NoError(t, err)

	return fixture{wallet: wallet, expense: expense, income: income}
}

func seedRule(t *testing.T, db *gorm.DB, f fixture, next time.Time, mutate func(r *entity.RecurrenceRule)) *entity.RecurrenceRule {
	t.Helper()

	rule := &entity.RecurrenceRule{
		ID:              uuid.New(),
		WalletID:        f.wallet.ID,
		UserID:          f.wallet.UserID,
		Name:            "Gym",
		Amount:          decimal.RequireFromString("10.00"),
		TransactionType: entity.TransactionTypeExpense,
		Frequency:       valueobject.FrequencyMonthly,
		CategoryID:      f.expense.ID,
		StartDate:       day(2024, time.January, 1),
		IsActive:        true,
		NextRunAt:       &next,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	if mutate != nil {
		mutate(rule)
	}

	require.NoError(t, NewRecurrenceRepository(db).Create(context.Background(), rule))
	return rule
}

func walletBalance(t *testing.T, db *gorm.DB, walletID uuid.UUID) decimal.Decimal {
	t.Helper()
	wallet, err := NewWalletRepository(db).FindByID(context.Background(), walletID)
	require.NoError(t, err)
	return wallet.Balance
}

func countEntries(t *testing.T, db *gorm.DB, walletID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.TransactionModel{}).Where("wallet_id = ?", walletID).Count(&count).Error)
	return count
}
