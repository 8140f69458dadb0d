package wallet

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/persistence"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

func openTestDB(t *testing.T) *gorm.DB {
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

func TestCreateWalletUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds default categories", func(t *testing.T) {
		db := openTestDB(t)
		walletRepo := persistence.NewWalletRepository(db)
		categoryRepo := persistence.NewCategoryRepository(db)
		userID := uuid.New()

		out, err := NewCreateWalletUseCase(walletRepo, 3).Execute(ctx, CreateWalletInput{
			UserID:   userID,
			Name:     "  Household  ",
			Currency: "eur",
		})
		require.NoError(t, err)

		assert.Equal(t, "Household", out.Wallet.Name)
		assert.Equal(t, "EUR", out.Wallet.Currency)
		assert.True(t, out.Wallet.Balance.IsZero())

		stored, err := categoryRepo.FindByWallet(ctx, out.Wallet.ID, nil)
		require.NoError(t, err)
		assert.Len(t, stored, len(entity.DefaultCategories))

		income := entity.CategoryTypeIncome
		incomeOnly, err := categoryRepo.FindByWallet(ctx, out.Wallet.ID, &income)
		require.NoError(t, err)
		for _, c := range incomeOnly {
			assert.Equal(t, entity.CategoryTypeIncome, c.Type)
		}
	})

	t.Run("defaults currency", func(t *testing.T) {
		db := openTestDB(t)

		out, err := NewCreateWalletUseCase(persistence.NewWalletRepository(db), 0).Execute(ctx, CreateWalletInput{
			UserID: uuid.New(),
			Name:   "Main",
		})
		require.NoError(t, err)

		assert.Equal(t, entity.DefaultCurrency, out.Wallet.Currency)
	})

	t.Run("enforces the per-user limit", func(t *testing.T) {
		db := openTestDB(t)
		uc := NewCreateWalletUseCase(persistence.NewWalletRepository(db), 2)
		userID := uuid.New()

		for i := 0; i < 2; i++ {
			_, err := uc.Execute(ctx, CreateWalletInput{UserID: userID, Name: "Wallet"})
			require.NoError(t, err)
		}

		_, err := uc.Execute(ctx, CreateWalletInput{UserID: userID, Name: "One too many"})

		var walletErr *domainerror.WalletError
		require.ErrorAs(t, err, &walletErr)
		assert.Equal(t, domainerror.ErrCodeMaxWalletsReached, walletErr.Code)
	})

	validation := []struct {
		name  string
		input CreateWalletInput
		code  domainerror.WalletErrorCode
	}{
		{"empty name", CreateWalletInput{Name: " "}, domainerror.ErrCodeWalletNameRequired},
		{"long name", CreateWalletInput{Name: strings.Repeat("a", MaxWalletNameLength+1)}, domainerror.ErrCodeWalletNameTooLong},
		{"bad currency", CreateWalletInput{Name: "Main", Currency: "EURO"}, domainerror.ErrCodeInvalidCurrency},
		{"numeric currency", CreateWalletInput{Name: "Main", Currency: "978"}, domainerror.ErrCodeInvalidCurrency},
	}
	for _, tt := range validation {
		t.Run(tt.name, func(t *testing.T) {
			db := openTestDB(t)
			tt.input.UserID = uuid.New()

			_, err := NewCreateWalletUseCase(persistence.NewWalletRepository(db), 3).Execute(ctx, tt.input)

			var walletErr *domainerror.WalletError
			require.ErrorAs(t, err, &walletErr)
			assert.Equal(t, tt.code, walletErr.Code)
		})
	}
}

func TestGetAndListWallets(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	walletRepo := persistence.NewWalletRepository(db)
	userID := uuid.New()

	created, err := NewCreateWalletUseCase(walletRepo, 0).Execute(ctx, CreateWalletInput{UserID: userID, Name: "Main"})
	require.NoError(t, err)
	_, err = NewCreateWalletUseCase(walletRepo, 0).Execute(ctx, CreateWalletInput{UserID: uuid.New(), Name: "Other"})
	require.NoError(t, err)

	list, err := NewListWalletsUseCase(walletRepo).Execute(ctx, ListWalletsInput{UserID: userID})
	require.NoError(t, err)
	require.Len(t, list.Wallets, 1)
	assert.Equal(t, created.Wallet.ID, list.Wallets[0].ID)

	got, err := NewGetWalletUseCase(walletRepo).Execute(ctx, GetWalletInput{UserID: userID, WalletID: created.Wallet.ID})
	require.NoError(t, err)
	assert.Equal(t, "Main", got.Name)

	_, err = NewGetWalletUseCase(walletRepo).Execute(ctx, GetWalletInput{UserID: uuid.New(), WalletID: created.Wallet.ID})
	assert.True(t, errors.Is(err, domainerror.ErrNotAuthorizedToAccessWallet))

	_, err = NewGetWalletUseCase(walletRepo).Execute(ctx, GetWalletInput{UserID: userID, WalletID: uuid.New()})
	assert.True(t, errors.Is(err, domainerror.ErrWalletNotFound))
}

func TestVerifyBalanceUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	walletRepo := persistence.NewWalletRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	userID := uuid.New()

	created, err := NewCreateWalletUseCase(walletRepo, 0).Execute(ctx, CreateWalletInput{UserID: userID, Name: "Main"})
	require.NoError(t, err)

	var salary *entity.Category
	for _, c := range created.Categories {
		if c.Name == "Salary" {
			salary = c
		}
	}
	require.NotNil(t, salary)

	entry := entity.NewTransaction(created.Wallet.ID, userID, decimal.RequireFromString("60.25"),
		entity.TransactionTypeIncome, salary.ID, "Paycheck", created.Wallet.CreatedAt, nil)
	require.NoError(t, transactionRepo.CreateWithBalance(ctx, entry))

	uc := NewVerifyBalanceUseCase(walletRepo, transactionRepo)

	check, err := uc.Execute(ctx, VerifyBalanceInput{UserID: userID, WalletID: created.Wallet.ID})
	require.NoError(t, err)
	assert.True(t, check.Consistent())
	assert.True(t, check.LedgerBalance.Equal(decimal.RequireFromString("60.25")))

	require.NoError(t, db.Exec("UPDATE wallets SET balance = ? WHERE id = ?", "70.25", created.Wallet.ID).Error)

	check, err = uc.Execute(ctx, VerifyBalanceInput{UserID: userID, WalletID: created.Wallet.ID})
	require.NoError(t, err)
	assert.False(t, check.Consistent())
	assert.True(t, check.Drift().Equal(decimal.RequireFromString("10")), "drift %s", check.Drift())
}

func TestListWallets_IncludesAcceptedShares(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	walletRepo := persistence.NewWalletRepository(db)
	shareRepo := persistence.NewWalletShareRepository(db)
	owner, friend := uuid.New(), uuid.New()

	own, err := NewCreateWalletUseCase(walletRepo, 0).Execute(ctx, CreateWalletInput{UserID: friend, Name: "Mine"})
	require.NoError(t, err)
	shared, err := NewCreateWalletUseCase(walletRepo, 0).Execute(ctx, CreateWalletInput{UserID: owner, Name: "Household"})
	require.NoError(t, err)
	pending, err := NewCreateWalletUseCase(walletRepo, 0).Execute(ctx, CreateWalletInput{UserID: owner, Name: "Travel fund"})
	require.NoError(t, err)

	accepted := entity.NewWalletShare(shared.Wallet.ID, owner, "friend@example.com", entity.SharePermissionView)
	accepted.Accept(friend)
	require.NoError(t, shareRepo.Create(ctx, accepted))
	require.NoError(t, shareRepo.Create(ctx, entity.NewWalletShare(pending.Wallet.ID, owner, "friend@example.com", entity.SharePermissionEdit)))

	list, err := NewListWalletsUseCase(walletRepo).Execute(ctx, ListWalletsInput{UserID: friend})
	require.NoError(t, err)
	require.Len(t, list.Wallets, 2)
	assert.Equal(t, own.Wallet.ID, list.Wallets[0].ID)
	assert.Equal(t, shared.Wallet.ID, list.Wallets[1].ID)

	got, err := NewGetWalletUseCase(walletRepo).Execute(ctx, GetWalletInput{UserID: friend, WalletID: shared.Wallet.ID})
	require.NoError(t, err)
	assert.Equal(t, owner, got.UserID)

	_, err = NewGetWalletUseCase(walletRepo).Execute(ctx, GetWalletInput{UserID: friend, WalletID: pending.Wallet.ID})
	assert.True(t, errors.Is(err, domainerror.ErrNotAuthorizedToAccessWallet))
}

func TestUpdateWalletUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	walletRepo := persistence.NewWalletRepository(db)
	userID := uuid.New()

	created, err := NewCreateWalletUseCase(walletRepo, 0).Execute(ctx, CreateWalletInput{UserID: userID, Name: "Main"})
	require.NoError(t, err)
	uc := NewUpdateWalletUseCase(walletRepo)
	name, currency, description := " Family ", "eur", "Shared costs"

	updated, err := uc.Execute(ctx, UpdateWalletInput{
		UserID: userID, WalletID: created.Wallet.ID, Name: &name, Currency: &currency, Description: &description,
	})
	require.NoError(t, err)
	assert.Equal(t, "Family", updated.Name)
	assert.Equal(t, "EUR", updated.Currency)

	stored, err := walletRepo.FindByID(ctx, created.Wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Family", stored.Name)
	assert.Equal(t, "Shared costs", stored.Description)
	assert.True(t, stored.Balance.IsZero())

	t.Run("bad currency", func(t *testing.T) {
		bad := "EURO"
		_, err := uc.Execute(ctx, UpdateWalletInput{UserID: userID, WalletID: created.Wallet.ID, Currency: &bad})

		var walletErr *domainerror.WalletError
		require.ErrorAs(t, err, &walletErr)
		assert.Equal(t, domainerror.ErrCodeInvalidCurrency, walletErr.Code)
	})

	t.Run("editor is not the owner", func(t *testing.T) {
		editor := uuid.New()
		share := entity.NewWalletShare(created.Wallet.ID, userID, "editor@example.com", entity.SharePermissionEdit)
		share.Accept(editor)
		require.NoError(t, persistence.NewWalletShareRepository(db).Create(ctx, share))

		_, err := uc.Execute(ctx, UpdateWalletInput{UserID: editor, WalletID: created.Wallet.ID, Name: &name})
		assert.True(t, errors.Is(err, domainerror.ErrNotAuthorizedToAccessWallet))
	})
}

func TestDeleteWalletUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	walletRepo := persistence.NewWalletRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	userID := uuid.New()

	created, err := NewCreateWalletUseCase(walletRepo, 0).Execute(ctx, CreateWalletInput{UserID: userID, Name: "Main"})
	require.NoError(t, err)
	require.NoError(t, persistence.NewWalletShareRepository(db).Create(ctx,
		entity.NewWalletShare(created.Wallet.ID, userID, "friend@example.com", entity.SharePermissionView)))

	category := created.Categories[0]
	txType := entity.TransactionTypeExpense
	if category.Type == entity.CategoryTypeIncome {
		txType = entity.TransactionTypeIncome
	}
	entry := entity.NewTransaction(created.Wallet.ID, userID, decimal.RequireFromString("5"),
		txType, category.ID, "", created.Wallet.CreatedAt, nil)
	require.NoError(t, transactionRepo.CreateWithBalance(ctx, entry))

	uc := NewDeleteWalletUseCase(walletRepo)

	err = uc.Execute(ctx, DeleteWalletInput{UserID: uuid.New(), WalletID: created.Wallet.ID})
	assert.True(t, errors.Is(err, domainerror.ErrNotAuthorizedToAccessWallet))

	err = uc.Execute(ctx, DeleteWalletInput{UserID: userID, WalletID: created.Wallet.ID})
	var walletErr *domainerror.WalletError
	require.ErrorAs(t, err, &walletErr)
	assert.Equal(t, domainerror.ErrCodeWalletHasEntries, walletErr.Code)

	require.NoError(t, transactionRepo.DeleteWithBalance(ctx, entry.ID))
	require.NoError(t, uc.Execute(ctx, DeleteWalletInput{UserID: userID, WalletID: created.Wallet.ID}))

	_, err = walletRepo.FindByID(ctx, created.Wallet.ID)
	assert.True(t, errors.Is(err, domainerror.ErrWalletNotFound))

	var leftovers int64
	for _, table := range []string{"categories", "wallet_shares", "transactions"} {
		require.NoError(t, db.Table(table).Where("wallet_id = ?", created.Wallet.ID).Count(&leftovers).Error)
		assert.Zero(t, leftovers, table)
	}
}
