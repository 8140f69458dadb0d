package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

func requireBalanceMatchesLedger(t *testing.T, f fixture, repo *transactionRepository) {
	t.Helper()
	sum, err := repo.SignedSumByWallet(context.Background(), f.wallet.ID)
	require.NoError(t, err)
	assert.True(t, walletBalance(t, repo.db, f.wallet.ID).Equal(sum), "balance drifted from ledger sum %s", sum)
}

func TestTransactionRepository_BalanceFollowsLedger(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f := seedWallet(t, db, "0")
	repo := NewTransactionRepository(db).(*transactionRepository)

	salary := entity.NewTransaction(f.wallet.ID, f.wallet.UserID, decimal.RequireFromString("2500.00"),
		entity.TransactionTypeIncome, f.income.ID, "June salary", day(2024, time.June, 1), nil)
	gym := entity.NewTransaction(f.wallet.ID, f.wallet.UserID, decimal.RequireFromString("40.50"),
		entity.TransactionTypeExpense, f.expense.ID, "", day(2024, time.June, 2), nil)

	require.NoError(t, repo.CreateWithBalance(ctx, salary))
	require.NoError(t, repo.CreateWithBalance(ctx, gym))
	assert.True(t, walletBalance(t, db, f.wallet.ID).Equal(decimal.RequireFromString("2459.50")))
	requireBalanceMatchesLedger(t, f, repo)

	gym.Amount = decimal.RequireFromString("60.25")
	require.NoError(t, repo.UpdateWithBalance(ctx, gym))
	assert.True(t, walletBalance(t, db, f.wallet.ID).Equal(decimal.RequireFromString("2439.75")))
	requireBalanceMatchesLedger(t, f, repo)

	gym.Type = entity.TransactionTypeIncome
	gym.CategoryID = f.income.ID
	require.NoError(t, repo.UpdateWithBalance(ctx, gym))
	assert.True(t, walletBalance(t, db, f.wallet.ID).Equal(decimal.RequireFromString("2560.25")))
	requireBalanceMatchesLedger(t, f, repo)

	require.NoError(t, repo.DeleteWithBalance(ctx, salary.ID))
	assert.True(t, walletBalance(t, db, f.wallet.ID).Equal(decimal.RequireFromString("60.25")))
	requireBalanceMatchesLedger(t, f, repo)

	_, err := repo.FindByID(ctx, salary.ID)
	assert.ErrorIs(t, err, domainerror.ErrTransactionNotFound)
	assert.ErrorIs(t, repo.DeleteWithBalance(ctx, salary.ID), domainerror.ErrTransactionNotFound)
}

func TestTransactionRepository_CreateWithBalance_UnknownWallet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f := seedWallet(t, db, "0")
	require.NoError(t, db.Exec("DELETE FROM wallets WHERE id = ?", f.wallet.ID).Error)
	repo := NewTransactionRepository(db)

	entry := entity.NewTransaction(f.wallet.ID, f.wallet.UserID, decimal.NewFromInt(5),
		entity.TransactionTypeExpense, f.expense.ID, "", day(2024, time.June, 1), nil)
	err := repo.CreateWithBalance(ctx, entry)

	assert.ErrorIs(t, err, domainerror.ErrWalletNotFound)
	assert.Equal(t, int64(0), countEntries(t, db, f.wallet.ID))
}

func TestTransactionRepository_FindByFilter(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f := seedWallet(t, db, "0")
	repo := NewTransactionRepository(db)

	for d := 1; d <= 5; d++ {
		entry := entity.NewTransaction(f.wallet.ID, f.wallet.UserID, decimal.NewFromInt(int64(d)),
			entity.TransactionTypeExpense, f.expense.ID, "", day(2024, time.June, d), nil)
		require.NoError(t, repo.CreateWithBalance(ctx, entry))
	}

	start := day(2024, time.June, 2)
	end := day(2024, time.June, 4)
	result, err := repo.FindByFilter(ctx, adapterFilter(f, &start, &end), adapterPage(1, 2))
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Total)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Transactions, 2)
	assert.True(t, result.Transactions[0].Date.Equal(day(2024, time.June, 4)))
}

func adapterFilter(f fixture, start, end *time.Time) adapter.TransactionFilter {
	return adapter.TransactionFilter{WalletID: f.wallet.ID, StartDate: start, EndDate: end}
}

func adapterPage(page, limit int) adapter.Pagination {
	return adapter.Pagination{Page: page, Limit: limit}
}
