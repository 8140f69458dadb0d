package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

var asOf = time.Date(2024, time.June, 15, 13, 45, 0, 0, time.UTC)

func applicationFor(rule *entity.RecurrenceRule) *adapter.RecurrenceApplication {
	entry := entity.NewTransaction(
		rule.WalletID, rule.UserID, rule.Amount, rule.TransactionType,
		rule.CategoryID, rule.LedgerDescription(), *rule.NextRunAt, &rule.ID,
	)
	return &adapter.RecurrenceApplication{
		RuleID:            rule.ID,
		WalletID:          rule.WalletID,
		ExpectedNextRunAt: *rule.NextRunAt,
		Entry:             entry,
		BalanceDelta:      rule.BalanceDelta(),
		Advance:           rule.Advance(asOf),
		AppliedAt:         asOf,
	}
}

func TestRecurrenceRepository_ApplyAtomically(t *testing.T) {
	ctx := context.Background()

	t.Run("commits entry, balance and schedule together", func(t *testing.T) {
		db := newTestDB(t)
		f := seedWallet(t, db, "100.00")
		rule := seedRule(t, db, f, day(2024, time.June, 15), nil)
		repo := NewRecurrenceRepository(db)

		require.NoError(t, repo.ApplyAtomically(ctx, applicationFor(rule)))

		assert.True(t, walletBalance(t, db, f.wallet.ID).Equal(decimal.RequireFromString("90.00")))

		entries, err := NewTransactionRepository(db).FindByFilter(ctx, adapter.TransactionFilter{
			WalletID:         f.wallet.ID,
			RecurrenceRuleID: &rule.ID,
		}, adapter.Pagination{Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, entries.Transactions, 1)
		entry := entries.Transactions[0]
		assert.True(t, entry.Amount.Equal(decimal.RequireFromString("10.00")))
		assert.Equal(t, entity.TransactionTypeExpense, entry.Type)
		assert.True(t, entry.Date.Equal(day(2024, time.June, 15)))
		assert.Equal(t, "Recurring: Gym", entry.Description)

		stored, err := repo.FindByID(ctx, rule.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.LastRunAt)
		assert.True(t, stored.LastRunAt.Equal(day(2024, time.June, 15)))
		require.NotNil(t, stored.NextRunAt)
		assert.True(t, stored.NextRunAt.Equal(day(2024, time.July, 15)))
		assert.True(t, stored.IsActive)
	})

	t.Run("stamps wallet and rule with the application time", func(t *testing.T) {
		db := newTestDB(t)
		f := seedWallet(t, db, "100.00")
		rule := seedRule(t, db, f, day(2024, time.June, 15), nil)
		repo := NewRecurrenceRepository(db)

		require.NoError(t, repo.ApplyAtomically(ctx, applicationFor(rule)))

		wallet, err := NewWalletRepository(db).FindByID(ctx, f.wallet.ID)
		require.NoError(t, err)
		assert.True(t, wallet.UpdatedAt.Equal(asOf), "wallet updated_at = %s", wallet.UpdatedAt)

		stored, err := repo.FindByID(ctx, rule.ID)
		require.NoError(t, err)
		assert.True(t, stored.UpdatedAt.Equal(asOf), "rule updated_at = %s", stored.UpdatedAt)
	})

	t.Run("second application with the same snapshot is rejected", func(t *testing.T) {
		db := newTestDB(t)
		f := seedWallet(t, db, "100.00")
		rule := seedRule(t, db, f, day(2024, time.June, 15), nil)
		repo := NewRecurrenceRepository(db)

		require.NoError(t, repo.ApplyAtomically(ctx, applicationFor(rule)))
		err := repo.ApplyAtomically(ctx, applicationFor(rule))

		assert.ErrorIs(t, err, domainerror.ErrRecurrenceAlreadyApplied)
		assert.True(t, walletBalance(t, db, f.wallet.ID).Equal(decimal.RequireFromString("90.00")))
		assert.Equal(t, int64(1), countEntries(t, db, f.wallet.ID))
	})

	t.Run("missing wallet rolls back the inserted entry", func(t *testing.T) {
		db := newTestDB(t)
		f := seedWallet(t, db, "100.00")
		rule := seedRule(t, db, f, day(2024, time.June, 15), nil)
		require.NoError(t, db.Exec("DELETE FROM wallets WHERE id = ?", f.wallet.ID).Error)
		repo := NewRecurrenceRepository(db)

		err := repo.ApplyAtomically(ctx, applicationFor(rule))

		assert.ErrorIs(t, err, domainerror.ErrWalletNotFound)
		assert.Equal(t, int64(0), countEntries(t, db, f.wallet.ID))
		stored, err := repo.FindByID(ctx, rule.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.LastRunAt)
		assert.True(t, stored.NextRunAt.Equal(day(2024, time.June, 15)))
	})

	t.Run("missing category skips the rule", func(t *testing.T) {
		db := newTestDB(t)
		f := seedWallet(t, db, "100.00")
		rule := seedRule(t, db, f, day(2024, time.June, 15), func(r *entity.RecurrenceRule) {
			r.CategoryID = uuid.New()
		})

		err := NewRecurrenceRepository(db).ApplyAtomically(ctx, applicationFor(rule))

		assert.ErrorIs(t, err, domainerror.ErrCategoryNotFound)
		assert.True(t, walletBalance(t, db, f.wallet.ID).Equal(decimal.RequireFromString("100.00")))
		assert.Equal(t, int64(0), countEntries(t, db, f.wallet.ID))
	})

	t.Run("terminates rule past its end date", func(t *testing.T) {
		db := newTestDB(t)
		f := seedWallet(t, db, "0")
		rule := seedRule(t, db, f, day(2024, time.June, 15), func(r *entity.RecurrenceRule) {
			r.TransactionType = entity.TransactionTypeIncome
			r.CategoryID = f.income.ID
			r.EndDate = dayPtr(2024, time.June, 30)
		})
		repo := NewRecurrenceRepository(db)

		require.NoError(t, repo.ApplyAtomically(ctx, applicationFor(rule)))

		stored, err := repo.FindByID(ctx, rule.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsActive)
		assert.Nil(t, stored.NextRunAt)
		assert.True(t, walletBalance(t, db, f.wallet.ID).Equal(decimal.RequireFromString("10")))

		due, err := repo.FindDue(ctx, day(2024, time.December, 31))
		require.NoError(t, err)
		assert.Empty(t, due)
	})
}

func TestRecurrenceRepository_FindDue(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f := seedWallet(t, db, "0")

	dueToday := seedRule(t, db, f, day(2024, time.June, 15), nil)
	overdue := seedRule(t, db, f, day(2024, time.June, 1), nil)
	endsToday := seedRule(t, db, f, day(2024, time.June, 10), func(r *entity.RecurrenceRule) {
		r.EndDate = dayPtr(2024, time.June, 15)
	})
	seedRule(t, db, f, day(2024, time.June, 16), nil)
	seedRule(t, db, f, day(2024, time.June, 1), func(r *entity.RecurrenceRule) { r.IsActive = false })
	seedRule(t, db, f, day(2024, time.June, 1), func(r *entity.RecurrenceRule) {
		r.EndDate = dayPtr(2024, time.June, 14)
	})
	seedRule(t, db, f, day(2024, time.June, 1), func(r *entity.RecurrenceRule) {
		r.StartDate = day(2024, time.June, 20)
	})
	seedRule(t, db, f, day(2024, time.June, 1), func(r *entity.RecurrenceRule) { r.NextRunAt = nil })

	rules, err := NewRecurrenceRepository(db).FindDue(ctx, asOf)
	require.NoError(t, err)

	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID.String()
	}
	assert.ElementsMatch(t, []string{dueToday.ID.String(), overdue.ID.String(), endsToday.ID.String()}, ids)
	assert.IsIncreasing(t, ids)
}

func TestRecurrenceRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f := seedWallet(t, db, "100.00")
	rule := seedRule(t, db, f, day(2024, time.June, 15), nil)
	repo := NewRecurrenceRepository(db)

	t.Run("rejects a stale schedule snapshot", func(t *testing.T) {
		snapshot := *rule.NextRunAt
		require.NoError(t, repo.ApplyAtomically(ctx, applicationFor(rule)))

		rule.Name = "Renamed"
		err := repo.Update(ctx, rule, &snapshot)

		assert.ErrorIs(t, err, domainerror.ErrRecurrenceAlreadyApplied)
	})

	t.Run("saves with a current snapshot", func(t *testing.T) {
		current, err := repo.FindByID(ctx, rule.ID)
		require.NoError(t, err)

		current.Name = "Renamed"
		require.NoError(t, repo.Update(ctx, current, current.NextRunAt))

		stored, err := repo.FindByID(ctx, rule.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", stored.Name)
	})
}

func TestRecurrenceRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f := seedWallet(t, db, "100.00")
	rule := seedRule(t, db, f, day(2024, time.June, 15), nil)
	repo := NewRecurrenceRepository(db)
	require.NoError(t, repo.ApplyAtomically(ctx, applicationFor(rule)))

	require.NoError(t, repo.Delete(ctx, rule.ID))

	_, err := repo.FindByID(ctx, rule.ID)
	assert.ErrorIs(t, err, domainerror.ErrRecurrenceNotFound)

	entries, err := NewTransactionRepository(db).FindByFilter(ctx, adapter.TransactionFilter{WalletID: f.wallet.ID}, adapter.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries.Transactions, 1)
	assert.Nil(t, entries.Transactions[0].RecurrenceRuleID)

	assert.ErrorIs(t, repo.Delete(ctx, rule.ID), domainerror.ErrRecurrenceNotFound)
}

func TestRecurrenceRepository_FindByWallet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	f := seedWallet(t, db, "0")
	for i := 0; i < 3; i++ {
		seedRule(t, db, f, day(2024, time.June, 15), nil)
	}

	page, err := NewRecurrenceRepository(db).FindByWallet(ctx, f.wallet.ID, adapter.Pagination{Page: 1, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, page.Rules, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}
