package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

const (
	incomeAmountExpr  = "COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE 0 END), 0)"
	expenseAmountExpr = "COALESCE(SUM(CASE WHEN type = 'EXPENSE' THEN amount ELSE 0 END), 0)"
)

type totalsRow struct {
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Net        decimal.Decimal
	EntryCount int64
}

type categoryTotalRow struct {
	CategoryID uuid.UUID
	Type       string
	Total      decimal.Decimal
	EntryCount int64
}

type dailyTotalRow struct {
	Date  time.Time
	Type  string
	Total decimal.Decimal
}

// reportRepository implements the adapter.ReportRepository interface with SQL aggregates.
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance.
func NewReportRepository(db *gorm.DB) adapter.ReportRepository {
	return &reportRepository{
		db: db,
	}
}

func (r *reportRepository) entries(ctx context.Context, filter adapter.ReportFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("wallet_id = ? AND deleted_at IS NULL", filter.WalletID).
		Where("date >= ? AND date < ?", filter.From.UTC(), filter.Until.UTC())
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	return query
}

// Totals sums income, expense and the signed net of the filtered entries.
func (r *reportRepository) Totals(ctx context.Context, filter adapter.ReportFilter) (*adapter.LedgerTotals, error) {
	var row totalsRow
	err := r.entries(ctx, filter).
		Select(incomeAmountExpr + " AS income, " +
			expenseAmountExpr + " AS expense, " +
			signedAmountExpr + " AS net, " +
			"COUNT(*) AS entry_count").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &adapter.LedgerTotals{
		Income:  row.Income,
		Expense: row.Expense,
		Net:     row.Net,
		Count:   row.EntryCount,
	}, nil
}

// TotalsByCategory sums the filtered entries per category and type.
func (r *reportRepository) TotalsByCategory(ctx context.Context, filter adapter.ReportFilter) ([]adapter.CategoryTotal, error) {
	var rows []categoryTotalRow
	err := r.entries(ctx, filter).
		Select("category_id, type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS entry_count").
		Group("category_id, type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]adapter.CategoryTotal, len(rows))
	for i, row := range rows {
		totals[i] = adapter.CategoryTotal{
			CategoryID: row.CategoryID,
			Type:       entity.TransactionType(row.Type),
			Total:      row.Total,
			Count:      row.EntryCount,
		}
	}
	return totals, nil
}

// TotalsByDay sums the filtered entries per entry date and type, ordered by date.
func (r *reportRepository) TotalsByDay(ctx context.Context, filter adapter.ReportFilter) ([]adapter.DailyTotal, error) {
	var rows []dailyTotalRow
	err := r.entries(ctx, filter).
		Select("date, type, COALESCE(SUM(amount), 0) AS total").
		Group("date, type").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]adapter.DailyTotal, len(rows))
	for i, row := range rows {
		totals[i] = adapter.DailyTotal{
			Date:  row.Date.UTC(),
			Type:  entity.TransactionType(row.Type),
			Total: row.Total,
		}
	}
	return totals, nil
}
