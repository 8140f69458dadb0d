package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// ReportFilter selects the live entries of a wallet dated on or after From and
// before Until.
type ReportFilter struct {
	WalletID uuid.UUID
	From     time.Time
	Until    time.Time
	Type     *entity.TransactionType
}

// LedgerTotals aggregates a set of entries.
type LedgerTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
	Count   int64
}

// CategoryTotal is the sum of one category's entries of one type.
type CategoryTotal struct {
	CategoryID uuid.UUID
	Type       entity.TransactionType
	Total      decimal.Decimal
	Count      int64
}

// DailyTotal is the sum of the entries of one type dated on one day.
type DailyTotal struct {
	Date  time.Time
	Type  entity.TransactionType
	Total decimal.Decimal
}

// ReportRepository aggregates ledger entries for reports. Soft-deleted entries are
// never counted.
type ReportRepository interface {
	// Totals sums income, expense and the signed net of the filtered entries.
	Totals(ctx context.Context, filter ReportFilter) (*LedgerTotals, error)

	// TotalsByCategory sums the filtered entries per category and type.
	TotalsByCategory(ctx context.Context, filter ReportFilter) ([]CategoryTotal, error)

	// TotalsByDay sums the filtered entries per entry date and type, ordered by date.
	TotalsByDay(ctx context.Context, filter ReportFilter) ([]DailyTotal, error)
}
