package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// Interval is the bucket width of a trend report.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// IsValid reports whether the interval is daily, weekly or monthly.
func (i Interval) IsValid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	}
	return false
}

// bucketStart returns the first day of the bucket containing day. Weeks start on Sunday.
func (i Interval) bucketStart(day time.Time) time.Time {
	day = valueobject.StartOfDay(day)
	switch i {
	case IntervalWeekly:
		return day.AddDate(0, 0, -int(day.Weekday()))
	case IntervalMonthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// GetTrendsInput represents the input for a trend report.
type GetTrendsInput struct {
	Period
	Interval Interval // Optional, defaults to daily
}

// TrendPoint is the income and expense of one bucket.
type TrendPoint struct {
	PeriodStart time.Time
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Net         decimal.Decimal
}

// GetTrendsOutput represents a trend report. Buckets without entries are omitted.
type GetTrendsOutput struct {
	Interval Interval
	Points   []TrendPoint
}

// GetTrendsUseCase buckets a wallet's income and expense by day, week or month.
type GetTrendsUseCase struct {
	reportRepo adapter.ReportRepository
	walletRepo adapter.WalletRepository
}

// NewGetTrendsUseCase creates a new GetTrendsUseCase instance.
func NewGetTrendsUseCase(reportRepo adapter.ReportRepository, walletRepo adapter.WalletRepository) *GetTrendsUseCase {
	return &GetTrendsUseCase{
		reportRepo: reportRepo,
		walletRepo: walletRepo,
	}
}

// Execute builds the report.
func (uc *GetTrendsUseCase) Execute(ctx context.Context, input GetTrendsInput) (*GetTrendsOutput, error) {
	interval := input.Interval
	if interval == "" {
		interval = IntervalDaily
	}
	if !interval.IsValid() {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidReportInterval,
			"interval must be 'daily', 'weekly' or 'monthly'",
			domainerror.ErrInvalidReportInterval,
		)
	}

	filter, err := authorize(ctx, uc.walletRepo, input.Period)
	if err != nil {
		return nil, err
	}

	daily, err := uc.reportRepo.TotalsByDay(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to total entries by day: %w", err)
	}

	buckets := make(map[time.Time]*TrendPoint)
	for _, total := range daily {
		start := interval.bucketStart(total.Date)
		point, ok := buckets[start]
		if !ok {
			point = &TrendPoint{PeriodStart: start, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[start] = point
		}
		if total.Type == entity.TransactionTypeIncome {
			point.Income = point.Income.Add(total.Total)
		} else {
			point.Expense = point.Expense.Add(total.Total)
		}
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, point := range buckets {
		point.Income = point.Income.Round(2)
		point.Expense = point.Expense.Round(2)
		point.Net = point.Income.Sub(point.Expense)
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].PeriodStart.Before(points[j].PeriodStart)
	})

	return &GetTrendsOutput{Interval: interval, Points: points}, nil
}
