package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CategoryBreakdown is the income and expense booked on one category.
type CategoryBreakdown struct {
	Category *entity.Category
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Count    int64
}

// GetSummaryOutput represents a wallet summary over a period.
type GetSummaryOutput struct {
	Income           decimal.Decimal
	Expense          decimal.Decimal
	Net              decimal.Decimal
	TransactionCount int64
	Categories       []CategoryBreakdown
}

// GetSummaryUseCase totals a wallet's income and expense over a period.
type GetSummaryUseCase struct {
	reportRepo   adapter.ReportRepository
	walletRepo   adapter.WalletRepository
	categoryRepo adapter.CategoryRepository
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(
	reportRepo adapter.ReportRepository,
	walletRepo adapter.WalletRepository,
	categoryRepo adapter.CategoryRepository,
) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		reportRepo:   reportRepo,
		walletRepo:   walletRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute builds the summary. Categories are ordered by name.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input Period) (*GetSummaryOutput, error) {
	filter, err := authorize(ctx, uc.walletRepo, input)
	if err != nil {
		return nil, err
	}

	totals, err := uc.reportRepo.Totals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to total entries: %w", err)
	}
	byCategory, err := uc.reportRepo.TotalsByCategory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to total entries by category: %w", err)
	}
	categories, err := categoryIndex(ctx, uc.categoryRepo, input.WalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	breakdown := make(map[uuid.UUID]*CategoryBreakdown)
	for _, total := range byCategory {
		category, ok := categories[total.CategoryID]
		if !ok {
			continue
		}
		b, ok := breakdown[total.CategoryID]
		if !ok {
			b = &CategoryBreakdown{Category: category, Income: decimal.Zero, Expense: decimal.Zero}
			breakdown[total.CategoryID] = b
		}
		if total.Type == entity.TransactionTypeIncome {
			b.Income = b.Income.Add(total.Total.Round(2))
		} else {
			b.Expense = b.Expense.Add(total.Total.Round(2))
		}
		b.Count += total.Count
	}

	output := &GetSummaryOutput{
		Income:           totals.Income.Round(2),
		Expense:          totals.Expense.Round(2),
		Net:              totals.Net.Round(2),
		TransactionCount: totals.Count,
		Categories:       make([]CategoryBreakdown, 0, len(breakdown)),
	}
	for _, b := range breakdown {
		output.Categories = append(output.Categories, *b)
	}
	sort.Slice(output.Categories, func(i, j int) bool {
		a, b := output.Categories[i].Category, output.Categories[j].Category
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Type < b.Type
	})

	return output, nil
}
