package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// GetByCategoryInput represents the input for a per-category report.
type GetByCategoryInput struct {
	Period
	Type *entity.TransactionType // Optional filter
}

// CategoryAmount is the total booked on one category.
type CategoryAmount struct {
	Category *entity.Category
	Amount   decimal.Decimal
	Count    int64
}

// GetByCategoryOutput represents a per-category report, largest amount first.
type GetByCategoryOutput struct {
	Items []CategoryAmount
}

// GetByCategoryUseCase ranks a wallet's categories by the amount booked on them.
type GetByCategoryUseCase struct {
	reportRepo   adapter.ReportRepository
	walletRepo   adapter.WalletRepository
	categoryRepo adapter.CategoryRepository
}

// NewGetByCategoryUseCase creates a new GetByCategoryUseCase instance.
func NewGetByCategoryUseCase(
	reportRepo adapter.ReportRepository,
	walletRepo adapter.WalletRepository,
	categoryRepo adapter.CategoryRepository,
) *GetByCategoryUseCase {
	return &GetByCategoryUseCase{
		reportRepo:   reportRepo,
		walletRepo:   walletRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute builds the report.
func (uc *GetByCategoryUseCase) Execute(ctx context.Context, input GetByCategoryInput) (*GetByCategoryOutput, error) {
	if input.Type != nil && !input.Type.IsValid() {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidReportType,
			"type must be 'INCOME' or 'EXPENSE'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	filter, err := authorize(ctx, uc.walletRepo, input.Period)
	if err != nil {
		return nil, err
	}
	filter.Type = input.Type

	totals, err := uc.reportRepo.TotalsByCategory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to total entries by category: %w", err)
	}
	categories, err := categoryIndex(ctx, uc.categoryRepo, input.WalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	// A category only ever holds entries of its own type, so each category yields
	// at most one row.
	items := make([]CategoryAmount, 0, len(totals))
	for _, total := range totals {
		category, ok := categories[total.CategoryID]
		if !ok {
			continue
		}
		items = append(items, CategoryAmount{
			Category: category,
			Amount:   total.Total.Round(2),
			Count:    total.Count,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if c := items[i].Amount.Cmp(items[j].Amount); c != 0 {
			return c > 0
		}
		return items[i].Category.Name < items[j].Category.Name
	})

	return &GetByCategoryOutput{Items: items}, nil
}
