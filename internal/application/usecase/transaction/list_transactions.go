package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

const (
	// DefaultPageSize is used when no limit is requested.
	DefaultPageSize = 20
	// MaxPageSize caps the requested limit.
	MaxPageSize = 100
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID           uuid.UUID
	WalletID         uuid.UUID
	StartDate        *time.Time
	EndDate          *time.Time
	Type             *entity.TransactionType
	CategoryID       *uuid.UUID
	RecurrenceRuleID *uuid.UUID
	Page             int
	Limit            int
}

// PaginationOutput represents pagination information in the output.
type PaginationOutput struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*TransactionOutput
	Pagination   PaginationOutput
}

// ListTransactionsUseCase lists the entries of a wallet, newest first.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	walletRepo      adapter.WalletRepository
	categoryRepo    adapter.CategoryRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(
	transactionRepo adapter.TransactionRepository,
	walletRepo adapter.WalletRepository,
	categoryRepo adapter.CategoryRepository,
) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		categoryRepo:    categoryRepo,
	}
}

// Execute lists the transactions.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	if input.Type != nil {
		if err := validateType(*input.Type); err != nil {
			return nil, err
		}
	}

	if _, err := access.RequireWallet(ctx, uc.walletRepo, input.WalletID, input.UserID, entity.SharePermissionView); err != nil {
		return nil, err
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	filter := adapter.TransactionFilter{
		WalletID:         input.WalletID,
		Type:             input.Type,
		CategoryID:       input.CategoryID,
		RecurrenceRuleID: input.RecurrenceRuleID,
	}
	if input.StartDate != nil {
		start := valueobject.StartOfDay(*input.StartDate)
		filter.StartDate = &start
	}
	if input.EndDate != nil {
		end := valueobject.StartOfDay(*input.EndDate)
		filter.EndDate = &end
	}

	result, err := uc.transactionRepo.FindByFilter(ctx, filter, adapter.Pagination{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	categories, err := uc.categoryRepo.FindByWallet(ctx, input.WalletID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	byID := make(map[uuid.UUID]*entity.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	outputs := make([]*TransactionOutput, len(result.Transactions))
	for i, t := range result.Transactions {
		outputs[i] = toOutput(t, byID[t.CategoryID])
	}

	return &ListTransactionsOutput{
		Transactions: outputs,
		Pagination: PaginationOutput{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}, nil
}
