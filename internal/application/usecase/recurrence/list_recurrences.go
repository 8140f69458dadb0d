package recurrence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

const (
	// DefaultPageSize is used when no limit is requested.
	DefaultPageSize = 20
	// MaxPageSize caps the requested limit.
	MaxPageSize = 100
)

// ListRecurrencesInput represents the input for listing a wallet's rules.
type ListRecurrencesInput struct {
	UserID   uuid.UUID
	WalletID uuid.UUID
	Page     int
	Limit    int
}

// ListRecurrencesOutput represents a page of rules.
type ListRecurrencesOutput struct {
	Result *entity.RecurrenceRuleListResult
}

// ListRecurrencesUseCase lists the rules of a wallet.
type ListRecurrencesUseCase struct {
	recurrenceRepo adapter.RecurrenceRepository
	walletRepo     adapter.WalletRepository
}

// NewListRecurrencesUseCase creates a new ListRecurrencesUseCase instance.
func NewListRecurrencesUseCase(recurrenceRepo adapter.RecurrenceRepository, walletRepo adapter.WalletRepository) *ListRecurrencesUseCase {
	return &ListRecurrencesUseCase{
		recurrenceRepo: recurrenceRepo,
		walletRepo:     walletRepo,
	}
}

// Execute returns one page of rules.
func (uc *ListRecurrencesUseCase) Execute(ctx context.Context, input ListRecurrencesInput) (*ListRecurrencesOutput, error) {
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

	result, err := uc.recurrenceRepo.FindByWallet(ctx, input.WalletID, adapter.Pagination{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list recurrence rules: %w", err)
	}

	return &ListRecurrencesOutput{Result: result}, nil
}
