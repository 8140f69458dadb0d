package recurrence

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// GetRecurrenceInput represents the input for fetching a rule.
type GetRecurrenceInput struct {
	UserID uuid.UUID
	RuleID uuid.UUID
}

// GetRecurrenceOutput represents the output of fetching a rule.
type GetRecurrenceOutput struct {
	Rule *entity.RecurrenceRule
}

// GetRecurrenceUseCase returns a single rule from a wallet the user can view.
type GetRecurrenceUseCase struct {
	recurrenceRepo adapter.RecurrenceRepository
	walletRepo     adapter.WalletRepository
}

// NewGetRecurrenceUseCase creates a new GetRecurrenceUseCase instance.
func NewGetRecurrenceUseCase(recurrenceRepo adapter.RecurrenceRepository, walletRepo adapter.WalletRepository) *GetRecurrenceUseCase {
	return &GetRecurrenceUseCase{
		recurrenceRepo: recurrenceRepo,
		walletRepo:     walletRepo,
	}
}

// Execute fetches the rule.
func (uc *GetRecurrenceUseCase) Execute(ctx context.Context, input GetRecurrenceInput) (*GetRecurrenceOutput, error) {
	rule, err := findAccessibleRule(ctx, uc.recurrenceRepo, uc.walletRepo, input.RuleID, input.UserID, entity.SharePermissionView)
	if err != nil {
		return nil, err
	}
	return &GetRecurrenceOutput{Rule: rule}, nil
}
