package recurrence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// DeleteRecurrenceInput represents the input for rule deletion.
type DeleteRecurrenceInput struct {
	UserID uuid.UUID
	RuleID uuid.UUID
}

// DeleteRecurrenceUseCase removes a rule. Entries it already generated stay in the
// ledger, so the wallet balance is unchanged.
type DeleteRecurrenceUseCase struct {
	recurrenceRepo adapter.RecurrenceRepository
	walletRepo     adapter.WalletRepository
}

// NewDeleteRecurrenceUseCase creates a new DeleteRecurrenceUseCase instance.
func NewDeleteRecurrenceUseCase(recurrenceRepo adapter.RecurrenceRepository, walletRepo adapter.WalletRepository) *DeleteRecurrenceUseCase {
	return &DeleteRecurrenceUseCase{
		recurrenceRepo: recurrenceRepo,
		walletRepo:     walletRepo,
	}
}

// Execute deletes the rule.
func (uc *DeleteRecurrenceUseCase) Execute(ctx context.Context, input DeleteRecurrenceInput) error {
	rule, err := findAccessibleRule(ctx, uc.recurrenceRepo, uc.walletRepo, input.RuleID, input.UserID, entity.SharePermissionEdit)
	if err != nil {
		return err
	}

	if err := uc.recurrenceRepo.Delete(ctx, rule.ID); err != nil {
		return fmt.Errorf("failed to delete recurrence rule: %w", err)
	}

	return nil
}
