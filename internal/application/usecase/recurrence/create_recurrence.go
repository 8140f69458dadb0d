package recurrence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// CreateRecurrenceInput represents the input for rule creation.
type CreateRecurrenceInput struct {
	UserID          uuid.UUID
	WalletID        uuid.UUID
	Name            string
	Amount          decimal.Decimal
	TransactionType entity.TransactionType
	Frequency       valueobject.Frequency
	CategoryID      uuid.UUID
	Description     string
	StartDate       *time.Time // Optional, defaults to today
	EndDate         *time.Time
	CycleDayOfMonth *int
	CycleDayOfWeek  *int
}

// CreateRecurrenceOutput represents the output of rule creation.
type CreateRecurrenceOutput struct {
	Rule *entity.RecurrenceRule
}

// CreateRecurrenceUseCase handles rule creation.
type CreateRecurrenceUseCase struct {
	recurrenceRepo adapter.RecurrenceRepository
	walletRepo     adapter.WalletRepository
	categoryRepo   adapter.CategoryRepository
	clock          adapter.Clock
}

// NewCreateRecurrenceUseCase creates a new CreateRecurrenceUseCase instance.
func NewCreateRecurrenceUseCase(
	recurrenceRepo adapter.RecurrenceRepository,
	walletRepo adapter.WalletRepository,
	categoryRepo adapter.CategoryRepository,
	clock adapter.Clock,
) *CreateRecurrenceUseCase {
	return &CreateRecurrenceUseCase{
		recurrenceRepo: recurrenceRepo,
		walletRepo:     walletRepo,
		categoryRepo:   categoryRepo,
		clock:          clock,
	}
}

// Execute validates the definition, computes the first due date and stores the rule.
func (uc *CreateRecurrenceUseCase) Execute(ctx context.Context, input CreateRecurrenceInput) (*CreateRecurrenceOutput, error) {
	now := uc.clock.Now()

	startDate := valueobject.StartOfDay(now)
	if input.StartDate != nil {
		startDate = valueobject.StartOfDay(*input.StartDate)
	}

	def := ruleDefinition{
		name:            input.Name,
		amount:          input.Amount,
		transactionType: input.TransactionType,
		frequency:       input.Frequency,
		description:     input.Description,
		startDate:       startDate,
		endDate:         input.EndDate,
		cycleDayOfMonth: input.CycleDayOfMonth,
		cycleDayOfWeek:  input.CycleDayOfWeek,
	}
	if err := def.validate(); err != nil {
		return nil, err
	}

	if _, err := access.RequireWallet(ctx, uc.walletRepo, input.WalletID, input.UserID, entity.SharePermissionEdit); err != nil {
		return nil, err
	}

	if err := requireMatchingCategory(ctx, uc.categoryRepo, input.WalletID, input.CategoryID, input.TransactionType); err != nil {
		return nil, err
	}

	rule := entity.NewRecurrenceRule(
		input.WalletID,
		input.UserID,
		input.Name,
		input.Amount,
		input.TransactionType,
		input.Frequency,
		input.CategoryID,
		input.Description,
		startDate,
		input.EndDate,
		input.CycleDayOfMonth,
		input.CycleDayOfWeek,
		now,
	)

	// The first computed date can already lie past a short end date.
	if rule.EndsBefore(*rule.NextRunAt) {
		rule.NextRunAt = nil
		rule.IsActive = false
	}

	if err := uc.recurrenceRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create recurrence rule: %w", err)
	}

	return &CreateRecurrenceOutput{Rule: rule}, nil
}
