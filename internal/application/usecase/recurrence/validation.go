package recurrence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

const (
	// MaxRuleNameLength is the maximum allowed length for rule names.
	MaxRuleNameLength = 100
	// MaxRuleDescriptionLength is the maximum allowed length for rule descriptions.
	MaxRuleDescriptionLength = 255
)

// ruleDefinition is the user-editable part of a rule, validated as a whole.
type ruleDefinition struct {
	name            string
	amount          decimal.Decimal
	transactionType entity.TransactionType
	frequency       valueobject.Frequency
	description     string
	startDate       time.Time
	endDate         *time.Time
	cycleDayOfMonth *int
	cycleDayOfWeek  *int
}

func (d ruleDefinition) validate() error {
	if strings.TrimSpace(d.name) == "" {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeRecurrenceNameRequired,
			"name is required",
			domainerror.ErrRecurrenceNameRequired,
		)
	}
	if len(d.name) > MaxRuleNameLength {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeRecurrenceNameTooLong,
			fmt.Sprintf("name must not exceed %d characters", MaxRuleNameLength),
			domainerror.ErrRecurrenceNameRequired,
		)
	}

	if !d.amount.IsPositive() {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeInvalidRecurrenceAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	if !d.transactionType.IsValid() {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeInvalidRecurrenceType,
			"type must be 'INCOME' or 'EXPENSE'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	if !d.frequency.IsValid() {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeInvalidFrequency,
			"frequency must be one of DAILY, WEEKLY, MONTHLY or YEARLY",
			domainerror.ErrInvalidFrequency,
		)
	}

	if d.cycleDayOfMonth != nil &&
		(*d.cycleDayOfMonth < valueobject.MinCycleDayOfMonth || *d.cycleDayOfMonth > valueobject.MaxCycleDayOfMonth) {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeInvalidCycleDayOfMonth,
			"cycleDayOfMonth must be between 1 and 31",
			domainerror.ErrInvalidCycleDayOfMonth,
		)
	}

	if d.cycleDayOfWeek != nil &&
		(*d.cycleDayOfWeek < valueobject.MinCycleDayOfWeek || *d.cycleDayOfWeek > valueobject.MaxCycleDayOfWeek) {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeInvalidCycleDayOfWeek,
			"cycleDayOfWeek must be between 0 and 6",
			domainerror.ErrInvalidCycleDayOfWeek,
		)
	}

	if d.startDate.IsZero() {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeInvalidStartDate,
			"startDate is required",
			domainerror.ErrInvalidTransactionDate,
		)
	}

	if d.endDate != nil && valueobject.StartOfDay(*d.endDate).Before(valueobject.StartOfDay(d.startDate)) {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeEndDateBeforeStartDate,
			"endDate must not be before startDate",
			domainerror.ErrEndDateBeforeStartDate,
		)
	}

	if len(d.description) > MaxRuleDescriptionLength {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeRecDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxRuleDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}

	return nil
}

// requireMatchingCategory verifies the category belongs to the wallet and classifies
// entries of the given type.
func requireMatchingCategory(
	ctx context.Context,
	categoryRepo adapter.CategoryRepository,
	walletID, categoryID uuid.UUID,
	transactionType entity.TransactionType,
) error {
	category, err := categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return domainerror.NewRecurrenceError(
				domainerror.ErrCodeRecCategoryNotFound,
				"category not found",
				domainerror.ErrCategoryNotFound,
			)
		}
		return fmt.Errorf("failed to find category: %w", err)
	}

	if category.WalletID != walletID {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeRecCategoryNotFound,
			"category not found",
			domainerror.ErrCategoryNotFound,
		)
	}

	if !category.Type.Matches(transactionType) {
		return domainerror.NewRecurrenceError(
			domainerror.ErrCodeRecCategoryTypeMismatch,
			"category type must match the rule's transaction type",
			domainerror.ErrCategoryTypeMismatch,
		)
	}

	return nil
}

// findAccessibleRule loads a rule and checks the user may access its wallet with
// the required permission.
func findAccessibleRule(
	ctx context.Context,
	recurrenceRepo adapter.RecurrenceRepository,
	walletRepo adapter.WalletRepository,
	ruleID, userID uuid.UUID,
	required entity.SharePermission,
) (*entity.RecurrenceRule, error) {
	rule, err := recurrenceRepo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, domainerror.ErrRecurrenceNotFound) {
			return nil, domainerror.NewRecurrenceError(
				domainerror.ErrCodeRecurrenceNotFound,
				"recurrence rule not found",
				domainerror.ErrRecurrenceNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find recurrence rule: %w", err)
	}

	if _, err := access.RequireWallet(ctx, walletRepo, rule.WalletID, userID, required); err != nil {
		return nil, err
	}

	return rule, nil
}
