// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// MaxCategoryNameLength is the maximum allowed length for category names.
const MaxCategoryNameLength = 50

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	UserID   uuid.UUID
	WalletID uuid.UUID
	Name     string
	Type     entity.CategoryType
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	walletRepo   adapter.WalletRepository
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository, walletRepo adapter.WalletRepository) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
		walletRepo:   walletRepo,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameRequired,
			"category name is required",
			domainerror.ErrCategoryNameRequired,
		)
	}

	if len(name) > MaxCategoryNameLength {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameTooLong,
			fmt.Sprintf("category name must not exceed %d characters", MaxCategoryNameLength),
			domainerror.ErrCategoryNameTooLong,
		)
	}

	if !input.Type.IsValid() {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryType,
			"category type must be 'INCOME' or 'EXPENSE'",
			domainerror.ErrInvalidCategoryType,
		)
	}

	if _, err := access.RequireWallet(ctx, uc.walletRepo, input.WalletID, input.UserID, entity.SharePermissionEdit); err != nil {
		return nil, err
	}

	// Check if the name is already taken for this type in the wallet
	exists, err := uc.categoryRepo.ExistsByNameAndType(ctx, input.WalletID, name, input.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name existence: %w", err)
	}
	if exists {
		return nil, nameExistsError()
	}

	category := entity.NewCategory(input.WalletID, name, input.Type)

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		// A concurrent insert can still hit the unique index.
		if errors.Is(err, domainerror.ErrCategoryNameExists) {
			return nil, nameExistsError()
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &CreateCategoryOutput{
		Category: category,
	}, nil
}

func nameExistsError() error {
	return domainerror.NewCategoryError(
		domainerror.ErrCodeCategoryNameExists,
		"a category with this name and type already exists",
		domainerror.ErrCategoryNameExists,
	)
}
