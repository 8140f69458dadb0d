package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// UpdateCategoryInput represents the input for a category update. Nil fields are left unchanged.
type UpdateCategoryInput struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Name       *string
	Type       *entity.CategoryType
}

// UpdateCategoryUseCase renames a category or changes its type. The type of a
// category used by entries or rules is fixed, since they must keep matching it.
type UpdateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	walletRepo   adapter.WalletRepository
}

// NewUpdateCategoryUseCase creates a new UpdateCategoryUseCase instance.
func NewUpdateCategoryUseCase(categoryRepo adapter.CategoryRepository, walletRepo adapter.WalletRepository) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{
		categoryRepo: categoryRepo,
		walletRepo:   walletRepo,
	}
}

// Execute performs the category update.
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, input UpdateCategoryInput) (*entity.Category, error) {
	category, err := findEditableCategory(ctx, uc.categoryRepo, uc.walletRepo, input.CategoryID, input.UserID)
	if err != nil {
		return nil, err
	}

	name := category.Name
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
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
	}

	categoryType := category.Type
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeInvalidCategoryType,
				"category type must be 'INCOME' or 'EXPENSE'",
				domainerror.ErrInvalidCategoryType,
			)
		}
		categoryType = *input.Type
	}

	if categoryType != category.Type {
		referenced, err := uc.categoryRepo.IsReferenced(ctx, category.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check category usage: %w", err)
		}
		if referenced {
			return nil, inUseError("the type of a category in use cannot change")
		}
	}

	if name != category.Name || categoryType != category.Type {
		exists, err := uc.categoryRepo.ExistsByNameAndType(ctx, category.WalletID, name, categoryType)
		if err != nil {
			return nil, fmt.Errorf("failed to check category name existence: %w", err)
		}
		if exists {
			return nil, nameExistsError()
		}
	}

	category.Name = name
	category.Type = categoryType
	category.UpdatedAt = time.Now().UTC()

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, domainerror.ErrCategoryNameExists) {
			return nil, nameExistsError()
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// findEditableCategory loads a category and checks the user may edit its wallet.
func findEditableCategory(
	ctx context.Context,
	categoryRepo adapter.CategoryRepository,
	walletRepo adapter.WalletRepository,
	categoryID, userID uuid.UUID,
) (*entity.Category, error) {
	category, err := categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if _, err := access.RequireWallet(ctx, walletRepo, category.WalletID, userID, entity.SharePermissionEdit); err != nil {
		return nil, err
	}
	return category, nil
}

func notFoundError() error {
	return domainerror.NewCategoryError(
		domainerror.ErrCodeCategoryNotFound,
		"category not found",
		domainerror.ErrCategoryNotFound,
	)
}

func inUseError(message string) error {
	return domainerror.NewCategoryError(
		domainerror.ErrCodeCategoryInUse,
		message,
		domainerror.ErrCategoryInUse,
	)
}
