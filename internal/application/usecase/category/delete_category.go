package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// DeleteCategoryInput represents the input for category deletion.
type DeleteCategoryInput struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
}

// DeleteCategoryUseCase removes a category that no entry or rule uses.
type DeleteCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	walletRepo   adapter.WalletRepository
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(categoryRepo adapter.CategoryRepository, walletRepo adapter.WalletRepository) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		categoryRepo: categoryRepo,
		walletRepo:   walletRepo,
	}
}

// Execute performs the category deletion.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) error {
	category, err := findEditableCategory(ctx, uc.categoryRepo, uc.walletRepo, input.CategoryID, input.UserID)
	if err != nil {
		return err
	}

	if err := uc.categoryRepo.Delete(ctx, category.ID); err != nil {
		switch {
		case errors.Is(err, domainerror.ErrCategoryInUse):
			return inUseError("the category is used by transactions or recurring rules")
		case errors.Is(err, domainerror.ErrCategoryNotFound):
			return notFoundError()
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
