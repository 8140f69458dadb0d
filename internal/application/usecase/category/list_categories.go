package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// ListCategoriesInput represents the input for listing categories.
type ListCategoriesInput struct {
	UserID   uuid.UUID
	WalletID uuid.UUID
	Type     *entity.CategoryType // Optional filter
}

// ListCategoriesOutput represents the output of listing categories.
type ListCategoriesOutput struct {
	Categories []*entity.Category
}

// ListCategoriesUseCase lists the categories of a wallet.
type ListCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
	walletRepo   adapter.WalletRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categoryRepo adapter.CategoryRepository, walletRepo adapter.WalletRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		categoryRepo: categoryRepo,
		walletRepo:   walletRepo,
	}
}

// Execute lists the categories.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	if input.Type != nil && !input.Type.IsValid() {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryType,
			"category type must be 'INCOME' or 'EXPENSE'",
			domainerror.ErrInvalidCategoryType,
		)
	}

	if _, err := access.RequireWallet(ctx, uc.walletRepo, input.WalletID, input.UserID, entity.SharePermissionView); err != nil {
		return nil, err
	}

	categories, err := uc.categoryRepo.FindByWallet(ctx, input.WalletID, input.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return &ListCategoriesOutput{Categories: categories}, nil
}
