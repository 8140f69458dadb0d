package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByWallet retrieves the categories of a wallet, optionally filtered by type.
	FindByWallet(ctx context.Context, walletID uuid.UUID, categoryType *entity.CategoryType) ([]*entity.Category, error)

	// ExistsByNameAndType checks whether the wallet already has a category with the given name and type.
	ExistsByNameAndType(ctx context.Context, walletID uuid.UUID, name string, categoryType entity.CategoryType) (bool, error)

	// IsReferenced reports whether live entries or rules use the category.
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)

	// Update saves a category's name and type.
	Update(ctx context.Context, category *entity.Category) error

	// Delete removes a category. It fails with ErrCategoryInUse while live entries or
	// rules reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}
