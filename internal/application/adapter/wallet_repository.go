// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// WalletRepository defines the interface for wallet persistence operations.
type WalletRepository interface {
	// CreateWithCategories creates a wallet together with its seeded categories in one unit of work.
	CreateWithCategories(ctx context.Context, wallet *entity.Wallet, categories []*entity.Category) error

	// FindByID retrieves a wallet by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Wallet, error)

	// FindByUser retrieves all wallets owned by a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Wallet, error)

	// FindShared retrieves the wallets shared with a user through accepted shares.
	FindShared(ctx context.Context, userID uuid.UUID) ([]*entity.Wallet, error)

	// FindSharePermission returns the permission an accepted share grants userID on the
	// wallet, or "" when there is none.
	FindSharePermission(ctx context.Context, walletID, userID uuid.UUID) (entity.SharePermission, error)

	// CountByUser counts the wallets owned by a user.
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// Update saves a wallet's name, currency and description. The balance is never written.
	Update(ctx context.Context, wallet *entity.Wallet) error

	// Delete removes a wallet with its categories, rules and shares. It fails with
	// ErrWalletHasTransactions while live entries remain.
	Delete(ctx context.Context, id uuid.UUID) error
}
