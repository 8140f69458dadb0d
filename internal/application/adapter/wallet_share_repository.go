package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// WalletShareRepository defines the interface for wallet share persistence operations.
type WalletShareRepository interface {
	// Create stores a new share. It fails with ErrWalletAlreadyShared when the wallet
	// already has a share for the same email.
	Create(ctx context.Context, share *entity.WalletShare) error

	// FindByID retrieves a share by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.WalletShare, error)

	// FindByWallet retrieves every share of a wallet, pending or accepted.
	FindByWallet(ctx context.Context, walletID uuid.UUID) ([]*entity.WalletShare, error)

	// FindPendingByEmail retrieves the invitations still waiting for an answer from email.
	FindPendingByEmail(ctx context.Context, email string) ([]*entity.WalletShare, error)

	// Update saves a share's status, permission and bound user.
	Update(ctx context.Context, share *entity.WalletShare) error

	// Delete removes a share.
	Delete(ctx context.Context, id uuid.UUID) error
}
