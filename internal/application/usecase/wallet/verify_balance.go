package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/access"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// VerifyBalanceInput represents the input for a balance check.
type VerifyBalanceInput struct {
	UserID   uuid.UUID
	WalletID uuid.UUID
}

// VerifyBalanceUseCase compares a wallet's cached balance with the signed sum of its
// ledger entries. It never repairs a drift, it only reports it.
type VerifyBalanceUseCase struct {
	walletRepo      adapter.WalletRepository
	transactionRepo adapter.TransactionRepository
}

// NewVerifyBalanceUseCase creates a new VerifyBalanceUseCase instance.
func NewVerifyBalanceUseCase(walletRepo adapter.WalletRepository, transactionRepo adapter.TransactionRepository) *VerifyBalanceUseCase {
	return &VerifyBalanceUseCase{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute performs the check.
func (uc *VerifyBalanceUseCase) Execute(ctx context.Context, input VerifyBalanceInput) (*entity.BalanceCheck, error) {
	wallet, err := access.RequireWallet(ctx, uc.walletRepo, input.WalletID, input.UserID, entity.SharePermissionView)
	if err != nil {
		return nil, err
	}

	ledger, err := uc.transactionRepo.SignedSumByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger: %w", err)
	}

	check := &entity.BalanceCheck{
		WalletID:      wallet.ID,
		CachedBalance: wallet.Balance,
		LedgerBalance: ledger,
	}

	if !check.Consistent() {
		slog.WarnContext(ctx, "Wallet balance drifted from ledger",
			"wallet_id", wallet.ID,
			"cached", check.CachedBalance.String(),
			"ledger", check.LedgerBalance.String(),
			"drift", check.Drift().String(),
		)
	}

	return check, nil
}
