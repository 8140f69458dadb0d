// Package wallet contains wallet-related use cases.
package wallet

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// MaxWalletNameLength is the maximum allowed length for wallet names.
const MaxWalletNameLength = 100

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// CreateWalletInput represents the input for wallet creation.
type CreateWalletInput struct {
	UserID      uuid.UUID
	Name        string
	Currency    string // Optional, ISO 4217 code, defaults to USD
	Description string
}

// CreateWalletOutput represents the output of wallet creation.
type CreateWalletOutput struct {
	Wallet     *entity.Wallet
	Categories []*entity.Category
}

// CreateWalletUseCase creates a wallet seeded with the default categories.
type CreateWalletUseCase struct {
	walletRepo adapter.WalletRepository
	maxPerUser int
}

// NewCreateWalletUseCase creates a new CreateWalletUseCase instance. maxPerUser <= 0
// disables the limit.
func NewCreateWalletUseCase(walletRepo adapter.WalletRepository, maxPerUser int) *CreateWalletUseCase {
	return &CreateWalletUseCase{
		walletRepo: walletRepo,
		maxPerUser: maxPerUser,
	}
}

// Execute performs the wallet creation.
func (uc *CreateWalletUseCase) Execute(ctx context.Context, input CreateWalletInput) (*CreateWalletOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerror.NewWalletError(
			domainerror.ErrCodeWalletNameRequired,
			"wallet name is required",
			domainerror.ErrWalletNameRequired,
		)
	}
	if len(name) > MaxWalletNameLength {
		return nil, domainerror.NewWalletError(
			domainerror.ErrCodeWalletNameTooLong,
			fmt.Sprintf("wallet name must not exceed %d characters", MaxWalletNameLength),
			domainerror.ErrWalletNameTooLong,
		)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency != "" && !currencyRegex.MatchString(currency) {
		return nil, domainerror.NewWalletError(
			domainerror.ErrCodeInvalidCurrency,
			"currency must be a three-letter ISO 4217 code",
			domainerror.ErrInvalidCurrency,
		)
	}

	if uc.maxPerUser > 0 {
		count, err := uc.walletRepo.CountByUser(ctx, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to count wallets: %w", err)
		}
		if count >= int64(uc.maxPerUser) {
			return nil, domainerror.NewWalletError(
				domainerror.ErrCodeMaxWalletsReached,
				fmt.Sprintf("a user may own at most %d wallets", uc.maxPerUser),
				domainerror.ErrMaxWalletsReached,
			)
		}
	}

	wallet := entity.NewWallet(input.UserID, name, currency, input.Description)

	categories := make([]*entity.Category, 0, len(entity.DefaultCategories))
	for _, def := range entity.DefaultCategories {
		categories = append(categories, entity.NewCategory(wallet.ID, def.Name, def.Type))
	}

	if err := uc.walletRepo.CreateWithCategories(ctx, wallet, categories); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return &CreateWalletOutput{
		Wallet:     wallet,
		Categories: categories,
	}, nil
}
