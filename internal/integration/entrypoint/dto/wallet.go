package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CreateWalletRequest represents the request body for wallet creation.
type CreateWalletRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Currency    string `json:"currency,omitempty" binding:"omitempty,len=3"`
	Description string `json:"description,omitempty" binding:"omitempty,max=255"`
}

// UpdateWalletRequest represents the request body for a wallet update.
type UpdateWalletRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Currency    *string `json:"currency,omitempty" binding:"omitempty,len=3"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
}

// WalletResponse represents a single wallet in API responses.
type WalletResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	Balance     string    `json:"balance"`
	IsOwner     bool      `json:"is_owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WalletListResponse represents the response for listing wallets.
type WalletListResponse struct {
	Wallets []WalletResponse `json:"wallets"`
}

// BalanceCheckResponse reports whether a wallet's balance matches its ledger.
type BalanceCheckResponse struct {
	WalletID      string `json:"wallet_id"`
	CachedBalance string `json:"cached_balance"`
	LedgerBalance string `json:"ledger_balance"`
	Drift         string `json:"drift"`
	Consistent    bool   `json:"consistent"`
	Code          string `json:"code,omitempty"`
}

// ToWalletResponse converts a domain Wallet entity to a WalletResponse DTO as seen
// by the given user.
func ToWalletResponse(w *entity.Wallet, viewerID uuid.UUID) WalletResponse {
	return WalletResponse{
		ID:          w.ID.String(),
		UserID:      w.UserID.String(),
		Name:        w.Name,
		Currency:    w.Currency,
		Description: w.Description,
		Balance:     w.Balance.StringFixed(2),
		IsOwner:     w.IsOwnedBy(viewerID),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// ToWalletListResponse converts wallets to a WalletListResponse DTO.
func ToWalletListResponse(wallets []*entity.Wallet, viewerID uuid.UUID) WalletListResponse {
	response := WalletListResponse{Wallets: make([]WalletResponse, len(wallets))}
	for i, w := range wallets {
		response.Wallets[i] = ToWalletResponse(w, viewerID)
	}
	return response
}

// ToBalanceCheckResponse converts a BalanceCheck to its DTO.
func ToBalanceCheckResponse(check *entity.BalanceCheck) BalanceCheckResponse {
	return BalanceCheckResponse{
		WalletID:      check.WalletID.String(),
		CachedBalance: check.CachedBalance.StringFixed(2),
		LedgerBalance: check.LedgerBalance.StringFixed(2),
		Drift:         check.Drift().StringFixed(2),
		Consistent:    check.Consistent(),
	}
}
