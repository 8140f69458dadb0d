package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/usecase/transaction"
)

// CreateTransactionRequest represents the request body for transaction creation.
// Amount accepts a JSON number or a decimal string.
type CreateTransactionRequest struct {
	Date        string          `json:"date" binding:"required"`
	Description string          `json:"description" binding:"max=255"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	CategoryID  string          `json:"category_id" binding:"required"`
}

// UpdateTransactionRequest represents the request body for transaction update.
type UpdateTransactionRequest struct {
	Date        *string          `json:"date,omitempty"`
	Description *string          `json:"description,omitempty" binding:"omitempty,max=255"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Type        *string          `json:"type,omitempty" binding:"omitempty,oneof=INCOME EXPENSE"`
	CategoryID  *string          `json:"category_id,omitempty"`
}

// TransactionCategoryResponse represents category information in transaction response.
type TransactionCategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID               string                       `json:"id"`
	WalletID         string                       `json:"wallet_id"`
	UserID           string                       `json:"user_id"`
	Date             string                       `json:"date"`
	Description      string                       `json:"description"`
	Amount           string                       `json:"amount"`
	Type             string                       `json:"type"`
	CategoryID       string                       `json:"category_id"`
	Category         *TransactionCategoryResponse `json:"category,omitempty"`
	RecurrenceRuleID *string                      `json:"recurring_transaction_id,omitempty"`
	CreatedAt        time.Time                    `json:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   PaginationResponse    `json:"pagination"`
}

// ToTransactionResponse converts a use case TransactionOutput to a TransactionResponse DTO.
func ToTransactionResponse(t *transaction.TransactionOutput) TransactionResponse {
	response := TransactionResponse{
		ID:          t.ID.String(),
		WalletID:    t.WalletID.String(),
		UserID:      t.UserID.String(),
		Date:        t.Date.Format(DateLayout),
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Type:        string(t.Type),
		CategoryID:  t.CategoryID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if t.Category != nil {
		response.Category = &TransactionCategoryResponse{
			ID:   t.Category.ID.String(),
			Name: t.Category.Name,
			Type: string(t.Category.Type),
		}
	}

	if t.RecurrenceRuleID != nil {
		id := t.RecurrenceRuleID.String()
		response.RecurrenceRuleID = &id
	}

	return response
}

// ToTransactionListResponse converts a ListTransactionsOutput to a TransactionListResponse DTO.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	response := TransactionListResponse{
		Transactions: make([]TransactionResponse, len(output.Transactions)),
		Pagination: PaginationResponse{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
	}
	for i, t := range output.Transactions {
		response.Transactions[i] = ToTransactionResponse(t)
	}
	return response
}
