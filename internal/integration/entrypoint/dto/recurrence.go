package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CreateRecurrenceRequest represents the request body for creating a recurring transaction.
type CreateRecurrenceRequest struct {
	Name            string          `json:"name" binding:"required,min=1,max=100"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Frequency       string          `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	CategoryID      string          `json:"category_id" binding:"required"`
	Description     string          `json:"description,omitempty" binding:"omitempty,max=255"`
	StartDate       *string         `json:"start_date,omitempty"`
	EndDate         *string         `json:"end_date,omitempty"`
	CycleDayOfMonth *int            `json:"cycle_day_of_month,omitempty"`
	CycleDayOfWeek  *int            `json:"cycle_day_of_week,omitempty"`
}

// UpdateRecurrenceRequest represents the request body for a partial update. An empty
// end_date clears the end date; the clear flags remove cycle anchors.
type UpdateRecurrenceRequest struct {
	Name            *string          `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Type            *string          `json:"type,omitempty" binding:"omitempty,oneof=INCOME EXPENSE"`
	Frequency       *string          `json:"frequency,omitempty" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	CategoryID      *string          `json:"category_id,omitempty"`
	Description     *string          `json:"description,omitempty" binding:"omitempty,max=255"`
	EndDate         *string          `json:"end_date,omitempty"`
	CycleDayOfMonth *int             `json:"cycle_day_of_month,omitempty"`
	ClearDayOfMonth bool             `json:"clear_cycle_day_of_month,omitempty"`
	CycleDayOfWeek  *int             `json:"cycle_day_of_week,omitempty"`
	ClearDayOfWeek  bool             `json:"clear_cycle_day_of_week,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

// RecurrenceResponse represents a recurring transaction in API responses.
type RecurrenceResponse struct {
	ID              string    `json:"id"`
	WalletID        string    `json:"wallet_id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Amount          string    `json:"amount"`
	Type            string    `json:"type"`
	Frequency       string    `json:"frequency"`
	CategoryID      string    `json:"category_id"`
	Description     string    `json:"description"`
	StartDate       string    `json:"start_date"`
	EndDate         *string   `json:"end_date"`
	IsActive        bool      `json:"is_active"`
	CycleDayOfMonth *int      `json:"cycle_day_of_month"`
	CycleDayOfWeek  *int      `json:"cycle_day_of_week"`
	LastRunAt       *string   `json:"last_run_at"`
	NextRunAt       *string   `json:"next_run_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RecurrenceListResponse represents a page of recurring transactions.
type RecurrenceListResponse struct {
	RecurringTransactions []RecurrenceResponse `json:"recurring_transactions"`
	Pagination            PaginationResponse   `json:"pagination"`
}

// ToRecurrenceResponse converts a domain RecurrenceRule to its DTO.
func ToRecurrenceResponse(r *entity.RecurrenceRule) RecurrenceResponse {
	return RecurrenceResponse{
		ID:              r.ID.String(),
		WalletID:        r.WalletID.String(),
		UserID:          r.UserID.String(),
		Name:            r.Name,
		Amount:          r.Amount.StringFixed(2),
		Type:            string(r.TransactionType),
		Frequency:       string(r.Frequency),
		CategoryID:      r.CategoryID.String(),
		Description:     r.Description,
		StartDate:       r.StartDate.Format(DateLayout),
		EndDate:         formatDate(r.EndDate),
		IsActive:        r.IsActive,
		CycleDayOfMonth: r.CycleDayOfMonth,
		CycleDayOfWeek:  r.CycleDayOfWeek,
		LastRunAt:       formatDate(r.LastRunAt),
		NextRunAt:       formatDate(r.NextRunAt),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ToRecurrenceListResponse converts a page of rules to its DTO.
func ToRecurrenceListResponse(result *entity.RecurrenceRuleListResult) RecurrenceListResponse {
	response := RecurrenceListResponse{
		RecurringTransactions: make([]RecurrenceResponse, len(result.Rules)),
		Pagination: PaginationResponse{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}
	for i, r := range result.Rules {
		response.RecurringTransactions[i] = ToRecurrenceResponse(r)
	}
	return response
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
