package dto

import (
	"time"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CreateCategoryRequest represents the request body for category creation.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
	Type string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
}

// UpdateCategoryRequest represents the request body for a category update.
type UpdateCategoryRequest struct {
	Name *string `json:"name,omitempty" binding:"omitempty,min=1,max=50"`
	Type *string `json:"type,omitempty" binding:"omitempty,oneof=INCOME EXPENSE"`
}

// CategoryResponse represents a single category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	WalletID  string    `json:"wallet_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToCategoryResponse converts a domain Category entity to a CategoryResponse DTO.
func ToCategoryResponse(cat *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:        cat.ID.String(),
		WalletID:  cat.WalletID.String(),
		Name:      cat.Name,
		Type:      string(cat.Type),
		CreatedAt: cat.CreatedAt,
		UpdatedAt: cat.UpdatedAt,
	}
}

// ToCategoryListResponse converts a slice of domain Category entities to a CategoryListResponse DTO.
func ToCategoryListResponse(categories []*entity.Category) CategoryListResponse {
	response := CategoryListResponse{Categories: make([]CategoryResponse, len(categories))}
	for i, cat := range categories {
		response.Categories[i] = ToCategoryResponse(cat)
	}
	return response
}
