package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/backend/internal/application/usecase/category"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// CategoryController handles the category endpoints of a wallet.
type CategoryController struct {
	listUseCase   *category.ListCategoriesUseCase
	createUseCase *category.CreateCategoryUseCase
	updateUseCase *category.UpdateCategoryUseCase
	deleteUseCase *category.DeleteCategoryUseCase
}

// NewCategoryController creates a new category controller instance.
func NewCategoryController(
	listUseCase *category.ListCategoriesUseCase,
	createUseCase *category.CreateCategoryUseCase,
	updateUseCase *category.UpdateCategoryUseCase,
	deleteUseCase *category.DeleteCategoryUseCase,
) *CategoryController {
	return &CategoryController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /wallets/:id/categories requests.
func (c *CategoryController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return
	}

	input := category.ListCategoriesInput{
		UserID:   userID,
		WalletID: walletID,
	}

	// Filter by category type if provided
	if categoryType := ctx.Query("type"); categoryType != "" {
		catType := entity.CategoryType(categoryType)
		if !catType.IsValid() {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Category type must be INCOME or EXPENSE",
				Code:  string(domainerror.ErrCodeInvalidCategoryType),
			})
			return
		}
		input.Type = &catType
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryListResponse(output.Categories))
}

// Create handles POST /wallets/:id/categories requests.
func (c *CategoryController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeCategoryNameRequired),
			Details: err.Error(),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), category.CreateCategoryInput{
		UserID:   userID,
		WalletID: walletID,
		Name:     req.Name,
		Type:     entity.CategoryType(req.Type),
	})
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCategoryResponse(output.Category))
}

// Update handles PATCH /categories/:id requests.
func (c *CategoryController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(ctx, "id", "category")
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	input := category.UpdateCategoryInput{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       req.Name,
	}
	if req.Type != nil {
		catType := entity.CategoryType(*req.Type)
		input.Type = &catType
	}

	updated, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryResponse(updated))
}

// Delete handles DELETE /categories/:id requests.
func (c *CategoryController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(ctx, "id", "category")
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), category.DeleteCategoryInput{
		UserID:     userID,
		CategoryID: categoryID,
	}); err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// handleCategoryError handles category errors and returns appropriate HTTP responses.
func (c *CategoryController) handleCategoryError(ctx *gin.Context, err error) {
	if handleWalletError(ctx, err) {
		return
	}

	var catErr *domainerror.CategoryError
	if errors.As(err, &catErr) {
		ctx.JSON(c.getStatusCodeForCategoryError(catErr.Code), dto.ErrorResponse{
			Error: catErr.Message,
			Code:  string(catErr.Code),
		})
		return
	}

	internalError(ctx)
}

// getStatusCodeForCategoryError maps category error codes to HTTP status codes.
func (c *CategoryController) getStatusCodeForCategoryError(code domainerror.CategoryErrorCode) int {
	switch code {
	case domainerror.ErrCodeCategoryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeCategoryNameExists,
		domainerror.ErrCodeCategoryInUse:
		return http.StatusConflict
	case domainerror.ErrCodeCategoryNameTooLong,
		domainerror.ErrCodeCategoryNameRequired,
		domainerror.ErrCodeInvalidCategoryType:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
