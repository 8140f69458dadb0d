package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/usecase/recurrence"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// RecurrenceController handles recurring transaction endpoints.
type RecurrenceController struct {
	listUseCase   *recurrence.ListRecurrencesUseCase
	getUseCase    *recurrence.GetRecurrenceUseCase
	createUseCase *recurrence.CreateRecurrenceUseCase
	updateUseCase *recurrence.UpdateRecurrenceUseCase
	deleteUseCase *recurrence.DeleteRecurrenceUseCase
}

// NewRecurrenceController creates a new recurrence controller instance.
func NewRecurrenceController(
	listUseCase *recurrence.ListRecurrencesUseCase,
	getUseCase *recurrence.GetRecurrenceUseCase,
	createUseCase *recurrence.CreateRecurrenceUseCase,
	updateUseCase *recurrence.UpdateRecurrenceUseCase,
	deleteUseCase *recurrence.DeleteRecurrenceUseCase,
) *RecurrenceController {
	return &RecurrenceController{
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /wallets/:id/recurring-transactions requests.
func (c *RecurrenceController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return
	}

	input := recurrence.ListRecurrencesInput{
		UserID:   userID,
		WalletID: walletID,
	}
	if page, err := strconv.Atoi(ctx.Query("page")); err == nil {
		input.Page = page
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		input.Limit = limit
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleRecurrenceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurrenceListResponse(output.Result))
}

// Get handles GET /recurring-transactions/:id requests.
func (c *RecurrenceController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	ruleID, ok := parseIDParam(ctx, "id", "recurring transaction")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), recurrence.GetRecurrenceInput{
		UserID: userID,
		RuleID: ruleID,
	})
	if err != nil {
		c.handleRecurrenceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurrenceResponse(output.Rule))
}

// Create handles POST /wallets/:id/recurring-transactions requests.
func (c *RecurrenceController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return
	}

	var req dto.CreateRecurrenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid category ID format",
			Code:  string(domainerror.ErrCodeRecCategoryNotFound),
		})
		return
	}

	input := recurrence.CreateRecurrenceInput{
		UserID:          userID,
		WalletID:        walletID,
		Name:            req.Name,
		Amount:          req.Amount,
		TransactionType: entity.TransactionType(req.Type),
		Frequency:       valueobject.Frequency(req.Frequency),
		CategoryID:      categoryID,
		Description:     req.Description,
		CycleDayOfMonth: req.CycleDayOfMonth,
		CycleDayOfWeek:  req.CycleDayOfWeek,
	}

	if req.StartDate != nil {
		if input.StartDate, err = parseOptionalDate(*req.StartDate); err != nil {
			invalidRuleDate(ctx, domainerror.ErrCodeInvalidStartDate)
			return
		}
	}
	if req.EndDate != nil {
		if input.EndDate, err = parseOptionalDate(*req.EndDate); err != nil {
			invalidRuleDate(ctx, domainerror.ErrCodeEndDateBeforeStartDate)
			return
		}
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleRecurrenceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToRecurrenceResponse(output.Rule))
}

// Update handles PATCH /recurring-transactions/:id requests.
func (c *RecurrenceController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	ruleID, ok := parseIDParam(ctx, "id", "recurring transaction")
	if !ok {
		return
	}

	var req dto.UpdateRecurrenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	input := recurrence.UpdateRecurrenceInput{
		UserID:          userID,
		RuleID:          ruleID,
		Name:            req.Name,
		Amount:          req.Amount,
		Description:     req.Description,
		CycleDayOfMonth: req.CycleDayOfMonth,
		ClearDayOfMonth: req.ClearDayOfMonth,
		CycleDayOfWeek:  req.CycleDayOfWeek,
		ClearDayOfWeek:  req.ClearDayOfWeek,
		IsActive:        req.IsActive,
	}

	if req.Type != nil {
		txnType := entity.TransactionType(*req.Type)
		input.TransactionType = &txnType
	}
	if req.Frequency != nil {
		frequency := valueobject.Frequency(*req.Frequency)
		input.Frequency = &frequency
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid category ID format",
				Code:  string(domainerror.ErrCodeRecCategoryNotFound),
			})
			return
		}
		input.CategoryID = &categoryID
	}
	if req.EndDate != nil {
		endDate, err := parseOptionalDate(*req.EndDate)
		if err != nil {
			invalidRuleDate(ctx, domainerror.ErrCodeEndDateBeforeStartDate)
			return
		}
		input.EndDate = endDate
		input.ClearEndDate = endDate == nil
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleRecurrenceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurrenceResponse(output.Rule))
}

// Delete handles DELETE /recurring-transactions/:id requests. Entries the rule
// generated stay in the ledger.
func (c *RecurrenceController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	ruleID, ok := parseIDParam(ctx, "id", "recurring transaction")
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), recurrence.DeleteRecurrenceInput{
		UserID: userID,
		RuleID: ruleID,
	})
	if err != nil {
		c.handleRecurrenceError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func invalidRuleDate(ctx *gin.Context, code domainerror.RecurrenceErrorCode) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid date format, expected YYYY-MM-DD",
		Code:  string(code),
	})
}

// handleRecurrenceError handles recurrence errors and returns appropriate HTTP responses.
func (c *RecurrenceController) handleRecurrenceError(ctx *gin.Context, err error) {
	if handleWalletError(ctx, err) {
		return
	}

	var recErr *domainerror.RecurrenceError
	if errors.As(err, &recErr) {
		ctx.JSON(getStatusCodeForRecurrenceError(recErr.Code), dto.ErrorResponse{
			Error: recErr.Message,
			Code:  string(recErr.Code),
		})
		return
	}

	internalError(ctx)
}

// getStatusCodeForRecurrenceError maps recurrence error codes to HTTP status codes.
func getStatusCodeForRecurrenceError(code domainerror.RecurrenceErrorCode) int {
	switch code {
	case domainerror.ErrCodeRecurrenceNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeRecurrenceAlreadyApplied,
		domainerror.ErrCodeRecurrenceNotDue,
		domainerror.ErrCodeBatchAlreadyRunning:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidFrequency,
		domainerror.ErrCodeInvalidCycleDayOfMonth,
		domainerror.ErrCodeInvalidCycleDayOfWeek,
		domainerror.ErrCodeEndDateBeforeStartDate,
		domainerror.ErrCodeInvalidRecurrenceAmount,
		domainerror.ErrCodeInvalidRecurrenceType,
		domainerror.ErrCodeRecCategoryNotFound,
		domainerror.ErrCodeRecCategoryTypeMismatch,
		domainerror.ErrCodeRecurrenceNameRequired,
		domainerror.ErrCodeInvalidStartDate,
		domainerror.ErrCodeRecurrenceNameTooLong,
		domainerror.ErrCodeRecDescriptionTooLong:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
