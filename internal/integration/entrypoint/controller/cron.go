package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/backend/internal/application/usecase/recurrence"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// BatchRunner runs one pass of the recurring batch.
type BatchRunner interface {
	Execute(ctx context.Context) (*recurrence.RunDueRecurrencesOutput, error)
}

// CronController exposes the recurring batch to external schedulers.
type CronController struct {
	runner BatchRunner
}

// NewCronController creates a new cron controller instance.
func NewCronController(runner BatchRunner) *CronController {
	return &CronController{runner: runner}
}

// ProcessRecurring handles GET and POST /api/cron/process-recurring-transactions.
func (c *CronController) ProcessRecurring(ctx *gin.Context) {
	output, err := c.runner.Execute(ctx.Request.Context())
	if err != nil {
		var recErr *domainerror.RecurrenceError
		if errors.As(err, &recErr) && recErr.Code == domainerror.ErrCodeBatchAlreadyRunning {
			ctx.JSON(http.StatusConflict, dto.CronErrorResponse{
				Success: false,
				Error:   recErr.Message,
				Code:    string(recErr.Code),
			})
			return
		}

		slog.ErrorContext(ctx.Request.Context(), "Recurring batch failed", "error", err)
		response := dto.CronErrorResponse{
			Success: false,
			Error:   "Failed to process recurring transactions",
		}
		if recErr != nil {
			response.Code = string(recErr.Code)
		}
		ctx.JSON(http.StatusInternalServerError, response)
		return
	}

	ctx.JSON(http.StatusOK, dto.CronRunResponse{
		Success:        true,
		ProcessedCount: output.ProcessedCount,
		Timestamp:      output.RanAt.UTC().Format(time.RFC3339),
	})
}
