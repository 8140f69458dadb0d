package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/backend/internal/application/usecase/report"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// ReportController handles the report endpoints of a wallet.
type ReportController struct {
	summaryUseCase    *report.GetSummaryUseCase
	byCategoryUseCase *report.GetByCategoryUseCase
	trendsUseCase     *report.GetTrendsUseCase
}

// NewReportController creates a new report controller instance.
func NewReportController(
	summaryUseCase *report.GetSummaryUseCase,
	byCategoryUseCase *report.GetByCategoryUseCase,
	trendsUseCase *report.GetTrendsUseCase,
) *ReportController {
	return &ReportController{
		summaryUseCase:    summaryUseCase,
		byCategoryUseCase: byCategoryUseCase,
		trendsUseCase:     trendsUseCase,
	}
}

// Summary handles GET /wallets/:id/reports/summary requests.
func (c *ReportController) Summary(ctx *gin.Context) {
	period, ok := c.period(ctx)
	if !ok {
		return
	}

	output, err := c.summaryUseCase.Execute(ctx.Request.Context(), period)
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(period, output))
}

// ByCategory handles GET /wallets/:id/reports/by-category requests.
func (c *ReportController) ByCategory(ctx *gin.Context) {
	period, ok := c.period(ctx)
	if !ok {
		return
	}

	input := report.GetByCategoryInput{Period: period}
	if value := ctx.Query("type"); value != "" {
		txType := entity.TransactionType(value)
		input.Type = &txType
	}

	output, err := c.byCategoryUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToByCategoryResponse(period, output))
}

// Trends handles GET /wallets/:id/reports/trends requests.
func (c *ReportController) Trends(ctx *gin.Context) {
	period, ok := c.period(ctx)
	if !ok {
		return
	}

	output, err := c.trendsUseCase.Execute(ctx.Request.Context(), report.GetTrendsInput{
		Period:   period,
		Interval: report.Interval(ctx.Query("interval")),
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTrendsResponse(period, output))
}

func (c *ReportController) period(ctx *gin.Context) (report.Period, bool) {
	userID, ok := requireUser(ctx)
	if !ok {
		return report.Period{}, false
	}
	walletID, ok := parseIDParam(ctx, "id", "wallet")
	if !ok {
		return report.Period{}, false
	}
	start, end, ok := parseDateRange(ctx)
	if !ok {
		return report.Period{}, false
	}

	return report.Period{UserID: userID, WalletID: walletID, StartDate: start, EndDate: end}, true
}

func (c *ReportController) handleReportError(ctx *gin.Context, err error) {
	if handleWalletError(ctx, err) {
		return
	}

	var reportErr *domainerror.ReportError
	if errors.As(err, &reportErr) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: reportErr.Message,
			Code:  string(reportErr.Code),
		})
		return
	}

	internalError(ctx)
}
