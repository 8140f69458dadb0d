package dto

import (
	"github.com/budget-tracker/backend/internal/application/usecase/report"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// ReportCategoryResponse identifies a category in report responses.
type ReportCategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// CategoryBreakdownResponse is the income and expense of one category.
type CategoryBreakdownResponse struct {
	Category         ReportCategoryResponse `json:"category"`
	Income           string                 `json:"income"`
	Expense          string                 `json:"expense"`
	TransactionCount int64                  `json:"transaction_count"`
}

// SummaryResponse represents a wallet summary report.
type SummaryResponse struct {
	StartDate         string                      `json:"start_date"`
	EndDate           string                      `json:"end_date"`
	Income            string                      `json:"income"`
	Expense           string                      `json:"expense"`
	Net               string                      `json:"net"`
	TransactionCount  int64                       `json:"transaction_count"`
	CategoryBreakdown []CategoryBreakdownResponse `json:"category_breakdown"`
}

// CategoryAmountResponse is one row of the per-category report.
type CategoryAmountResponse struct {
	Category         ReportCategoryResponse `json:"category"`
	Amount           string                 `json:"amount"`
	TransactionCount int64                  `json:"transaction_count"`
}

// ByCategoryResponse represents the per-category report.
type ByCategoryResponse struct {
	StartDate  string                   `json:"start_date"`
	EndDate    string                   `json:"end_date"`
	Categories []CategoryAmountResponse `json:"categories"`
}

// TrendPointResponse is one bucket of the trend report.
type TrendPointResponse struct {
	PeriodStart string `json:"period_start"`
	Income      string `json:"income"`
	Expense     string `json:"expense"`
	Net         string `json:"net"`
}

// TrendsResponse represents the trend report.
type TrendsResponse struct {
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Interval  string               `json:"interval"`
	Points    []TrendPointResponse `json:"points"`
}

func toReportCategory(c *entity.Category) ReportCategoryResponse {
	return ReportCategoryResponse{ID: c.ID.String(), Name: c.Name, Type: string(c.Type)}
}

// ToSummaryResponse converts a summary to its DTO.
func ToSummaryResponse(period report.Period, out *report.GetSummaryOutput) SummaryResponse {
	response := SummaryResponse{
		StartDate:         period.StartDate.Format(DateLayout),
		EndDate:           period.EndDate.Format(DateLayout),
		Income:            out.Income.StringFixed(2),
		Expense:           out.Expense.StringFixed(2),
		Net:               out.Net.StringFixed(2),
		TransactionCount:  out.TransactionCount,
		CategoryBreakdown: make([]CategoryBreakdownResponse, len(out.Categories)),
	}
	for i, b := range out.Categories {
		response.CategoryBreakdown[i] = CategoryBreakdownResponse{
			Category:         toReportCategory(b.Category),
			Income:           b.Income.StringFixed(2),
			Expense:          b.Expense.StringFixed(2),
			TransactionCount: b.Count,
		}
	}
	return response
}

// ToByCategoryResponse converts a per-category report to its DTO.
func ToByCategoryResponse(period report.Period, out *report.GetByCategoryOutput) ByCategoryResponse {
	response := ByCategoryResponse{
		StartDate:  period.StartDate.Format(DateLayout),
		EndDate:    period.EndDate.Format(DateLayout),
		Categories: make([]CategoryAmountResponse, len(out.Items)),
	}
	for i, item := range out.Items {
		response.Categories[i] = CategoryAmountResponse{
			Category:         toReportCategory(item.Category),
			Amount:           item.Amount.StringFixed(2),
			TransactionCount: item.Count,
		}
	}
	return response
}

// ToTrendsResponse converts a trend report to its DTO.
func ToTrendsResponse(period report.Period, out *report.GetTrendsOutput) TrendsResponse {
	response := TrendsResponse{
		StartDate: period.StartDate.Format(DateLayout),
		EndDate:   period.EndDate.Format(DateLayout),
		Interval:  string(out.Interval),
		Points:    make([]TrendPointResponse, len(out.Points)),
	}
	for i, p := range out.Points {
		response.Points[i] = TrendPointResponse{
			PeriodStart: p.PeriodStart.Format(DateLayout),
			Income:      p.Income.StringFixed(2),
			Expense:     p.Expense.StringFixed(2),
			Net:         p.Net.StringFixed(2),
		}
	}
	return response
}
