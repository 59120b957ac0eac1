package report

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
	"github.com/carson-networks/mymoney-server/internal/logging"
	"github.com/carson-networks/mymoney-server/internal/service"
)

type SummaryInput struct {
	PeriodInput
	Months int `query:"months" default:"6" minimum:"1" maximum:"24" doc:"Number of calendar months in the trend, ending with the current one"`
}

type CategorySpending struct {
	CategoryID string  `json:"categoryID"`
	Name       string  `json:"name"`
	Color      *string `json:"color,omitempty"`
	Amount     string  `json:"amount"`
	Percentage string  `json:"percentage" doc:"Share of the period's expenses, two decimals"`
}

type MonthlyTotals struct {
	Month   string `json:"month" doc:"YYYY-MM"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

type SummaryResponse struct {
	Income        string             `json:"income"`
	Expense       string             `json:"expense"`
	Net           string             `json:"net"`
	Count         int                `json:"count" doc:"Transactions in the period"`
	Uncategorized string             `json:"uncategorized" doc:"Expenses without a category"`
	Spending      []CategorySpending `json:"spending" doc:"Expenses per category, largest first"`
	Monthly       []MonthlyTotals    `json:"monthly" doc:"Income and expenses per month, oldest first"`
}

type SummaryOutput struct {
	Body SummaryResponse
}

type summaryReporter interface {
	CategorySpending(ctx context.Context, owner string, from, to time.Time) (*service.SpendingReport, error)
	MonthlySummary(ctx context.Context, owner string, months int, now time.Time) ([]service.MonthlyTotals, error)
	RangeSummary(ctx context.Context, owner string, from, to time.Time) (*service.RangeSummary, error)
}

// SummaryHandler handles GET /v1/report/summary.
type SummaryHandler struct {
	ReportService summaryReporter
	Now           func() time.Time
}

func NewSummaryHandler(svc summaryReporter) *SummaryHandler {
	return &SummaryHandler{ReportService: svc, Now: time.Now}
}

func (h *SummaryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "report-summary",
		Method:      http.MethodGet,
		Path:        "/v1/report/summary",
		Summary:     "Report summary",
		Description: "Totals for a period, its expenses by category, and the monthly trend.",
		Tags:        []string{"Reports"},
	}, h.handle)
}

func (h *SummaryHandler) handle(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	from, to, err := input.parse()
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("reportSummaryMs")
	}
	defer func() {
		if stopTimer != nil {
			stopTimer()
		}
	}()

	summary, err := h.ReportService.RangeSummary(ctx, input.OwnerID, from, to)
	if err != nil {
		return nil, handlerutil.ServiceError("failed to summarize period", err)
	}
	spending, err := h.ReportService.CategorySpending(ctx, input.OwnerID, from, to)
	if err != nil {
		return nil, handlerutil.ServiceError("failed to compute spending", err)
	}
	monthly, err := h.ReportService.MonthlySummary(ctx, input.OwnerID, input.Months, h.Now())
	if err != nil {
		return nil, handlerutil.ServiceError("failed to compute monthly totals", err)
	}

	resp := SummaryResponse{
		Income:        summary.Income.StringFixed(2),
		Expense:       summary.Expense.StringFixed(2),
		Net:           summary.Net.StringFixed(2),
		Count:         summary.Count,
		Uncategorized: spending.Uncategorized.StringFixed(2),
		Spending:      make([]CategorySpending, len(spending.Categories)),
		Monthly:       make([]MonthlyTotals, len(monthly)),
	}
	for i, c := range spending.Categories {
		resp.Spending[i] = CategorySpending{
			CategoryID: c.CategoryID.String(),
			Name:       c.Name,
			Color:      c.Color,
			Amount:     c.Amount.StringFixed(2),
			Percentage: c.Percentage.StringFixed(2),
		}
	}
	for i, m := range monthly {
		resp.Monthly[i] = MonthlyTotals{
			Month:   m.Month.Format("2006-01"),
			Income:  m.Income.StringFixed(2),
			Expense: m.Expense.StringFixed(2),
		}
	}
	return &SummaryOutput{Body: resp}, nil
}
