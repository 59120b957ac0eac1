package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

type reportExporter interface {
	ExportXLSX(ctx context.Context, owner string, from, to time.Time, w io.Writer) error
}

// ExportHandler handles GET /v1/report/export.
type ExportHandler struct {
	ReportService reportExporter
}

func NewExportHandler(svc reportExporter) *ExportHandler {
	return &ExportHandler{ReportService: svc}
}

func (h *ExportHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "report-export",
		Method:      http.MethodGet,
		Path:        "/v1/report/export",
		Summary:     "Export workbook",
		Description: "Downloads the period's transactions, category spending and monthly totals as an xlsx workbook.",
		Tags:        []string{"Reports"},
	}, h.handle)
}

func (h *ExportHandler) handle(ctx context.Context, input *PeriodInput) (*ExportOutput, error) {
	from, to, err := input.parse()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := h.ReportService.ExportXLSX(ctx, input.OwnerID, from, to, &buf); err != nil {
		return nil, handlerutil.ServiceError("failed to export report", err)
	}

	filename := fmt.Sprintf("mymoney_%s_%s.xlsx", from.Format(time.DateOnly), to.Format(time.DateOnly))
	return &ExportOutput{
		ContentType:        xlsxContentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", filename),
		Body:               buf.Bytes(),
	}, nil
}
