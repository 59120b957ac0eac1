package sms

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
	"github.com/carson-networks/mymoney-server/internal/logging"
	"github.com/carson-networks/mymoney-server/internal/service"
)

type ImportMessageInput struct {
	handlerutil.OwnerHeader
	Body MessageBody
}

type ImportMessageResponse struct {
	Outcome       string         `json:"outcome" enum:"imported,disabled,duplicate,no-match,no-category" doc:"What happened to the message"`
	Parsed        *ParsedMessage `json:"parsed,omitempty"`
	TransactionID string         `json:"transactionID,omitempty" doc:"UUID of the created transaction"`
}

type ImportMessageOutput struct {
	Body ImportMessageResponse
}

type messageImporter interface {
	ProcessMessage(ctx context.Context, owner, text string) (*service.SMSImportResult, error)
}

// ImportMessageHandler handles POST /v1/sms.
type ImportMessageHandler struct {
	SMSService messageImporter
}

func NewImportMessageHandler(svc messageImporter) *ImportMessageHandler {
	return &ImportMessageHandler{SMSService: svc}
}

func (h *ImportMessageHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "import-sms",
		Method:      http.MethodPost,
		Path:        "/v1/sms",
		Summary:     "Import bank message",
		Description: "Parses a bank notification and records it as a transaction when automatic import is enabled.",
		Tags:        []string{"SMS"},
	}, h.handle)
}

func (h *ImportMessageHandler) handle(ctx context.Context, input *ImportMessageInput) (*ImportMessageOutput, error) {
	result, err := h.SMSService.ProcessMessage(ctx, input.OwnerID, input.Body.Message)
	if err != nil {
		return nil, handlerutil.ServiceError("failed to import message", err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("outcome", string(result.Outcome))
	}

	resp := ImportMessageResponse{
		Outcome: string(result.Outcome),
		Parsed:  toParsedMessage(result.Parsed),
	}
	if result.Transaction != nil {
		resp.TransactionID = result.Transaction.ID.String()
	}
	return &ImportMessageOutput{Body: resp}, nil
}
