package sms

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/mymoney-server/internal/smsparser"
)

type ParseMessageInput struct {
	Body MessageBody
}

type ParseMessageOutput struct {
	Body struct {
		Matched bool           `json:"matched"`
		Parsed  *ParsedMessage `json:"parsed,omitempty"`
	}
}

type messagePreviewer interface {
	Preview(text string) (*smsparser.ParsedTransaction, bool)
}

// ParseMessageHandler handles POST /v1/sms/parse. Nothing is stored.
type ParseMessageHandler struct {
	SMSService messagePreviewer
}

func NewParseMessageHandler(svc messagePreviewer) *ParseMessageHandler {
	return &ParseMessageHandler{SMSService: svc}
}

func (h *ParseMessageHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "parse-sms",
		Method:      http.MethodPost,
		Path:        "/v1/sms/parse",
		Summary:     "Parse bank message",
		Tags:        []string{"SMS"},
	}, h.handle)
}

func (h *ParseMessageHandler) handle(_ context.Context, input *ParseMessageInput) (*ParseMessageOutput, error) {
	out := &ParseMessageOutput{}
	parsed, ok := h.SMSService.Preview(input.Body.Message)
	out.Body.Matched = ok
	if ok {
		out.Body.Parsed = toParsedMessage(parsed)
	}
	return out, nil
}
