package sms

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type ImportSettingBody struct {
	Enabled bool `json:"enabled" doc:"Whether messages are imported automatically"`
}

type SetImportSettingInput struct {
	Body ImportSettingBody
}

type ImportSettingOutput struct {
	Body ImportSettingBody
}

type importSwitch interface {
	Enabled(ctx context.Context) (bool, error)
	SetEnabled(ctx context.Context, enabled bool) error
}

// ImportSettingHandler handles GET and PUT /v1/sms/enabled.
type ImportSettingHandler struct {
	SMSService importSwitch
}

func NewImportSettingHandler(svc importSwitch) *ImportSettingHandler {
	return &ImportSettingHandler{SMSService: svc}
}

func (h *ImportSettingHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-sms-enabled",
		Method:      http.MethodGet,
		Path:        "/v1/sms/enabled",
		Summary:     "Get automatic import setting",
		Tags:        []string{"SMS"},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "set-sms-enabled",
		Method:      http.MethodPut,
		Path:        "/v1/sms/enabled",
		Summary:     "Set automatic import setting",
		Tags:        []string{"SMS"},
	}, h.set)
}

func (h *ImportSettingHandler) get(ctx context.Context, _ *struct{}) (*ImportSettingOutput, error) {
	enabled, err := h.SMSService.Enabled(ctx)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to read setting", err)
	}
	return &ImportSettingOutput{Body: ImportSettingBody{Enabled: enabled}}, nil
}

func (h *ImportSettingHandler) set(ctx context.Context, input *SetImportSettingInput) (*ImportSettingOutput, error) {
	if err := h.SMSService.SetEnabled(ctx, input.Body.Enabled); err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to save setting", err)
	}
	return &ImportSettingOutput{Body: input.Body}, nil
}
