package session

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
)

type GetSessionOutput struct {
	Body struct {
		Active bool `json:"active"`
	}
}

type sessionChecker interface {
	Active(owner string) bool
}

// GetSessionHandler handles GET /v1/session.
type GetSessionHandler struct {
	SessionService sessionChecker
}

func NewGetSessionHandler(svc sessionChecker) *GetSessionHandler {
	return &GetSessionHandler{SessionService: svc}
}

func (h *GetSessionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/v1/session",
		Summary:     "Get session",
		Tags:        []string{"Session"},
	}, h.handle)
}

func (h *GetSessionHandler) handle(_ context.Context, input *handlerutil.OwnerHeader) (*GetSessionOutput, error) {
	out := &GetSessionOutput{}
	out.Body.Active = h.SessionService.Active(input.OwnerID)
	return out, nil
}
