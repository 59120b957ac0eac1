package session

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
	"github.com/carson-networks/mymoney-server/internal/service"
)

type EndSessionInput struct {
	handlerutil.OwnerHeader
	Logout bool `query:"logout" doc:"Also delete every local record owned by the caller"`
}

type EndSessionOutput struct {
	Body struct {
		Deleted int `json:"deleted" doc:"Local records removed by a logout"`
	}
}

type sessionEnder interface {
	EndSession(owner string)
	Logout(ctx context.Context, owner string) (int, error)
}

// EndSessionHandler handles DELETE /v1/session.
type EndSessionHandler struct {
	SessionService sessionEnder
}

func NewEndSessionHandler(svc sessionEnder) *EndSessionHandler {
	return &EndSessionHandler{SessionService: svc}
}

func (h *EndSessionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "end-session",
		Method:      http.MethodDelete,
		Path:        "/v1/session",
		Summary:     "End session",
		Description: "Stops live sync for the owner. With logout=true the owner's local records are deleted too.",
		Tags:        []string{"Session"},
	}, h.handle)
}

func (h *EndSessionHandler) handle(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error) {
	if input.OwnerID == "" {
		return nil, handlerutil.ServiceError("failed to end session", service.ErrNoOwner)
	}

	out := &EndSessionOutput{}
	if !input.Logout {
		h.SessionService.EndSession(input.OwnerID)
		return out, nil
	}

	deleted, err := h.SessionService.Logout(ctx, input.OwnerID)
	if err != nil {
		return nil, handlerutil.ServiceError("failed to log out", err)
	}
	out.Body.Deleted = deleted
	return out, nil
}
