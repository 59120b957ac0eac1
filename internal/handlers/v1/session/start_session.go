package session

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
	"github.com/carson-networks/mymoney-server/internal/logging"
	"github.com/carson-networks/mymoney-server/internal/service"
)

// ConvergeResult summarizes the reconciliation run by a session start.
type ConvergeResult struct {
	Resynced           bool   `json:"resynced" doc:"Whether local records were rebuilt from the remote store"`
	Reason             string `json:"reason,omitempty" doc:"Why a resync happened"`
	RemoteTransactions int    `json:"remoteTransactions"`
	RemoteCategories   int    `json:"remoteCategories"`
	SkippedDocuments   int    `json:"skippedDocuments" doc:"Malformed remote documents that were ignored"`
}

type StartSessionResponse struct {
	AlreadyActive bool            `json:"alreadyActive" doc:"The session was already running and converged"`
	Converge      *ConvergeResult `json:"converge,omitempty"`
	ConvergeError string          `json:"convergeError,omitempty" doc:"Reconciliation failure; live sync runs anyway and the next start retries"`
}

type StartSessionOutput struct {
	Body StartSessionResponse
}

type sessionStarter interface {
	StartSession(ctx context.Context, owner string) (*service.SessionStart, error)
}

// StartSessionHandler handles POST /v1/session.
type StartSessionHandler struct {
	SessionService sessionStarter
}

func NewStartSessionHandler(svc sessionStarter) *StartSessionHandler {
	return &StartSessionHandler{SessionService: svc}
}

func (h *StartSessionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "start-session",
		Method:      http.MethodPost,
		Path:        "/v1/session",
		Summary:     "Start session",
		Description: "Reconciles the owner's local records with the remote store and starts live sync.",
		Tags:        []string{"Session"},
	}, h.handle)
}

func (h *StartSessionHandler) handle(ctx context.Context, input *handlerutil.OwnerHeader) (*StartSessionOutput, error) {
	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("startSessionMs")
	}
	start, err := h.SessionService.StartSession(ctx, input.OwnerID)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, handlerutil.ServiceError("failed to start session", err)
	}

	resp := StartSessionResponse{AlreadyActive: start.AlreadyActive}
	if start.Converge != nil {
		resp.Converge = &ConvergeResult{
			Resynced:           start.Converge.Resynced,
			Reason:             start.Converge.Reason,
			RemoteTransactions: start.Converge.RemoteTransactions,
			RemoteCategories:   start.Converge.RemoteCategories,
			SkippedDocuments:   start.Converge.SkippedDocuments,
		}
		if logData != nil {
			logData.AddData("resynced", start.Converge.Resynced)
		}
	}
	if start.ConvergeErr != nil {
		resp.ConvergeError = start.ConvergeErr.Error()
	}
	return &StartSessionOutput{Body: resp}, nil
}
