package status

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carson-networks/mymoney-server/internal/logging"
	"github.com/carson-networks/mymoney-server/internal/notify"
)

type statusSource interface {
	Status() notify.SyncStatus
}

type Response struct {
	State    notify.SyncState `json:"state"`
	Progress string           `json:"progress,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type Handler struct {
	Hub statusSource
}

func NewHandler(hub statusSource) Handler {
	return Handler{Hub: hub}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != "GET" {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	current := h.Hub.Status()
	logData.AddData("syncState", current.State)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(Response{
		State:    current.State,
		Progress: current.Progress,
		Error:    current.Err,
	})
}
