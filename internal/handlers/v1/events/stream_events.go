package events

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
	"github.com/carson-networks/mymoney-server/internal/notify"
)

// RecordsChanged tells the client to re-read one record type.
type RecordsChanged struct {
	RecordType string `json:"recordType" enum:"transactions,categories"`
}

type SyncStatus struct {
	State    string `json:"state" enum:"idle,syncing,error"`
	Progress string `json:"progress,omitempty"`
	Error    string `json:"error,omitempty"`
}

type eventSource interface {
	Subscribe() (<-chan notify.Event, func())
	Status() notify.SyncStatus
}

// StreamEventsHandler handles GET /v1/events.
type StreamEventsHandler struct {
	Hub eventSource
}

func NewStreamEventsHandler(hub eventSource) *StreamEventsHandler {
	return &StreamEventsHandler{Hub: hub}
}

func (h *StreamEventsHandler) Register(api huma.API) {
	sse.Register(api, huma.Operation{
		OperationID: "stream-events",
		Method:      http.MethodGet,
		Path:        "/v1/events",
		Summary:     "Stream change and sync status events",
		Tags:        []string{"Events"},
	}, map[string]any{
		"recordsChanged": RecordsChanged{},
		"syncStatus":     SyncStatus{},
	}, h.handle)
}

// handle sends the current sync status, then every sync status change and
// the records-changed events of the requesting owner until the client goes
// away. Without an owner only sync status is sent.
func (h *StreamEventsHandler) handle(ctx context.Context, input *handlerutil.OwnerHeader, send sse.Sender) {
	events, unsubscribe := h.Hub.Subscribe()
	defer unsubscribe()

	if err := send.Data(toSyncStatus(h.Hub.Status())); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			var err error
			switch {
			case event.Status != nil:
				err = send.Data(toSyncStatus(*event.Status))
			case event.RecordsChanged != nil && input.OwnerID != "" && event.RecordsChanged.Owner == input.OwnerID:
				err = send.Data(RecordsChanged{RecordType: string(event.RecordsChanged.RecordType)})
			}
			if err != nil {
				return
			}
		}
	}
}

func toSyncStatus(status notify.SyncStatus) SyncStatus {
	return SyncStatus{
		State:    string(status.State),
		Progress: status.Progress,
		Error:    status.Err,
	}
}
