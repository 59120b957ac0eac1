package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
)

type transactionDeleter interface {
	DeleteTransaction(ctx context.Context, owner string, id uuid.UUID) error
}

// DeleteTransactionHandler handles DELETE /v1/transaction/{id}.
type DeleteTransactionHandler struct {
	TransactionService transactionDeleter
}

func NewDeleteTransactionHandler(svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-transaction",
		Method:        http.MethodDelete,
		Path:          "/v1/transaction/{id}",
		Summary:       "Delete transaction",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *TransactionPath) (*struct{}, error) {
	id, err := parseTransactionID(input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.TransactionService.DeleteTransaction(ctx, input.OwnerID, id); err != nil {
		return nil, handlerutil.ServiceError("failed to delete transaction", err)
	}
	return nil, nil
}
