package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
)

type DeleteCategoryInput struct {
	handlerutil.OwnerHeader
	ID string `path:"id" format:"uuid" doc:"Category UUID"`
}

type categoryDeleter interface {
	DeleteCategory(ctx context.Context, owner string, id uuid.UUID) error
}

// DeleteCategoryHandler handles DELETE /v1/category/{id}.
type DeleteCategoryHandler struct {
	CategoryService categoryDeleter
}

func NewDeleteCategoryHandler(svc categoryDeleter) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{CategoryService: svc}
}

func (h *DeleteCategoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-category",
		Method:        http.MethodDelete,
		Path:          "/v1/category/{id}",
		Summary:       "Delete category",
		Description:   "Deletes a custom category. Transactions using it become uncategorized. Default categories are refused.",
		Tags:          []string{"Categories"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteCategoryHandler) handle(ctx context.Context, input *DeleteCategoryInput) (*struct{}, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	if err := h.CategoryService.DeleteCategory(ctx, input.OwnerID, id); err != nil {
		return nil, handlerutil.ServiceError("failed to delete category", err)
	}
	return nil, nil
}
