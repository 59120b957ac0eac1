package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
	"github.com/carson-networks/mymoney-server/internal/service"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

type ListCategoriesInput struct {
	handlerutil.OwnerHeader
	Direction string `query:"direction" doc:"Only income or expense categories"`
}

type ListCategoriesOutput struct {
	Body struct {
		Categories []Category `json:"categories" doc:"Default categories followed by the owner's own"`
	}
}

type categoryLister interface {
	ListCategories(ctx context.Context, owner string, direction *sqlconfig.Direction) ([]service.Category, error)
}

// ListCategoriesHandler handles GET /v1/category.
type ListCategoriesHandler struct {
	CategoryService categoryLister
}

func NewListCategoriesHandler(svc categoryLister) *ListCategoriesHandler {
	return &ListCategoriesHandler{CategoryService: svc}
}

func (h *ListCategoriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/category",
		Summary:     "List categories",
		Description: "Returns the default categories and, with an owner, the owner's custom categories.",
		Tags:        []string{"Categories"},
	}, h.handle)
}

func (h *ListCategoriesHandler) handle(ctx context.Context, input *ListCategoriesInput) (*ListCategoriesOutput, error) {
	direction, err := handlerutil.ParseOptionalDirection(input.Direction)
	if err != nil {
		return nil, err
	}

	categories, err := h.CategoryService.ListCategories(ctx, input.OwnerID, direction)
	if err != nil {
		return nil, handlerutil.ServiceError("failed to list categories", err)
	}

	out := &ListCategoriesOutput{}
	out.Body.Categories = make([]Category, len(categories))
	for i, c := range categories {
		out.Body.Categories[i] = toCategory(c)
	}
	return out, nil
}
