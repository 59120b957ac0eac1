package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
	"github.com/carson-networks/mymoney-server/internal/service"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

type CreateCategoryBody struct {
	Name      string `json:"name" required:"true" minLength:"1" maxLength:"100" doc:"Display name"`
	Icon      string `json:"icon,omitempty" doc:"Icon identifier"`
	Color     string `json:"color,omitempty" doc:"Hex color, #RRGGBB; invalid values fall back to gray"`
	Direction string `json:"direction" required:"true" doc:"income or expense"`
}

type CreateCategoryInput struct {
	handlerutil.OwnerHeader
	Body CreateCategoryBody
}

type CreateCategoryOutput struct {
	Status int
	Body   Category
}

type categoryCreator interface {
	CreateCategory(ctx context.Context, owner string, input service.CategoryInput) (*service.Category, error)
}

// CreateCategoryHandler handles POST /v1/category.
type CreateCategoryHandler struct {
	CategoryService categoryCreator
}

func NewCreateCategoryHandler(svc categoryCreator) *CreateCategoryHandler {
	return &CreateCategoryHandler{CategoryService: svc}
}

func (h *CreateCategoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-category",
		Method:        http.MethodPost,
		Path:          "/v1/category",
		Summary:       "Create category",
		Tags:          []string{"Categories"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateCategoryHandler) handle(ctx context.Context, input *CreateCategoryInput) (*CreateCategoryOutput, error) {
	direction, err := sqlconfig.ParseDirection(input.Body.Direction)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid direction", err)
	}

	categoryInput := service.CategoryInput{
		Name:      input.Body.Name,
		Direction: direction,
	}
	if input.Body.Icon != "" {
		categoryInput.Icon = &input.Body.Icon
	}
	if input.Body.Color != "" {
		categoryInput.Color = &input.Body.Color
	}

	created, err := h.CategoryService.CreateCategory(ctx, input.OwnerID, categoryInput)
	if err != nil {
		return nil, handlerutil.ServiceError("failed to create category", err)
	}
	return &CreateCategoryOutput{Status: http.StatusCreated, Body: toCategory(*created)}, nil
}
