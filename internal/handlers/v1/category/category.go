package category

import (
	"github.com/carson-networks/mymoney-server/internal/service"
)

// Category is the API response model for a category.
type Category struct {
	ID        string  `json:"id" doc:"Category UUID"`
	Name      string  `json:"name" doc:"Display name"`
	Icon      *string `json:"icon,omitempty" doc:"Icon identifier"`
	Color     *string `json:"color,omitempty" doc:"Hex color, #RRGGBB"`
	Direction string  `json:"direction" doc:"income or expense"`
	IsDefault bool    `json:"isDefault" doc:"Default categories are shared and cannot be deleted"`
}

func toCategory(c service.Category) Category {
	return Category{
		ID:        c.ID.String(),
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		Direction: c.Direction.String(),
		IsDefault: c.IsDefault,
	}
}
