package service

import (
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// Category represents a category in the service layer.
type Category struct {
	ID        uuid.UUID
	Name      string
	Icon      *string
	Color     *string
	Direction sqlconfig.Direction
	IsDefault bool
	OwnerID   *string
}

// CategoryInput carries the fields of a new custom category.
type CategoryInput struct {
	Name      string
	Icon      *string
	Color     *string
	Direction sqlconfig.Direction
}

func categoryFromStorage(row *sqlconfig.Category) Category {
	return Category{
		ID:        row.ID,
		Name:      row.Name,
		Icon:      row.Icon,
		Color:     row.Color,
		Direction: row.Direction,
		IsDefault: row.IsDefault,
		OwnerID:   row.OwnerID,
	}
}
