package sqlconfig

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

// Category represents a category record. Defaults have no owner and are
// visible to everyone.
type Category struct {
	ID        uuid.UUID
	Name      string
	Icon      *string
	Color     *string
	Direction Direction
	IsDefault bool
	OwnerID   *string
}

// CategoryFilter specifies filters for listing categories. A nil OwnerID
// restricts the result to default categories. With an OwnerID the result is
// the defaults plus the owner's categories, or only the owner's categories
// when OwnedOnly is set.
type CategoryFilter struct {
	OwnerID   *string
	OwnedOnly bool
	Direction *Direction
	Name      *string
	Limit     int
	Offset    int
}

// ICategoryTable defines the interface for category storage operations.
//
//go:generate mockery --name ICategoryTable --output mock_ICategoryTable.go
type ICategoryTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context, filter *CategoryFilter) ([]*Category, error)
	Count(ctx context.Context, filter *CategoryFilter) (int64, error)
	Insert(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Upsert(ctx context.Context, category *Category) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
