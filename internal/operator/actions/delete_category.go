package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// DeleteCategory removes one of the owner's custom categories. Transactions
// pointing at it become uncategorized.
type DeleteCategory struct {
	ID      uuid.UUID
	OwnerID string
}

var _ IAction = (*DeleteCategory)(nil)

func (d *DeleteCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	existing, err := writer.Categories.FindByID(ctx, d.ID)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return sqlconfig.ErrDefaultCategoryImmutable
	}
	if existing.OwnerID == nil || *existing.OwnerID != d.OwnerID {
		return sqlconfig.ErrNotFound
	}
	return writer.Categories.Delete(ctx, d.ID)
}
