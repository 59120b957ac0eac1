package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

type DeleteTransaction struct {
	ID      uuid.UUID
	OwnerID string
}

var _ IAction = (*DeleteTransaction)(nil)

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	existing, err := writer.Transactions.FindByID(ctx, d.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != d.OwnerID {
		return sqlconfig.ErrNotFound
	}
	return writer.Transactions.Delete(ctx, d.ID)
}
