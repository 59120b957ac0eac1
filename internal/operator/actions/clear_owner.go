package actions

import (
	"context"

	"github.com/carson-networks/mymoney-server/internal/storage"
)

// ClearOwner removes every local record scoped to the owner. Defaults are
// not owned and stay.
type ClearOwner struct {
	OwnerID string

	Deleted int
}

var _ IAction = (*ClearOwner)(nil)

func (c *ClearOwner) Perform(ctx context.Context, writer *storage.Writer) error {
	txns, err := writer.Transactions.DeleteByOwner(ctx, c.OwnerID)
	if err != nil {
		return err
	}
	cats, err := writer.Categories.DeleteByOwner(ctx, c.OwnerID)
	if err != nil {
		return err
	}
	c.Deleted = int(txns + cats)
	return nil
}
