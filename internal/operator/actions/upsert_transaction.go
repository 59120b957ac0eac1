package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// UpsertTransaction writes a locally created or edited transaction.
type UpsertTransaction struct {
	Transaction *sqlconfig.Transaction

	Inserted bool
}

var _ IAction = (*UpsertTransaction)(nil)

func (u *UpsertTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	existing, err := writer.Transactions.FindByID(ctx, u.Transaction.ID)
	if err != nil && !errors.Is(err, sqlconfig.ErrNotFound) {
		return err
	}
	if existing != nil && existing.OwnerID != u.Transaction.OwnerID {
		return sqlconfig.ErrNotFound
	}

	inserted, err := writer.Transactions.Upsert(ctx, u.Transaction)
	if err != nil {
		return err
	}
	u.Inserted = inserted
	return nil
}
