package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// UpsertCategory writes a custom category owned by the caller.
type UpsertCategory struct {
	Category *sqlconfig.Category

	Inserted bool
}

var _ IAction = (*UpsertCategory)(nil)

func (u *UpsertCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	if u.Category.IsDefault || u.Category.OwnerID == nil {
		return sqlconfig.ErrDefaultCategoryImmutable
	}

	existing, err := writer.Categories.FindByID(ctx, u.Category.ID)
	if err != nil && !errors.Is(err, sqlconfig.ErrNotFound) {
		return err
	}
	if existing != nil && !existing.IsDefault && *existing.OwnerID != *u.Category.OwnerID {
		return sqlconfig.ErrNotFound
	}

	inserted, err := writer.Categories.Upsert(ctx, u.Category)
	if err != nil {
		return err
	}
	u.Inserted = inserted
	return nil
}
