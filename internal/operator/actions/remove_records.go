package actions

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// RemoveRecords deletes records the remote store reported as removed.
// Records that are missing, belong to someone else, or are defaults are
// skipped.
type RemoveRecords struct {
	OwnerID        string
	TransactionIDs []uuid.UUID
	CategoryIDs    []uuid.UUID

	Result MergeResult
}

var _ IAction = (*RemoveRecords)(nil)

func (r *RemoveRecords) Perform(ctx context.Context, writer *storage.Writer) error {
	var result MergeResult
	for _, id := range r.TransactionIDs {
		err := (&DeleteTransaction{ID: id, OwnerID: r.OwnerID}).Perform(ctx, writer)
		if errors.Is(err, sqlconfig.ErrNotFound) {
			result.Skipped++
			continue
		}
		if err != nil {
			return err
		}
		result.Deleted++
	}
	for _, id := range r.CategoryIDs {
		err := (&DeleteCategory{ID: id, OwnerID: r.OwnerID}).Perform(ctx, writer)
		if errors.Is(err, sqlconfig.ErrNotFound) || errors.Is(err, sqlconfig.ErrDefaultCategoryImmutable) {
			result.Skipped++
			continue
		}
		if err != nil {
			return err
		}
		result.Deleted++
	}
	r.Result = result
	return nil
}
