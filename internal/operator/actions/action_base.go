package actions

import (
	"context"

	"github.com/carson-networks/mymoney-server/internal/storage"
)

// IAction is a unit of local mutation. Perform runs inside a single writer
// transaction that is committed when it returns nil and rolled back otherwise.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// MergeResult counts what a merge did to the local store.
type MergeResult struct {
	Inserted int
	Updated  int
	Skipped  int
	Deleted  int
}

func (r MergeResult) Mutations() int {
	return r.Inserted + r.Updated + r.Deleted
}

func (r *MergeResult) add(other MergeResult) {
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Skipped += other.Skipped
	r.Deleted += other.Deleted
}
