package actions

import (
	"context"

	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// ResyncOwner replaces everything the owner has locally with the given
// remote records in one transaction. Default categories are kept.
type ResyncOwner struct {
	OwnerID      string
	Categories   []*sqlconfig.Category
	Transactions []*sqlconfig.Transaction

	Result MergeResult
}

var _ IAction = (*ResyncOwner)(nil)

func (r *ResyncOwner) Perform(ctx context.Context, writer *storage.Writer) error {
	var result MergeResult

	deletedTxns, err := writer.Transactions.DeleteByOwner(ctx, r.OwnerID)
	if err != nil {
		return err
	}
	deletedCats, err := writer.Categories.DeleteByOwner(ctx, r.OwnerID)
	if err != nil {
		return err
	}
	result.Deleted = int(deletedTxns + deletedCats)

	// Categories go first so transaction references resolve.
	catResult, err := mergeCategories(ctx, writer, r.OwnerID, r.Categories)
	if err != nil {
		return err
	}
	result.add(catResult)

	txnResult, err := mergeTransactions(ctx, writer, r.OwnerID, r.Transactions)
	if err != nil {
		return err
	}
	result.add(txnResult)

	r.Result = result
	return nil
}
