package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// MergeTransactions applies remote transactions to the local store by ID.
// Each record overwrites the local copy in full. A category reference that
// does not resolve locally is cleared.
type MergeTransactions struct {
	OwnerID      string
	Transactions []*sqlconfig.Transaction

	Result MergeResult
}

var _ IAction = (*MergeTransactions)(nil)

func (m *MergeTransactions) Perform(ctx context.Context, writer *storage.Writer) error {
	result, err := mergeTransactions(ctx, writer, m.OwnerID, m.Transactions)
	if err != nil {
		return err
	}
	m.Result = result
	return nil
}

// MergeCategories applies remote categories to the local store by ID.
// Default categories already present locally are never modified, and a
// category only stays default when its ID is a seeded default.
type MergeCategories struct {
	OwnerID    string
	Categories []*sqlconfig.Category

	Result MergeResult
}

var _ IAction = (*MergeCategories)(nil)

func (m *MergeCategories) Perform(ctx context.Context, writer *storage.Writer) error {
	result, err := mergeCategories(ctx, writer, m.OwnerID, m.Categories)
	if err != nil {
		return err
	}
	m.Result = result
	return nil
}

func mergeTransactions(ctx context.Context, writer *storage.Writer, ownerID string, transactions []*sqlconfig.Transaction) (MergeResult, error) {
	var result MergeResult
	for _, txn := range transactions {
		txn.OwnerID = ownerID

		existing, err := writer.Transactions.FindByID(ctx, txn.ID)
		if err != nil && !errors.Is(err, sqlconfig.ErrNotFound) {
			return result, err
		}
		if existing != nil && existing.OwnerID != ownerID {
			result.Skipped++
			continue
		}

		if txn.CategoryID != nil {
			if _, err := writer.Categories.FindByID(ctx, *txn.CategoryID); errors.Is(err, sqlconfig.ErrNotFound) {
				txn.CategoryID = nil
			} else if err != nil {
				return result, err
			}
		}

		if existing == nil {
			if err := writer.Transactions.Insert(ctx, txn); err != nil {
				return result, err
			}
			result.Inserted++
			continue
		}
		if err := writer.Transactions.Update(ctx, txn); err != nil {
			return result, err
		}
		result.Updated++
	}
	return result, nil
}

func mergeCategories(ctx context.Context, writer *storage.Writer, ownerID string, categories []*sqlconfig.Category) (MergeResult, error) {
	var result MergeResult
	for _, category := range categories {
		if category.IsDefault && storage.IsDefaultCategoryID(category.ID) {
			category.OwnerID = nil
		} else {
			owner := ownerID
			category.IsDefault = false
			category.OwnerID = &owner
		}

		existing, err := writer.Categories.FindByID(ctx, category.ID)
		if err != nil && !errors.Is(err, sqlconfig.ErrNotFound) {
			return result, err
		}
		if existing != nil && (existing.IsDefault || *existing.OwnerID != ownerID) {
			result.Skipped++
			continue
		}

		if existing == nil {
			if err := writer.Categories.Insert(ctx, category); err != nil {
				return result, err
			}
			result.Inserted++
			continue
		}
		if err := writer.Categories.Update(ctx, category); err != nil {
			return result, err
		}
		result.Updated++
	}
	return result, nil
}
