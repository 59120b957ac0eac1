package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// Writer exposes the tables bound to a single database transaction. Nothing
// is visible to readers until Commit.
type Writer struct {
	tx           bob.Tx
	Transactions sqlconfig.ITransactionTable
	Categories   sqlconfig.ICategoryTable
	Settings     sqlconfig.ISettingsTable
}

func NewWriter(tx bob.Tx, batchSize int) *Writer {
	return &Writer{
		tx:           tx,
		Transactions: sqlconfig.NewTransactionsTable(tx, batchSize),
		Categories:   sqlconfig.NewCategoriesTable(tx),
		Settings:     sqlconfig.NewSettingsTable(tx),
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
