package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

type Reader struct {
	Transactions sqlconfig.ITransactionTable
	Categories   sqlconfig.ICategoryTable
	Settings     sqlconfig.ISettingsTable
}

func NewReader(exec bob.Executor, batchSize int) *Reader {
	return &Reader{
		Transactions: sqlconfig.NewTransactionsTable(exec, batchSize),
		Categories:   sqlconfig.NewCategoriesTable(exec),
		Settings:     sqlconfig.NewSettingsTable(exec),
	}
}
