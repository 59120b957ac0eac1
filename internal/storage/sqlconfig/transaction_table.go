package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dialect"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/bob/dialect/sqlite/um"
	"github.com/stephenafamo/scan"
)

const (
	transactionsTableName = "transactions"
	defaultBatchSize      = 50
)

var transactionColumns = []any{"id", "amount", "direction", "date", "category_id", "note", "owner_id"}

var _ ITransactionTable = (*TransactionsTable)(nil)

type transactionRow struct {
	ID         uuid.UUID        `db:"id"`
	Amount     decimal.Decimal  `db:"amount"`
	Direction  string           `db:"direction"`
	Date       int64            `db:"date"`
	CategoryID uuid.NullUUID    `db:"category_id"`
	Note       null.Val[string] `db:"note"`
	OwnerID    string           `db:"owner_id"`
}

type TransactionsTable struct {
	exec      bob.Executor
	batchSize int
}

// NewTransactionsTable binds the table to exec. batchSize is used by List
// when the filter sets none; zero means the package default.
func NewTransactionsTable(exec bob.Executor, batchSize int) *TransactionsTable {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &TransactionsTable{exec: exec, batchSize: batchSize}
}

// FindByID retrieves a transaction by primary key.
func (t *TransactionsTable) FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	q := sqlite.Select(
		sm.Columns(transactionColumns...),
		sm.From(transactionsTableName),
		sm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[transactionRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToTransaction(row), nil
}

// List returns transactions matching the filter, newest first. Rows are read
// in batches of filter.BatchSize until the filter's Limit is reached or the
// table is exhausted.
func (t *TransactionsTable) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	if filter == nil {
		filter = &TransactionFilter{}
	}
	batchSize := filter.BatchSize
	if batchSize <= 0 {
		batchSize = t.batchSize
	}

	offset := filter.Offset
	var result []*Transaction
	for {
		size := batchSize
		if filter.Limit > 0 {
			remaining := filter.Limit - len(result)
			if remaining <= 0 {
				break
			}
			size = min(size, remaining)
		}

		queryMods := []bob.Mod[*dialect.SelectQuery]{
			sm.Columns(transactionColumns...),
			sm.From(transactionsTableName),
		}
		queryMods = append(queryMods, transactionWhere(filter)...)
		queryMods = append(queryMods,
			sm.OrderBy(sqlite.Quote("date")).Desc(),
			sm.OrderBy(sqlite.Quote("id")).Desc(),
			sm.Limit(size),
			sm.Offset(offset),
		)

		rows, err := bob.All(ctx, t.exec, sqlite.Select(queryMods...), scan.StructMapper[transactionRow]())
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			result = append(result, rowToTransaction(row))
		}
		if len(rows) < size {
			break
		}
		offset += len(rows)
	}
	return result, nil
}

// Count returns the number of transactions matching the filter. Pagination
// fields are ignored.
func (t *TransactionsTable) Count(ctx context.Context, filter *TransactionFilter) (int64, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(sqlite.Raw("count(*)")),
		sm.From(transactionsTableName),
	}
	if filter != nil {
		queryMods = append(queryMods, transactionWhere(filter)...)
	}
	return bob.One(ctx, t.exec, sqlite.Select(queryMods...), scan.SingleColumnMapper[int64])
}

func (t *TransactionsTable) Insert(ctx context.Context, txn *Transaction) error {
	row := transactionToRow(txn)
	q := sqlite.Insert(
		im.Into(transactionsTableName, "id", "amount", "direction", "date", "category_id", "note", "owner_id"),
		im.Values(
			sqlite.Arg(row.ID),
			sqlite.Arg(row.Amount),
			sqlite.Arg(row.Direction),
			sqlite.Arg(row.Date),
			sqlite.Arg(row.CategoryID),
			sqlite.Arg(row.Note),
			sqlite.Arg(row.OwnerID),
		),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return err
}

// Update overwrites every field of the transaction with the given ID.
func (t *TransactionsTable) Update(ctx context.Context, txn *Transaction) error {
	row := transactionToRow(txn)
	q := sqlite.Update(
		um.Table(transactionsTableName),
		um.SetCol("amount").ToArg(row.Amount),
		um.SetCol("direction").ToArg(row.Direction),
		um.SetCol("date").ToArg(row.Date),
		um.SetCol("category_id").ToArg(row.CategoryID),
		um.SetCol("note").ToArg(row.Note),
		um.SetCol("owner_id").ToArg(row.OwnerID),
		um.Where(sqlite.Quote("id").EQ(sqlite.Arg(row.ID))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Upsert updates the transaction in place when its ID exists and inserts it
// otherwise. It reports whether a new row was inserted.
func (t *TransactionsTable) Upsert(ctx context.Context, txn *Transaction) (bool, error) {
	_, err := t.FindByID(ctx, txn.ID)
	if errors.Is(err, ErrNotFound) {
		return true, t.Insert(ctx, txn)
	}
	if err != nil {
		return false, err
	}
	return false, t.Update(ctx, txn)
}

func (t *TransactionsTable) Delete(ctx context.Context, id uuid.UUID) error {
	q := sqlite.Delete(
		dm.From(transactionsTableName),
		dm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteByOwner removes every transaction belonging to ownerID.
func (t *TransactionsTable) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	q := sqlite.Delete(
		dm.From(transactionsTableName),
		dm.Where(sqlite.Quote("owner_id").EQ(sqlite.Arg(ownerID))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func transactionWhere(filter *TransactionFilter) []bob.Mod[*dialect.SelectQuery] {
	var whereMods []bob.Mod[*dialect.SelectQuery]
	if filter.OwnerID != nil {
		whereMods = append(whereMods, sm.Where(sqlite.Quote("owner_id").EQ(sqlite.Arg(*filter.OwnerID))))
	}
	if filter.Direction != nil {
		whereMods = append(whereMods, sm.Where(sqlite.Quote("direction").EQ(sqlite.Arg(string(*filter.Direction)))))
	}
	if filter.CategoryID != nil {
		whereMods = append(whereMods, sm.Where(sqlite.Quote("category_id").EQ(sqlite.Arg(*filter.CategoryID))))
	}
	if filter.From != nil {
		whereMods = append(whereMods, sm.Where(sqlite.Quote("date").GTE(sqlite.Arg(filter.From.UnixMilli()))))
	}
	if filter.To != nil {
		whereMods = append(whereMods, sm.Where(sqlite.Quote("date").LT(sqlite.Arg(filter.To.UnixMilli()))))
	}
	return whereMods
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func transactionToRow(txn *Transaction) transactionRow {
	row := transactionRow{
		ID:        txn.ID,
		Amount:    txn.Amount,
		Direction: string(txn.Direction),
		Date:      txn.Date.UnixMilli(),
		Note:      null.FromPtr(txn.Note),
		OwnerID:   txn.OwnerID,
	}
	if txn.CategoryID != nil {
		row.CategoryID = uuid.NullUUID{UUID: *txn.CategoryID, Valid: true}
	}
	return row
}

func rowToTransaction(row transactionRow) *Transaction {
	txn := &Transaction{
		ID:        row.ID,
		Amount:    row.Amount,
		Direction: Direction(row.Direction),
		Date:      time.UnixMilli(row.Date).UTC(),
		Note:      row.Note.Ptr(),
		OwnerID:   row.OwnerID,
	}
	if row.CategoryID.Valid {
		id := row.CategoryID.UUID
		txn.CategoryID = &id
	}
	return txn
}
