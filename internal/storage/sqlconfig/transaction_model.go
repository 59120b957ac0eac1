package sqlconfig

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Transaction represents a transaction record.
type Transaction struct {
	ID         uuid.UUID
	Amount     decimal.Decimal
	Direction  Direction
	Date       time.Time
	CategoryID *uuid.UUID
	Note       *string
	OwnerID    string
}

// TransactionFilter specifies filters for listing transactions. All set
// fields must match. From is inclusive and To is exclusive.
type TransactionFilter struct {
	OwnerID    *string
	Direction  *Direction
	CategoryID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
	// BatchSize is the number of rows fetched per query; Limit caps the total.
	BatchSize int
}

// ITransactionTable defines the interface for transaction storage operations.
//
//go:generate mockery --name ITransactionTable --output mock_ITransactionTable.go
type ITransactionTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
	Count(ctx context.Context, filter *TransactionFilter) (int64, error)
	Insert(ctx context.Context, txn *Transaction) error
	Update(ctx context.Context, txn *Transaction) error
	Upsert(ctx context.Context, txn *Transaction) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
