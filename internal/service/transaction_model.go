package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID           uuid.UUID
	Amount       decimal.Decimal
	Direction    sqlconfig.Direction
	Date         time.Time
	CategoryID   *uuid.UUID
	CategoryName *string
	Note         *string
	OwnerID      string
}

// TransactionInput carries the user supplied fields of a transaction. A zero
// Date means now.
type TransactionInput struct {
	Amount     decimal.Decimal
	Direction  sqlconfig.Direction
	Date       time.Time
	CategoryID *uuid.UUID
	Note       *string
}

// TransactionListFilter narrows a transaction listing. Nil fields match
// everything.
type TransactionListFilter struct {
	Direction  *sqlconfig.Direction
	CategoryID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// TransactionCursor identifies a position in a paginated result set.
type TransactionCursor struct {
	Position int
	Limit    int
}

func transactionFromStorage(row *sqlconfig.Transaction, categoryName *string) Transaction {
	return Transaction{
		ID:           row.ID,
		Amount:       row.Amount,
		Direction:    row.Direction,
		Date:         row.Date,
		CategoryID:   row.CategoryID,
		CategoryName: categoryName,
		Note:         row.Note,
		OwnerID:      row.OwnerID,
	}
}
