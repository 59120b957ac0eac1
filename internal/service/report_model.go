package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// CategorySpending is the expense total of one category over a period.
type CategorySpending struct {
	CategoryID uuid.UUID
	Name       string
	Color      *string
	Amount     decimal.Decimal
	// Percentage of the period's total expenses, rounded to two places.
	Percentage decimal.Decimal
}

// SpendingReport breaks a period's expenses down by category, largest first.
// Uncategorized expenses count towards Total but have no entry.
type SpendingReport struct {
	From          time.Time
	To            time.Time
	Total         decimal.Decimal
	Uncategorized decimal.Decimal
	Categories    []CategorySpending
}

type MonthlyTotals struct {
	Month   time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
}

type RangeSummary struct {
	From    time.Time
	To      time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
	Count   int
}
