package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

var (
	novemberStart = time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	decemberStart = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
)

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 12, 0, 0, 0, time.UTC)
}

func defaultID(direction sqlconfig.Direction, name string) *uuid.UUID {
	id := storage.DefaultCategoryID(direction, name)
	return &id
}

func seedReportData(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	food := defaultID(sqlconfig.DirectionExpense, "Food")
	bills := defaultID(sqlconfig.DirectionExpense, "Bills")
	salary := defaultID(sqlconfig.DirectionIncome, "Salary")

	entries := []TransactionInput{
		{Amount: decimal.RequireFromString("30.00"), Direction: sqlconfig.DirectionExpense, CategoryID: food, Date: day(11, 3)},
		{Amount: decimal.RequireFromString("10.00"), Direction: sqlconfig.DirectionExpense, CategoryID: food, Date: day(11, 20)},
		{Amount: decimal.RequireFromString("60.00"), Direction: sqlconfig.DirectionExpense, CategoryID: bills, Date: day(11, 5)},
		{Amount: decimal.RequireFromString("100.00"), Direction: sqlconfig.DirectionExpense, Date: day(11, 9)},
		{Amount: decimal.RequireFromString("2000.00"), Direction: sqlconfig.DirectionIncome, CategoryID: salary, Date: day(11, 1)},
		{Amount: decimal.RequireFromString("15.00"), Direction: sqlconfig.DirectionExpense, CategoryID: food, Date: day(10, 31)},
		{Amount: decimal.RequireFromString("500.00"), Direction: sqlconfig.DirectionIncome, Date: day(8, 15)},
	}
	for _, input := range entries {
		_, err := env.svc.Transaction.CreateTransaction(ctx, testOwner, input)
		require.NoError(t, err)
	}

	foreign := expenseInput("999.00")
	foreign.Date = day(11, 10)
	_, err := env.svc.Transaction.CreateTransaction(ctx, "someone-else", foreign)
	require.NoError(t, err)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

// -- CategorySpending tests --

func TestCategorySpending_GroupsAndRanks(t *testing.T) {
	env := newTestEnv(t)
	seedReportData(t, env)

	report, err := env.svc.Report.CategorySpending(context.Background(), testOwner, novemberStart, decemberStart)
	require.NoError(t, err)

	assertDecimal(t, "200", report.Total)
	assertDecimal(t, "100", report.Uncategorized)
	require.Len(t, report.Categories, 2)

	assert.Equal(t, "Bills", report.Categories[0].Name)
	assertDecimal(t, "60", report.Categories[0].Amount)
	assertDecimal(t, "30", report.Categories[0].Percentage)

	assert.Equal(t, "Food", report.Categories[1].Name)
	assertDecimal(t, "40", report.Categories[1].Amount)
	assertDecimal(t, "20", report.Categories[1].Percentage)
}

func TestCategorySpending_EmptyPeriod(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.svc.Report.CategorySpending(context.Background(), testOwner, novemberStart, decemberStart)
	require.NoError(t, err)
	assert.True(t, report.Total.IsZero())
	assert.Empty(t, report.Categories)
}

// -- MonthlySummary tests --

func TestMonthlySummary_OldestFirst(t *testing.T) {
	env := newTestEnv(t)
	seedReportData(t, env)

	months, err := env.svc.Report.MonthlySummary(context.Background(), testOwner, 0, day(12, 24))
	require.NoError(t, err)
	require.Len(t, months, defaultReportMonths)

	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), months[0].Month)
	assert.Equal(t, decemberStart, months[5].Month)

	assertDecimal(t, "500", months[1].Income)
	assertDecimal(t, "15", months[3].Expense)
	assertDecimal(t, "2000", months[4].Income)
	assertDecimal(t, "200", months[4].Expense)
	assert.True(t, months[5].Income.IsZero())
	assert.True(t, months[5].Expense.IsZero())
}

// -- RangeSummary tests --

func TestRangeSummary_Totals(t *testing.T) {
	env := newTestEnv(t)
	seedReportData(t, env)

	summary, err := env.svc.Report.RangeSummary(context.Background(), testOwner, day(10, 1), decemberStart)
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Count)
	assertDecimal(t, "2000", summary.Income)
	assertDecimal(t, "215", summary.Expense)
	assertDecimal(t, "1785", summary.Net)
}

func TestRangeSummary_RequiresOwner(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Report.RangeSummary(context.Background(), "", novemberStart, decemberStart)
	assert.ErrorIs(t, err, ErrNoOwner)
}

// -- ExportXLSX tests --

func TestExportXLSX_WritesSheets(t *testing.T) {
	env := newTestEnv(t)
	seedReportData(t, env)

	buf := &bytes.Buffer{}
	require.NoError(t, env.svc.Report.ExportXLSX(context.Background(), testOwner, novemberStart, decemberStart, buf))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{sheetTransactions, sheetSpending, sheetMonthly}, f.GetSheetList())

	rows, err := f.GetRows(sheetTransactions)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Date", "Direction", "Amount", "Category", "Note"}, rows[0])
	assert.Equal(t, "2025-11-20", rows[1][0])
	assert.Equal(t, "Food", rows[1][3])

	spending, err := f.GetRows(sheetSpending)
	require.NoError(t, err)
	require.Len(t, spending, 3)
	assert.Equal(t, "Bills", spending[1][0])

	monthly, err := f.GetRows(sheetMonthly)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2025-11", monthly[1][0])
}
