package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

const (
	sheetTransactions = "Transactions"
	sheetSpending     = "Spending"
	sheetMonthly      = "Monthly"
)

// ExportXLSX writes a workbook with owner's transactions between from and
// to, the category spending for that period, and the monthly totals of the
// months it covers.
func (s *ReportService) ExportXLSX(ctx context.Context, owner string, from, to time.Time, w io.Writer) error {
	if owner == "" {
		return ErrNoOwner
	}

	rows, err := s.transactions(ctx, owner, nil, from, to)
	if err != nil {
		return err
	}
	names, err := categoryNames(ctx, s.reader, owner)
	if err != nil {
		return err
	}
	spending, err := s.CategorySpending(ctx, owner, from, to)
	if err != nil {
		return err
	}
	months := monthsBetween(from, to)
	monthly, err := s.MonthlySummary(ctx, owner, months, to.Add(-time.Nanosecond))
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetTransactions); err != nil {
		return err
	}
	if err := setRow(f, sheetTransactions, 1, []interface{}{"Date", "Direction", "Amount", "Category", "Note"}); err != nil {
		return err
	}
	for i, row := range rows {
		category := ""
		if name := lookupName(names, row.CategoryID); name != nil {
			category = *name
		}
		note := ""
		if row.Note != nil {
			note = *row.Note
		}
		values := []interface{}{
			row.Date.Format(time.DateOnly),
			string(row.Direction),
			row.Amount.InexactFloat64(),
			category,
			note,
		}
		if err := setRow(f, sheetTransactions, i+2, values); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(sheetSpending); err != nil {
		return err
	}
	if err := setRow(f, sheetSpending, 1, []interface{}{"Category", "Amount", "Percentage"}); err != nil {
		return err
	}
	for i, entry := range spending.Categories {
		values := []interface{}{entry.Name, entry.Amount.InexactFloat64(), entry.Percentage.InexactFloat64()}
		if err := setRow(f, sheetSpending, i+2, values); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(sheetMonthly); err != nil {
		return err
	}
	if err := setRow(f, sheetMonthly, 1, []interface{}{"Month", string(sqlconfig.DirectionIncome), string(sqlconfig.DirectionExpense)}); err != nil {
		return err
	}
	for i, month := range monthly {
		values := []interface{}{month.Month.Format("2006-01"), month.Income.InexactFloat64(), month.Expense.InexactFloat64()}
		if err := setRow(f, sheetMonthly, i+2, values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.logger.WithField("owner", owner).WithField("transactions", len(rows)).Info("Report.ExportXLSX.complete")
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// monthsBetween counts the calendar months touched by [from, to).
func monthsBetween(from, to time.Time) int {
	last := to.Add(-time.Nanosecond).In(from.Location())
	months := (last.Year()-from.Year())*12 + int(last.Month()) - int(from.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}
