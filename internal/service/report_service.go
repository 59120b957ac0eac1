package service

import (
	"context"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

const defaultReportMonths = 6

var hundred = decimal.NewFromInt(100)

// ReportService computes read-only summaries over an owner's transactions.
// Periods are half open: From is included and To is not.
type ReportService struct {
	reader *storage.Reader
	logger *logrus.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(deps Dependencies) *ReportService {
	return &ReportService{
		reader: deps.Reader,
		logger: deps.Logger,
	}
}

// CategorySpending totals owner's expenses per category between from and to.
func (s *ReportService) CategorySpending(ctx context.Context, owner string, from, to time.Time) (*SpendingReport, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}
	expense := sqlconfig.DirectionExpense
	rows, err := s.transactions(ctx, owner, &expense, from, to)
	if err != nil {
		return nil, err
	}
	categories, err := s.reader.Categories.List(ctx, &sqlconfig.CategoryFilter{OwnerID: &owner})
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*sqlconfig.Category, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}

	report := &SpendingReport{From: from, To: to}
	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, row := range rows {
		report.Total = report.Total.Add(row.Amount)
		if row.CategoryID == nil {
			report.Uncategorized = report.Uncategorized.Add(row.Amount)
			continue
		}
		if _, ok := byID[*row.CategoryID]; !ok {
			report.Uncategorized = report.Uncategorized.Add(row.Amount)
			continue
		}
		totals[*row.CategoryID] = totals[*row.CategoryID].Add(row.Amount)
	}

	for id, amount := range totals {
		category := byID[id]
		percentage := decimal.Zero
		if report.Total.IsPositive() {
			percentage = amount.Mul(hundred).Div(report.Total).Round(2)
		}
		report.Categories = append(report.Categories, CategorySpending{
			CategoryID: id,
			Name:       category.Name,
			Color:      category.Color,
			Amount:     amount,
			Percentage: percentage,
		})
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		a, b := report.Categories[i], report.Categories[j]
		if cmp := a.Amount.Cmp(b.Amount); cmp != 0 {
			return cmp > 0
		}
		return a.Name < b.Name
	})
	return report, nil
}

// MonthlySummary returns income and expense totals for the calendar month
// containing now and the months before it, oldest first. Months are
// computed in now's location.
func (s *ReportService) MonthlySummary(ctx context.Context, owner string, months int, now time.Time) ([]MonthlyTotals, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}
	if months < 1 {
		months = defaultReportMonths
	}

	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	first := current.AddDate(0, -(months - 1), 0)
	result := make([]MonthlyTotals, months)
	for i := range result {
		result[i].Month = first.AddDate(0, i, 0)
	}

	rows, err := s.transactions(ctx, owner, nil, first, current.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		date := row.Date.In(now.Location())
		i := (date.Year()-first.Year())*12 + int(date.Month()) - int(first.Month())
		if i < 0 || i >= months {
			continue
		}
		if row.Direction == sqlconfig.DirectionIncome {
			result[i].Income = result[i].Income.Add(row.Amount)
		} else {
			result[i].Expense = result[i].Expense.Add(row.Amount)
		}
	}
	return result, nil
}

// RangeSummary totals owner's income and expenses between from and to.
func (s *ReportService) RangeSummary(ctx context.Context, owner string, from, to time.Time) (*RangeSummary, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}
	rows, err := s.transactions(ctx, owner, nil, from, to)
	if err != nil {
		return nil, err
	}

	summary := &RangeSummary{From: from, To: to, Count: len(rows)}
	for _, row := range rows {
		if row.Direction == sqlconfig.DirectionIncome {
			summary.Income = summary.Income.Add(row.Amount)
		} else {
			summary.Expense = summary.Expense.Add(row.Amount)
		}
	}
	summary.Net = summary.Income.Sub(summary.Expense)
	return summary, nil
}

func (s *ReportService) transactions(ctx context.Context, owner string, direction *sqlconfig.Direction, from, to time.Time) ([]*sqlconfig.Transaction, error) {
	return s.reader.Transactions.List(ctx, &sqlconfig.TransactionFilter{
		OwnerID:   &owner,
		Direction: direction,
		From:      &from,
		To:        &to,
	})
}
