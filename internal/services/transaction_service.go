package services

import (
	"context"
	"fmt"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
	"finanzas/internal/stats"
)

// TransactionService orchestrates income and expense records and the
// analytics derived from them.
type TransactionService struct {
	store ledger.Store
}

func NewTransactionService(store ledger.Store) *TransactionService {
	return &TransactionService{store: store}
}

func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return created, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// ExpensesByCategory breaks down one month's spending per category.
func (s *TransactionService) ExpensesByCategory(ctx context.Context, month string) (stats.CategoryBreakdown, error) {
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return stats.CategoryBreakdown{}, fmt.Errorf("list transactions: %w", err)
	}
	return stats.ExpensesByCategory(transactions, month)
}

// MonthlyFlowReport is the income-vs-expense view. Skipped counts the
// records excluded for failing validation.
type MonthlyFlowReport struct {
	Months  []stats.MonthlyFlow `json:"months"`
	Skipped int                 `json:"skipped"`
}

// DailyTrendReport is the 30-day trend view.
type DailyTrendReport struct {
	Points  []stats.DailyPoint `json:"points"`
	Skipped int                `json:"skipped"`
}

// WeeklyTotalsReport is the 12-week totals view.
type WeeklyTotalsReport struct {
	Weeks   []stats.WeeklyPoint `json:"weeks"`
	Skipped int                 `json:"skipped"`
}

// IncomeVsExpense totals income and expenses per calendar month.
func (s *TransactionService) IncomeVsExpense(ctx context.Context) (MonthlyFlowReport, error) {
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return MonthlyFlowReport{}, fmt.Errorf("list transactions: %w", err)
	}
	flows, skipped := stats.IncomeVsExpense(transactions)
	return MonthlyFlowReport{Months: flows, Skipped: skipped}, nil
}

// DailyTrend returns the last thirty days of flows with a running balance.
func (s *TransactionService) DailyTrend(ctx context.Context, today time.Time) (DailyTrendReport, error) {
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return DailyTrendReport{}, fmt.Errorf("list transactions: %w", err)
	}
	points, skipped := stats.DailyTrend(transactions, today)
	return DailyTrendReport{Points: points, Skipped: skipped}, nil
}

// WeeklyTotals returns the last twelve calendar weeks of flows.
func (s *TransactionService) WeeklyTotals(ctx context.Context, today time.Time) (WeeklyTotalsReport, error) {
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return WeeklyTotalsReport{}, fmt.Errorf("list transactions: %w", err)
	}
	points, skipped := stats.WeeklyTotals(transactions, today)
	return WeeklyTotalsReport{Weeks: points, Skipped: skipped}, nil
}
