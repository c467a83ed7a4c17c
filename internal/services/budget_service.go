package services

import (
	"context"
	"fmt"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
	"finanzas/internal/stats"
)

// BudgetService orchestrates monthly category budgets.
type BudgetService struct {
	store ledger.Store
}

func NewBudgetService(store ledger.Store) *BudgetService {
	return &BudgetService{store: store}
}

// ListBudgets returns budgets, restricted to one month when month is
// non-empty.
func (s *BudgetService) ListBudgets(ctx context.Context, month string) ([]core.Budget, error) {
	if month != "" && !core.ValidMonthKey(month) {
		return nil, core.ErrInvalidMonth
	}
	return s.store.ListBudgets(ctx, month)
}

func (s *BudgetService) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	return s.store.GetBudget(ctx, id)
}

func (s *BudgetService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return created, nil
}

func (s *BudgetService) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	updated, err := s.store.UpdateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return updated, nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, id int64) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

// MonthOverview derives the spent amounts and usage percentages for every
// budget in one month.
func (s *BudgetService) MonthOverview(ctx context.Context, month string) (stats.MonthOverview, error) {
	budgets, err := s.store.ListBudgets(ctx, month)
	if err != nil {
		return stats.MonthOverview{}, fmt.Errorf("list budgets: %w", err)
	}
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return stats.MonthOverview{}, fmt.Errorf("list transactions: %w", err)
	}
	return stats.BudgetMonth(budgets, transactions, month)
}
