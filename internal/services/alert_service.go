package services

import (
	"context"
	"fmt"
	"time"

	"finanzas/internal/alerts"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

// AlertService loads a full snapshot from the store and runs the
// notification rules over it.
type AlertService struct {
	store ledger.Store
}

func NewAlertService(store ledger.Store) *AlertService {
	return &AlertService{store: store}
}

// Evaluate runs every alert rule against the current records.
func (s *AlertService) Evaluate(ctx context.Context, today time.Time) ([]alerts.Alert, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return alerts.Evaluate(snapshot, today), nil
}

// EvaluateDebt re-runs the debt rules for a single debt, used by the worker
// after a payment event.
func (s *AlertService) EvaluateDebt(ctx context.Context, debtID int64, today time.Time) ([]alerts.Alert, error) {
	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	return alerts.EvaluateDebts([]core.Debt{debt}, today), nil
}

// EvaluateGoal re-runs the goal rules for a single goal, used by the worker
// after a funds event.
func (s *AlertService) EvaluateGoal(ctx context.Context, goalID int64, today time.Time) ([]alerts.Alert, error) {
	goal, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	return alerts.EvaluateGoals([]core.Goal{goal}, today), nil
}

func (s *AlertService) snapshot(ctx context.Context) (alerts.Snapshot, error) {
	var snap alerts.Snapshot
	var err error

	if snap.Debts, err = s.store.ListDebts(ctx); err != nil {
		return alerts.Snapshot{}, fmt.Errorf("list debts: %w", err)
	}
	if snap.Goals, err = s.store.ListGoals(ctx); err != nil {
		return alerts.Snapshot{}, fmt.Errorf("list goals: %w", err)
	}
	if snap.Budgets, err = s.store.ListBudgets(ctx, ""); err != nil {
		return alerts.Snapshot{}, fmt.Errorf("list budgets: %w", err)
	}
	if snap.Transactions, err = s.store.ListTransactions(ctx); err != nil {
		return alerts.Snapshot{}, fmt.Errorf("list transactions: %w", err)
	}
	return snap, nil
}
