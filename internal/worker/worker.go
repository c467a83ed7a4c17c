// Package worker runs the background passes: the scheduled auto-save pass,
// the periodic full alert scan, and per-entity alert re-evaluation driven
// by AMQP events.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"finanzas/internal/alerts"
	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
	"finanzas/internal/services"
)

type Worker struct {
	store       ledger.Store
	goals       *services.GoalService
	alerts      *services.AlertService
	concurrency int
}

func New(store ledger.Store, goals *services.GoalService, alertSvc *services.AlertService, concurrency int) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		store:       store,
		goals:       goals,
		alerts:      alertSvc,
		concurrency: concurrency,
	}
}

// RunAutoSavePass applies every due auto-save.
func (w *Worker) RunAutoSavePass(ctx context.Context) error {
	applied, err := w.goals.RunAutoSave(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("auto-save pass: %w", err)
	}
	slog.InfoContext(ctx, "Auto-save pass completed", "applied", applied)
	return nil
}

// RunAlertScan re-evaluates the alert rules for every debt and goal with
// bounded concurrency, then the budget rules once. The collected alerts are
// logged; persistence of notifications is the dashboard's concern.
func (w *Worker) RunAlertScan(ctx context.Context) error {
	debts, err := w.store.ListDebts(ctx)
	if err != nil {
		return fmt.Errorf("list debts: %w", err)
	}
	goals, err := w.store.ListGoals(ctx)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}

	now := time.Now()
	var mu sync.Mutex
	var found []alerts.Alert

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for _, d := range debts {
		g.Go(func() error {
			out, err := w.alerts.EvaluateDebt(gctx, d.ID, now)
			if err != nil {
				return fmt.Errorf("evaluate debt %d: %w", d.ID, err)
			}
			mu.Lock()
			found = append(found, out...)
			mu.Unlock()
			return nil
		})
	}
	for _, goal := range goals {
		g.Go(func() error {
			out, err := w.alerts.EvaluateGoal(gctx, goal.ID, now)
			if err != nil {
				return fmt.Errorf("evaluate goal %d: %w", goal.ID, err)
			}
			mu.Lock()
			found = append(found, out...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("alert scan: %w", err)
	}

	budgets, err := w.store.ListBudgets(ctx, "")
	if err != nil {
		return fmt.Errorf("list budgets: %w", err)
	}
	transactions, err := w.store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	found = append(found, alerts.EvaluateBudgets(budgets, transactions)...)

	for _, a := range found {
		slog.InfoContext(ctx, "Alert raised",
			"severity", a.Severity, "code", a.Code, "entity_id", a.EntityID, "title", a.Title)
	}
	slog.InfoContext(ctx, "Alert scan completed",
		"debts", len(debts), "goals", len(goals), "alerts", len(found))
	return nil
}

// HandleEntityEvent re-evaluates alerts for the entity an event points at.
// Unknown event kinds are dropped, not requeued.
func (w *Worker) HandleEntityEvent(ctx context.Context, event *amqp.EntityEvent) error {
	now := time.Now()

	var (
		out []alerts.Alert
		err error
	)
	switch event.Kind {
	case amqp.EventPaymentRecorded:
		out, err = w.alerts.EvaluateDebt(ctx, event.EntityID, now)
	case amqp.EventFundsChanged:
		out, err = w.alerts.EvaluateGoal(ctx, event.EntityID, now)
	default:
		slog.WarnContext(ctx, "Dropping event of unknown kind", "kind", event.Kind)
		return nil
	}
	if errors.Is(err, core.ErrNotFound) {
		// Entity deleted between publish and delivery; nothing left to check.
		slog.WarnContext(ctx, "Dropping event for missing entity",
			"kind", event.Kind, "entity_id", event.EntityID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("handle %s event for entity %d: %w", event.Kind, event.EntityID, err)
	}

	for _, a := range out {
		slog.InfoContext(ctx, "Alert raised",
			"severity", a.Severity, "code", a.Code, "entity_id", a.EntityID, "title", a.Title)
	}
	return nil
}
