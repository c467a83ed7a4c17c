package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finanzas/internal/alerts"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

func TestEvaluateFullSnapshot(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := NewAlertService(store)
	today := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	d := testDebt()
	d.InterestRate = 28
	d.AutoReminder = false
	d.NextPaymentDate = core.Date{}
	if _, err := store.CreateDebt(ctx, d); err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	g := testGoal()
	g.CurrentAmount = core.Money{Cents: 480000}
	if _, err := store.CreateGoal(ctx, g); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	if _, err := store.CreateBudget(ctx, core.Budget{Category: "Comida", Limit: core.Money{Cents: 10000}, Month: "2026-08"}); err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	if _, err := store.CreateTransaction(ctx, core.Transaction{
		Type:     core.Expense,
		Amount:   core.Money{Cents: 12000},
		Category: "Comida",
		Date:     core.NewDate(2026, 8, 5),
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	got, err := svc.Evaluate(ctx, today)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	codes := make(map[alerts.Code]bool)
	for _, a := range got {
		codes[a.Code] = true
	}
	for _, want := range []alerts.Code{alerts.DebtHighInterest, alerts.GoalNearCompletion, alerts.BudgetExceeded} {
		if !codes[want] {
			t.Errorf("missing alert %s in %v", want, got)
		}
	}
}

func TestEvaluateDebtSingle(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := NewAlertService(store)
	today := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	d := testDebt()
	d.InterestRate = 30
	d.AutoReminder = false
	d.NextPaymentDate = core.Date{}
	created, err := store.CreateDebt(ctx, d)
	if err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	got, err := svc.EvaluateDebt(ctx, created.ID, today)
	if err != nil {
		t.Fatalf("EvaluateDebt: %v", err)
	}
	found := false
	for _, a := range got {
		if a.Code == alerts.DebtHighInterest && a.EntityID == created.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("no high-interest alert in %v", got)
	}
}

func TestEvaluateGoalMissing(t *testing.T) {
	svc := NewAlertService(ledger.NewMemoryStore())
	_, err := svc.EvaluateGoal(context.Background(), 404, time.Now())
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
