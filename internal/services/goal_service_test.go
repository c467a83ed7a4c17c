package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/autosave"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

func testGoal() core.Goal {
	return core.Goal{
		Name:              "Fondo de emergencia",
		Category:          "Ahorro",
		TargetAmount:      core.Money{Cents: 500000},
		CurrentAmount:     core.Money{Cents: 100000},
		AutoSaveFrequency: core.AutoSaveNone,
		Active:            true,
	}
}

func TestAddAndWithdrawFunds(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	pub := &capturingPublisher{}
	svc := NewGoalService(store, pub)

	created, err := svc.CreateGoal(ctx, testGoal())
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	updated, err := svc.AddFunds(ctx, created.ID, core.Money{Cents: 50000})
	if err != nil {
		t.Fatalf("AddFunds: %v", err)
	}
	if updated.CurrentAmount.Cents != 150000 {
		t.Errorf("current = %d, want 150000", updated.CurrentAmount.Cents)
	}

	updated, err = svc.WithdrawFunds(ctx, created.ID, core.Money{Cents: 20000})
	if err != nil {
		t.Fatalf("WithdrawFunds: %v", err)
	}
	if updated.CurrentAmount.Cents != 130000 {
		t.Errorf("current = %d, want 130000", updated.CurrentAmount.Cents)
	}

	if len(pub.events) != 2 {
		t.Fatalf("events = %d, want 2", len(pub.events))
	}
	for _, e := range pub.events {
		if e.Kind != amqp.EventFundsChanged || e.EntityID != created.ID {
			t.Errorf("event = %+v, want funds_changed for goal %d", e, created.ID)
		}
	}
}

func TestWithdrawMoreThanSaved(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(ledger.NewMemoryStore(), nil)

	created, err := svc.CreateGoal(ctx, testGoal())
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if _, err := svc.WithdrawFunds(ctx, created.ID, core.Money{Cents: 999999}); !errors.Is(err, core.ErrInsufficientFunds) {
		t.Errorf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestMarkCompleted(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(ledger.NewMemoryStore(), nil)

	g := testGoal()
	g.CurrentAmount = g.TargetAmount
	created, err := svc.CreateGoal(ctx, g)
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	updated, err := svc.MarkCompleted(ctx, created.ID)
	if err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if updated.Active {
		t.Error("goal still active after completion")
	}
}

func TestMarkCompletedBeforeTarget(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(ledger.NewMemoryStore(), nil)

	created, err := svc.CreateGoal(ctx, testGoal())
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if _, err := svc.MarkCompleted(ctx, created.ID); err == nil {
		t.Error("MarkCompleted succeeded below target")
	}
}

func TestRunAutoSave(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	pub := &capturingPublisher{}
	svc := NewGoalService(store, pub)

	g := testGoal()
	g.AutoSaveEnabled = true
	g.AutoSaveAmount = core.Money{Cents: 10000}
	g.AutoSaveFrequency = core.AutoSaveWeekly
	created, err := svc.CreateGoal(ctx, g)
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	// A goal without auto-save must be left alone.
	if _, err := svc.CreateGoal(ctx, testGoal()); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	today := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)
	applied, err := svc.RunAutoSave(ctx, today)
	if err != nil {
		t.Fatalf("RunAutoSave: %v", err)
	}
	if applied != 1 {
		t.Fatalf("applied = %d, want 1", applied)
	}

	updated, err := store.GetGoal(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if updated.CurrentAmount.Cents != 110000 {
		t.Errorf("current = %d, want 110000", updated.CurrentAmount.Cents)
	}
	if !updated.LastAutoSave.Equal(today) {
		t.Errorf("LastAutoSave = %v, want %v", updated.LastAutoSave, today)
	}

	txs, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs))
	}
	if txs[0].Category != autosave.SavingsCategory {
		t.Errorf("category = %q, want %q", txs[0].Category, autosave.SavingsCategory)
	}
	if txs[0].Description != "Ahorro automático para: Fondo de emergencia" {
		t.Errorf("description = %q", txs[0].Description)
	}

	if len(pub.events) != 1 || pub.events[0].Kind != amqp.EventFundsChanged {
		t.Errorf("events = %+v, want one funds_changed", pub.events)
	}

	// The same day is not applied twice.
	applied, err = svc.RunAutoSave(ctx, today)
	if err != nil {
		t.Fatalf("RunAutoSave second pass: %v", err)
	}
	if applied != 0 {
		t.Errorf("second pass applied = %d, want 0", applied)
	}
}

func TestGoalsSummary(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := NewGoalService(store, nil)

	withDeadline := testGoal()
	withDeadline.Deadline = core.DateOf(time.Date(2026, 10, 7, 0, 0, 0, 0, time.UTC))
	if _, err := svc.CreateGoal(ctx, withDeadline); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	inactive := testGoal()
	inactive.Name = "Cerrada"
	inactive.Active = false
	if _, err := store.CreateGoal(ctx, inactive); err != nil {
		t.Fatalf("CreateGoal inactive: %v", err)
	}

	today := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	summary, err := svc.Summary(ctx, today)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if summary.ActiveCount != 1 || len(summary.Goals) != 1 {
		t.Fatalf("summary = %+v, want one active goal", summary)
	}
	if summary.TotalTarget.Cents != 500000 || summary.TotalSaved.Cents != 100000 {
		t.Errorf("totals = %s / %s, want $5000.00 / $1000.00",
			summary.TotalTarget, summary.TotalSaved)
	}
	if summary.OverallProgress != 20 {
		t.Errorf("OverallProgress = %v, want 20", summary.OverallProgress)
	}

	pace := summary.Goals[0]
	if pace.ProgressPct != 20 {
		t.Errorf("ProgressPct = %v, want 20", pace.ProgressPct)
	}
	if pace.DaysRemaining != 40 {
		t.Errorf("DaysRemaining = %d, want 40", pace.DaysRemaining)
	}
	// $4000.00 remaining over 40 days is $3000.00 per 30-day month.
	if pace.RequiredMonthly.Cents != 300000 {
		t.Errorf("RequiredMonthly = %s, want $3000.00", pace.RequiredMonthly)
	}
}
