package services

import (
	"context"
	"errors"
	"testing"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

func TestBudgetDuplicateRejected(t *testing.T) {
	ctx := context.Background()
	svc := NewBudgetService(ledger.NewMemoryStore())

	b := core.Budget{Category: "Comida", Limit: core.Money{Cents: 40000}, Month: "2026-08"}
	if _, err := svc.CreateBudget(ctx, b); err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	if _, err := svc.CreateBudget(ctx, b); !errors.Is(err, core.ErrDuplicateBudget) {
		t.Errorf("err = %v, want ErrDuplicateBudget", err)
	}
}

func TestListBudgetsRejectsBadMonth(t *testing.T) {
	svc := NewBudgetService(ledger.NewMemoryStore())
	if _, err := svc.ListBudgets(context.Background(), "agosto"); !errors.Is(err, core.ErrInvalidMonth) {
		t.Errorf("err = %v, want ErrInvalidMonth", err)
	}
}

func TestMonthOverview(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := NewBudgetService(store)

	if _, err := svc.CreateBudget(ctx, core.Budget{Category: "Comida", Limit: core.Money{Cents: 40000}, Month: "2026-08"}); err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	if _, err := store.CreateTransaction(ctx, core.Transaction{
		Type:     core.Expense,
		Amount:   core.Money{Cents: 30000},
		Category: "Comida",
		Date:     core.NewDate(2026, 8, 10),
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	overview, err := svc.MonthOverview(ctx, "2026-08")
	if err != nil {
		t.Fatalf("MonthOverview: %v", err)
	}
	if len(overview.Budgets) != 1 {
		t.Fatalf("budgets = %d, want 1", len(overview.Budgets))
	}
	got := overview.Budgets[0]
	if got.Spent.Cents != 30000 {
		t.Errorf("Spent = %d, want 30000", got.Spent.Cents)
	}
	if got.Percentage != 75 {
		t.Errorf("Percentage = %v, want 75", got.Percentage)
	}
}
