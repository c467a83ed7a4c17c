package ledger

import (
	"context"
	"errors"
	"testing"

	"finanzas/internal/core"
)

func money(cents int64) core.Money { return core.Money{Cents: cents} }

func TestMemoryStoreDebtPayment(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	d, err := s.CreateDebt(ctx, core.Debt{
		Name: "Visa", Kind: core.CreditCard,
		Principal: money(100000), CurrentBalance: money(100000),
		PaymentFrequency: core.Monthly, Active: true,
	})
	if err != nil {
		t.Fatalf("CreateDebt() error: %v", err)
	}
	if d.ID == 0 {
		t.Fatal("CreateDebt() assigned no ID")
	}

	payment := core.Payment{Amount: money(30000), Date: core.NewDate(2026, 8, 28)}
	updated, err := s.ApplyPayment(ctx, d.ID, payment)
	if err != nil {
		t.Fatalf("ApplyPayment() error: %v", err)
	}
	if updated.CurrentBalance.Cents != 70000 {
		t.Errorf("balance = %d cents, want 70000", updated.CurrentBalance.Cents)
	}
	if len(updated.PaymentHistory) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(updated.PaymentHistory))
	}
	if updated.PaymentHistory[0].DebtID != d.ID {
		t.Errorf("payment DebtID = %d, want %d", updated.PaymentHistory[0].DebtID, d.ID)
	}

	// Overpayment clamps at zero.
	updated, err = s.ApplyPayment(ctx, d.ID, core.Payment{Amount: money(90000), Date: core.NewDate(2026, 9, 28)})
	if err != nil {
		t.Fatalf("ApplyPayment() error: %v", err)
	}
	if updated.CurrentBalance.Cents != 0 {
		t.Errorf("balance = %d cents, want 0", updated.CurrentBalance.Cents)
	}

	// The returned history is a copy, not the stored slice.
	updated.PaymentHistory[0].Amount = money(1)
	again, err := s.GetDebt(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetDebt() error: %v", err)
	}
	if again.PaymentHistory[0].Amount.Cents != 30000 {
		t.Error("stored payment history was mutated through a returned copy")
	}
}

func TestMemoryStoreApplyPaymentMissingDebt(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.ApplyPayment(context.Background(), 42, core.Payment{Amount: money(100), Date: core.NewDate(2026, 8, 28)})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("ApplyPayment() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreGoalFunds(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	g, err := s.CreateGoal(ctx, core.Goal{Name: "Viaje", TargetAmount: money(100000), Active: true})
	if err != nil {
		t.Fatalf("CreateGoal() error: %v", err)
	}

	g, err = s.AddFunds(ctx, g.ID, money(40000))
	if err != nil {
		t.Fatalf("AddFunds() error: %v", err)
	}
	if g.CurrentAmount.Cents != 40000 {
		t.Errorf("CurrentAmount = %d cents, want 40000", g.CurrentAmount.Cents)
	}

	if _, err := s.WithdrawFunds(ctx, g.ID, money(50000)); !errors.Is(err, core.ErrInsufficientFunds) {
		t.Fatalf("WithdrawFunds() error = %v, want ErrInsufficientFunds", err)
	}
	// A failed withdrawal leaves the goal unchanged.
	g, err = s.GetGoal(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetGoal() error: %v", err)
	}
	if g.CurrentAmount.Cents != 40000 {
		t.Errorf("CurrentAmount after failed withdrawal = %d cents, want 40000", g.CurrentAmount.Cents)
	}

	g, err = s.WithdrawFunds(ctx, g.ID, money(15000))
	if err != nil {
		t.Fatalf("WithdrawFunds() error: %v", err)
	}
	if g.CurrentAmount.Cents != 25000 {
		t.Errorf("CurrentAmount = %d cents, want 25000", g.CurrentAmount.Cents)
	}
}

func TestMemoryStoreBudgetDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.CreateBudget(ctx, core.Budget{Category: "Comida", Limit: money(10000), Month: "2026-08"}); err != nil {
		t.Fatalf("CreateBudget() error: %v", err)
	}
	if _, err := s.CreateBudget(ctx, core.Budget{Category: "Comida", Limit: money(20000), Month: "2026-08"}); !errors.Is(err, core.ErrDuplicateBudget) {
		t.Errorf("CreateBudget() duplicate error = %v, want ErrDuplicateBudget", err)
	}
	// Same category in another month is fine.
	if _, err := s.CreateBudget(ctx, core.Budget{Category: "Comida", Limit: money(10000), Month: "2026-09"}); err != nil {
		t.Errorf("CreateBudget() other month error: %v", err)
	}

	budgets, err := s.ListBudgets(ctx, "2026-08")
	if err != nil {
		t.Fatalf("ListBudgets() error: %v", err)
	}
	if len(budgets) != 1 {
		t.Errorf("len(budgets) = %d, want 1 for 2026-08", len(budgets))
	}
}

func TestMemoryStoreDebtReminderLookup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	r, err := s.CreateReminder(ctx, core.Reminder{
		Name: "Pago: Visa", Amount: money(10000), Category: "Deudas",
		Frequency: core.Monthly, NextDueDate: core.NewDate(2026, 9, 1),
		Active: true, DebtID: 7,
	})
	if err != nil {
		t.Fatalf("CreateReminder() error: %v", err)
	}

	found, err := s.FindDebtReminder(ctx, 7)
	if err != nil {
		t.Fatalf("FindDebtReminder() error: %v", err)
	}
	if found.ID != r.ID {
		t.Errorf("FindDebtReminder() = %d, want %d", found.ID, r.ID)
	}

	if _, err := s.FindDebtReminder(ctx, 99); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("FindDebtReminder(99) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := s.CreateTransaction(ctx, core.Transaction{
			Type: core.Expense, Amount: money(100), Category: name, Date: core.NewDate(2026, 8, 1),
		}); err != nil {
			t.Fatalf("CreateTransaction() error: %v", err)
		}
	}

	txs, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("len(txs) = %d, want 3", len(txs))
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].ID <= txs[i-1].ID {
			t.Fatalf("transactions not ordered by ID: %v", txs)
		}
	}
}
