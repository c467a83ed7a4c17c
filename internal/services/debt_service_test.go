package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

type capturingPublisher struct {
	events []*amqp.EntityEvent
	fail   bool
}

func (p *capturingPublisher) PublishEvent(_ context.Context, event *amqp.EntityEvent) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func testDebt() core.Debt {
	return core.Debt{
		Name:             "Tarjeta Visa",
		Kind:             core.CreditCard,
		Principal:        core.Money{Cents: 100000},
		CurrentBalance:   core.Money{Cents: 80000},
		InterestRate:     24,
		PaymentAmount:    core.Money{Cents: 10000},
		PaymentFrequency: core.Monthly,
		NextPaymentDate:  core.NewDate(2026, 9, 15),
		ReminderDays:     3,
		AutoReminder:     true,
		Active:           true,
	}
}

func TestCreateDebtMaintainsReminder(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := NewDebtService(store, nil)

	created, err := svc.CreateDebt(ctx, testDebt())
	if err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	r, err := store.FindDebtReminder(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindDebtReminder: %v", err)
	}
	if r.Name != "Pago: Tarjeta Visa" {
		t.Errorf("reminder name = %q", r.Name)
	}
	if r.Category != DebtCategory {
		t.Errorf("reminder category = %q, want %q", r.Category, DebtCategory)
	}
	if r.Amount.Cents != 10000 {
		t.Errorf("reminder amount = %d, want payment amount", r.Amount.Cents)
	}
	if !r.NextDueDate.Equal(created.NextPaymentDate.Time) {
		t.Errorf("reminder due date = %v, want %v", r.NextDueDate, created.NextPaymentDate)
	}
}

func TestCreateDebtReminderUsesMinimumPayment(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := NewDebtService(store, nil)

	d := testDebt()
	d.MinimumPayment = core.Money{Cents: 2500}
	created, err := svc.CreateDebt(ctx, d)
	if err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	r, err := store.FindDebtReminder(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindDebtReminder: %v", err)
	}
	if r.Amount.Cents != 2500 {
		t.Errorf("reminder amount = %d, want minimum payment 2500", r.Amount.Cents)
	}
}

func TestUpdateDebtDisablingAutoReminderDeactivates(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := NewDebtService(store, nil)

	created, err := svc.CreateDebt(ctx, testDebt())
	if err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	created.AutoReminder = false
	if _, err := svc.UpdateDebt(ctx, created); err != nil {
		t.Fatalf("UpdateDebt: %v", err)
	}

	r, err := store.FindDebtReminder(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindDebtReminder: %v", err)
	}
	if r.Active {
		t.Error("reminder still active after auto-reminders disabled")
	}
}

func TestRegisterPayment(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	pub := &capturingPublisher{}
	svc := NewDebtService(store, pub)

	created, err := svc.CreateDebt(ctx, testDebt())
	if err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	updated, err := svc.RegisterPayment(ctx, created.ID, core.Money{Cents: 10000}, core.NewDate(2026, 8, 28), "")
	if err != nil {
		t.Fatalf("RegisterPayment: %v", err)
	}

	if updated.CurrentBalance.Cents != 70000 {
		t.Errorf("balance = %d, want 70000", updated.CurrentBalance.Cents)
	}
	if len(updated.PaymentHistory) != 1 {
		t.Fatalf("payment history length = %d, want 1", len(updated.PaymentHistory))
	}
	if got := updated.PaymentHistory[0].Description; got != "Pago de Tarjeta Visa" {
		t.Errorf("payment description = %q", got)
	}

	// Next payment date advanced one month.
	want := core.NewDate(2026, 10, 15)
	if !updated.NextPaymentDate.Equal(want.Time) {
		t.Errorf("next payment date = %v, want %v", updated.NextPaymentDate, want)
	}

	// A matching expense transaction was recorded.
	txs, err := store.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs))
	}
	if txs[0].Category != DebtCategory || txs[0].Type != core.Expense {
		t.Errorf("transaction = %+v, want expense in %q", txs[0], DebtCategory)
	}

	// The reminder follows the new due date.
	r, err := store.FindDebtReminder(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindDebtReminder: %v", err)
	}
	if !r.NextDueDate.Equal(want.Time) {
		t.Errorf("reminder due date = %v, want %v", r.NextDueDate, want)
	}

	if len(pub.events) != 1 || pub.events[0].Kind != amqp.EventPaymentRecorded {
		t.Errorf("events = %+v, want one payment_recorded", pub.events)
	}
}

func TestRegisterPaymentPublishFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := NewDebtService(store, &capturingPublisher{fail: true})

	created, err := svc.CreateDebt(ctx, testDebt())
	if err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}
	if _, err := svc.RegisterPayment(ctx, created.ID, core.Money{Cents: 5000}, core.NewDate(2026, 8, 28), ""); err != nil {
		t.Fatalf("RegisterPayment with failing publisher: %v", err)
	}
}

func TestRegisterPaymentMissingDebt(t *testing.T) {
	svc := NewDebtService(ledger.NewMemoryStore(), nil)
	_, err := svc.RegisterPayment(context.Background(), 404, core.Money{Cents: 100}, core.NewDate(2026, 8, 28), "")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMarkAsPaid(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := NewDebtService(store, nil)

	created, err := svc.CreateDebt(ctx, testDebt())
	if err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	today := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	updated, err := svc.MarkAsPaid(ctx, created.ID, today)
	if err != nil {
		t.Fatalf("MarkAsPaid: %v", err)
	}

	if !updated.CurrentBalance.IsZero() {
		t.Errorf("balance = %d, want 0", updated.CurrentBalance.Cents)
	}
	if updated.Active {
		t.Error("debt still active")
	}
	if !updated.PaidOffDate.Equal(core.NewDate(2026, 8, 28).Time) {
		t.Errorf("paid-off date = %v", updated.PaidOffDate)
	}

	r, err := store.FindDebtReminder(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindDebtReminder: %v", err)
	}
	if r.Active {
		t.Error("reminder still active after mark-as-paid")
	}
}

func TestDeleteDebtRemovesReminder(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := NewDebtService(store, nil)

	created, err := svc.CreateDebt(ctx, testDebt())
	if err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}
	if err := svc.DeleteDebt(ctx, created.ID); err != nil {
		t.Fatalf("DeleteDebt: %v", err)
	}
	if _, err := store.FindDebtReminder(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("reminder lookup after delete = %v, want ErrNotFound", err)
	}
}

func TestDebtSummary(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := NewDebtService(store, nil)

	if _, err := svc.CreateDebt(ctx, testDebt()); err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}
	second := testDebt()
	second.Name = "Préstamo auto"
	second.AutoReminder = false
	second.CurrentBalance = core.Money{Cents: 50000}
	if _, err := svc.CreateDebt(ctx, second); err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalOwed.Cents != 130000 {
		t.Errorf("TotalOwed = %d, want 130000", summary.TotalOwed.Cents)
	}
	if summary.ActiveCount != 2 {
		t.Errorf("ActiveCount = %d, want 2", summary.ActiveCount)
	}
}
