// Package services provides business logic and orchestration over the
// ledger stores, the calculators and the event bus.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finanzas/internal/amortize"
	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

// DebtCategory is the category assigned to expense transactions emitted by
// payment registration, and to auto-maintained reminders.
const DebtCategory = "Deudas"

// EventPublisher publishes entity events for the worker. A nil publisher
// disables messaging; writes still succeed.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *amqp.EntityEvent) error
}

// DebtService orchestrates debt operations: payments, projections, paid-off
// handling and the auto-maintained payment reminders.
type DebtService struct {
	store  ledger.Store
	events EventPublisher
}

func NewDebtService(store ledger.Store, events EventPublisher) *DebtService {
	return &DebtService{store: store, events: events}
}

func (s *DebtService) ListDebts(ctx context.Context) ([]core.Debt, error) {
	return s.store.ListDebts(ctx)
}

func (s *DebtService) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	return s.store.GetDebt(ctx, id)
}

func (s *DebtService) CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	created, err := s.store.CreateDebt(ctx, d)
	if err != nil {
		return core.Debt{}, fmt.Errorf("create debt: %w", err)
	}
	s.syncAutoReminder(ctx, created)
	return created, nil
}

func (s *DebtService) UpdateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	updated, err := s.store.UpdateDebt(ctx, d)
	if err != nil {
		return core.Debt{}, fmt.Errorf("update debt: %w", err)
	}
	s.syncAutoReminder(ctx, updated)
	return updated, nil
}

// DeleteDebt removes the debt and its auto-maintained reminder.
func (s *DebtService) DeleteDebt(ctx context.Context, id int64) error {
	if err := s.store.DeleteDebt(ctx, id); err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	if r, err := s.store.FindDebtReminder(ctx, id); err == nil {
		if err := s.store.DeleteReminder(ctx, r.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to delete debt reminder", "debt_id", id, "error", err)
		}
	}
	return nil
}

// RegisterPayment applies a payment against the debt, emits a matching
// expense transaction, advances the next payment date one period and
// publishes a payment-recorded event.
func (s *DebtService) RegisterPayment(ctx context.Context, debtID int64, amount core.Money, date core.Date, description string) (core.Debt, error) {
	if err := amount.Validate(); err != nil {
		return core.Debt{}, err
	}

	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		return core.Debt{}, err
	}
	if description == "" {
		description = fmt.Sprintf("Pago de %s", debt.Name)
	}

	updated, err := s.store.ApplyPayment(ctx, debtID, core.Payment{
		Amount:      amount,
		Date:        date,
		Description: description,
	})
	if err != nil {
		return core.Debt{}, fmt.Errorf("apply payment: %w", err)
	}

	if _, err := s.store.CreateTransaction(ctx, core.Transaction{
		Type:        core.Expense,
		Amount:      amount,
		Category:    DebtCategory,
		Description: description,
		Date:        date,
	}); err != nil {
		slog.ErrorContext(ctx, "Failed to record payment transaction",
			"debt_id", debtID, "error", err)
	}

	if !updated.NextPaymentDate.IsEmpty() {
		updated.NextPaymentDate = amortize.NextPaymentDate(updated.NextPaymentDate, updated.PaymentFrequency)
		if updated, err = s.store.UpdateDebt(ctx, updated); err != nil {
			return core.Debt{}, fmt.Errorf("advance next payment date: %w", err)
		}
	}
	s.syncAutoReminder(ctx, updated)
	s.publish(ctx, amqp.NewPaymentRecorded(debtID))
	return updated, nil
}

// MarkAsPaid liquidates the debt: zero balance, inactive, paid-off date
// set. Its reminder is deactivated.
func (s *DebtService) MarkAsPaid(ctx context.Context, id int64, today time.Time) (core.Debt, error) {
	debt, err := s.store.GetDebt(ctx, id)
	if err != nil {
		return core.Debt{}, err
	}

	debt.CurrentBalance = core.Money{}
	debt.Active = false
	debt.PaidOffDate = core.DateOf(today)
	updated, err := s.store.UpdateDebt(ctx, debt)
	if err != nil {
		return core.Debt{}, fmt.Errorf("mark debt as paid: %w", err)
	}

	if r, err := s.store.FindDebtReminder(ctx, id); err == nil && r.Active {
		r.Active = false
		if _, err := s.store.UpdateReminder(ctx, r); err != nil {
			slog.ErrorContext(ctx, "Failed to deactivate debt reminder", "debt_id", id, "error", err)
		}
	}
	return updated, nil
}

// Projection computes the amortization figures for one debt as of today.
func (s *DebtService) Projection(ctx context.Context, id int64, today time.Time) (amortize.Projection, error) {
	debt, err := s.store.GetDebt(ctx, id)
	if err != nil {
		return amortize.Projection{}, err
	}
	return amortize.Project(debt, today)
}

// Schedule returns the month-by-month payment schedule for one debt.
func (s *DebtService) Schedule(ctx context.Context, id int64) ([]amortize.ScheduleEntry, error) {
	debt, err := s.store.GetDebt(ctx, id)
	if err != nil {
		return nil, err
	}
	effective, err := amortize.EffectiveMonthlyPayment(debt.PaymentAmount, debt.PaymentFrequency)
	if err != nil {
		return nil, err
	}
	return amortize.Schedule(debt.CurrentBalance, debt.InterestRate, effective)
}

// Summary aggregates the active debts into the portfolio figures.
func (s *DebtService) Summary(ctx context.Context) (amortize.PortfolioSummary, error) {
	debts, err := s.store.ListDebts(ctx)
	if err != nil {
		return amortize.PortfolioSummary{}, fmt.Errorf("list debts: %w", err)
	}
	return amortize.Summarize(debts), nil
}

// syncAutoReminder keeps one payment reminder per debt with auto-reminders
// enabled: amount from the minimum payment when set, otherwise the regular
// payment. Disabling auto-reminders deactivates the existing reminder.
func (s *DebtService) syncAutoReminder(ctx context.Context, d core.Debt) {
	existing, err := s.store.FindDebtReminder(ctx, d.ID)
	found := err == nil
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		slog.ErrorContext(ctx, "Failed to look up debt reminder", "debt_id", d.ID, "error", err)
		return
	}

	if !d.AutoReminder || !d.Active || d.NextPaymentDate.IsEmpty() {
		if found && existing.Active {
			existing.Active = false
			if _, err := s.store.UpdateReminder(ctx, existing); err != nil {
				slog.ErrorContext(ctx, "Failed to deactivate debt reminder", "debt_id", d.ID, "error", err)
			}
		}
		return
	}

	amount := d.MinimumPayment
	if amount.IsZero() {
		amount = d.PaymentAmount
	}
	reminder := core.Reminder{
		Name:             fmt.Sprintf("Pago: %s", d.Name),
		Amount:           amount,
		Category:         DebtCategory,
		Frequency:        d.PaymentFrequency,
		NextDueDate:      d.NextPaymentDate,
		NotifyDaysBefore: d.ReminderDays,
		Active:           true,
		DebtID:           d.ID,
	}

	if found {
		reminder.ID = existing.ID
		if _, err := s.store.UpdateReminder(ctx, reminder); err != nil {
			slog.ErrorContext(ctx, "Failed to update debt reminder", "debt_id", d.ID, "error", err)
		}
		return
	}
	if _, err := s.store.CreateReminder(ctx, reminder); err != nil {
		slog.ErrorContext(ctx, "Failed to create debt reminder", "debt_id", d.ID, "error", err)
	}
}

func (s *DebtService) publish(ctx context.Context, event *amqp.EntityEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event",
			"kind", event.Kind, "entity_id", event.EntityID, "error", err)
	}
}
