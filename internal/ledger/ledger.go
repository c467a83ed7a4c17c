// Package ledger defines the repository ports for the finance records and
// provides an in-memory implementation. Persistent backends live in
// internal/storage.
package ledger

import (
	"context"

	"finanzas/internal/core"
)

// DebtStore persists debts and their payment history.
type DebtStore interface {
	ListDebts(ctx context.Context) ([]core.Debt, error)
	GetDebt(ctx context.Context, id int64) (core.Debt, error)
	CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error)
	UpdateDebt(ctx context.Context, d core.Debt) (core.Debt, error)
	DeleteDebt(ctx context.Context, id int64) error

	// ApplyPayment decrements the balance, appends to the payment history
	// and returns the updated debt, atomically. The balance never goes
	// below zero.
	ApplyPayment(ctx context.Context, id int64, p core.Payment) (core.Debt, error)
}

// GoalStore persists savings goals.
type GoalStore interface {
	ListGoals(ctx context.Context) ([]core.Goal, error)
	GetGoal(ctx context.Context, id int64) (core.Goal, error)
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	DeleteGoal(ctx context.Context, id int64) error

	AddFunds(ctx context.Context, id int64, amount core.Money) (core.Goal, error)

	// WithdrawFunds fails with core.ErrInsufficientFunds when amount
	// exceeds the goal's current amount, leaving the goal unchanged.
	WithdrawFunds(ctx context.Context, id int64, amount core.Money) (core.Goal, error)
}

// BudgetStore persists budgets. At most one budget may exist per
// (category, month) pair; CreateBudget fails with core.ErrDuplicateBudget
// on a collision.
type BudgetStore interface {
	ListBudgets(ctx context.Context, month string) ([]core.Budget, error)
	GetBudget(ctx context.Context, id int64) (core.Budget, error)
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error
}

// TransactionStore persists income and expense records.
type TransactionStore interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// ReminderStore persists payment reminders.
type ReminderStore interface {
	ListReminders(ctx context.Context) ([]core.Reminder, error)
	GetReminder(ctx context.Context, id int64) (core.Reminder, error)
	CreateReminder(ctx context.Context, r core.Reminder) (core.Reminder, error)
	UpdateReminder(ctx context.Context, r core.Reminder) (core.Reminder, error)
	DeleteReminder(ctx context.Context, id int64) error

	// FindDebtReminder returns the auto-maintained reminder for a debt,
	// or core.ErrNotFound.
	FindDebtReminder(ctx context.Context, debtID int64) (core.Reminder, error)
}

// Store bundles every record collection behind one handle.
type Store interface {
	DebtStore
	GoalStore
	BudgetStore
	TransactionStore
	ReminderStore

	Close() error
}
