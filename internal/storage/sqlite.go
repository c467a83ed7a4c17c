// Package storage provides the SQLite-backed implementation of the ledger
// store interfaces.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/ledger"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteStore implements ledger.Store on a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func nullDate(d core.Date) sql.NullString {
	if d.IsEmpty() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Format(dateLayout), Valid: true}
}

func parseNullDate(s sql.NullString) (core.Date, error) {
	if !s.Valid || s.String == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s.String, err)
	}
	return core.DateOf(t), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const debtColumns = `id, name, description, kind, creditor, account_number,
	principal_cents, current_balance_cents, interest_rate,
	payment_amount_cents, payment_frequency, minimum_payment_cents,
	next_payment_date, start_date, reminder_days, auto_reminder, active,
	paid_off_date`

func scanDebt(row interface{ Scan(...any) error }) (core.Debt, error) {
	var d core.Debt
	var nextPayment, startDate, paidOff sql.NullString
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.Kind, &d.Creditor, &d.AccountNumber,
		&d.Principal.Cents, &d.CurrentBalance.Cents, &d.InterestRate,
		&d.PaymentAmount.Cents, &d.PaymentFrequency, &d.MinimumPayment.Cents,
		&nextPayment, &startDate, &d.ReminderDays, &d.AutoReminder, &d.Active,
		&paidOff,
	)
	if err != nil {
		return core.Debt{}, err
	}
	if d.NextPaymentDate, err = parseNullDate(nextPayment); err != nil {
		return core.Debt{}, err
	}
	if d.StartDate, err = parseNullDate(startDate); err != nil {
		return core.Debt{}, err
	}
	if d.PaidOffDate, err = parseNullDate(paidOff); err != nil {
		return core.Debt{}, err
	}
	return d, nil
}

func (s *SQLiteStore) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+debtColumns+` FROM debts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var out []core.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}

	for i := range out {
		history, err := s.paymentsFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].PaymentHistory = history
	}
	return out, nil
}

func (s *SQLiteStore) GetDebt(ctx context.Context, id int64) (core.Debt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = ?`, id)
	d, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, core.ErrNotFound
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("get debt %d: %w", id, err)
	}
	if d.PaymentHistory, err = s.paymentsFor(ctx, id); err != nil {
		return core.Debt{}, err
	}
	return d, nil
}

func (s *SQLiteStore) paymentsFor(ctx context.Context, debtID int64) ([]core.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, debt_id, amount_cents, paid_on, description
		 FROM payments WHERE debt_id = ? ORDER BY id`, debtID)
	if err != nil {
		return nil, fmt.Errorf("list payments for debt %d: %w", debtID, err)
	}
	defer rows.Close()

	var out []core.Payment
	for rows.Next() {
		var p core.Payment
		var paidOn string
		if err := rows.Scan(&p.ID, &p.DebtID, &p.Amount.Cents, &paidOn, &p.Description); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		t, err := time.Parse(dateLayout, paidOn)
		if err != nil {
			return nil, fmt.Errorf("parse payment date %q: %w", paidOn, err)
		}
		p.Date = core.DateOf(t)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO debts (name, description, kind, creditor, account_number,
			principal_cents, current_balance_cents, interest_rate,
			payment_amount_cents, payment_frequency, minimum_payment_cents,
			next_payment_date, start_date, reminder_days, auto_reminder, active,
			paid_off_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Name, d.Description, d.Kind, d.Creditor, d.AccountNumber,
		d.Principal.Cents, d.CurrentBalance.Cents, d.InterestRate,
		d.PaymentAmount.Cents, d.PaymentFrequency, d.MinimumPayment.Cents,
		nullDate(d.NextPaymentDate), nullDate(d.StartDate), d.ReminderDays,
		d.AutoReminder, d.Active, nullDate(d.PaidOffDate))
	if err != nil {
		return core.Debt{}, fmt.Errorf("create debt: %w", err)
	}
	if d.ID, err = res.LastInsertId(); err != nil {
		return core.Debt{}, fmt.Errorf("create debt id: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) UpdateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE debts SET name = ?, description = ?, kind = ?, creditor = ?,
			account_number = ?, principal_cents = ?, current_balance_cents = ?,
			interest_rate = ?, payment_amount_cents = ?, payment_frequency = ?,
			minimum_payment_cents = ?, next_payment_date = ?, start_date = ?,
			reminder_days = ?, auto_reminder = ?, active = ?, paid_off_date = ?
		 WHERE id = ?`,
		d.Name, d.Description, d.Kind, d.Creditor, d.AccountNumber,
		d.Principal.Cents, d.CurrentBalance.Cents, d.InterestRate,
		d.PaymentAmount.Cents, d.PaymentFrequency, d.MinimumPayment.Cents,
		nullDate(d.NextPaymentDate), nullDate(d.StartDate), d.ReminderDays,
		d.AutoReminder, d.Active, nullDate(d.PaidOffDate), d.ID)
	if err != nil {
		return core.Debt{}, fmt.Errorf("update debt %d: %w", d.ID, err)
	}
	if err := requireRow(res); err != nil {
		return core.Debt{}, err
	}
	return d, nil
}

func (s *SQLiteStore) DeleteDebt(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete debt %d: %w", id, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) ApplyPayment(ctx context.Context, id int64, p core.Payment) (core.Debt, error) {
	if err := p.Validate(); err != nil {
		return core.Debt{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Debt{}, fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx, `SELECT current_balance_cents FROM debts WHERE id = ?`, id).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, core.ErrNotFound
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("load debt %d: %w", id, err)
	}

	balance -= p.Amount.Cents
	if balance < 0 {
		balance = 0
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE debts SET current_balance_cents = ? WHERE id = ?`, balance, id); err != nil {
		return core.Debt{}, fmt.Errorf("update balance for debt %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO payments (debt_id, amount_cents, paid_on, description) VALUES (?, ?, ?, ?)`,
		id, p.Amount.Cents, p.Date.Format(dateLayout), p.Description); err != nil {
		return core.Debt{}, fmt.Errorf("record payment for debt %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return core.Debt{}, fmt.Errorf("commit payment tx: %w", err)
	}

	return s.GetDebt(ctx, id)
}

func scanGoal(row interface{ Scan(...any) error }) (core.Goal, error) {
	var g core.Goal
	var deadline, lastSave sql.NullString
	err := row.Scan(
		&g.ID, &g.Name, &g.Description, &g.Category,
		&g.TargetAmount.Cents, &g.CurrentAmount.Cents, &deadline,
		&g.AutoSaveEnabled, &g.AutoSaveAmount.Cents, &g.AutoSaveFrequency,
		&g.AutoSaveDay, &lastSave, &g.Active,
	)
	if err != nil {
		return core.Goal{}, err
	}
	if g.Deadline, err = parseNullDate(deadline); err != nil {
		return core.Goal{}, err
	}
	if lastSave.Valid && lastSave.String != "" {
		t, err := time.Parse(time.RFC3339, lastSave.String)
		if err != nil {
			return core.Goal{}, fmt.Errorf("parse last auto-save %q: %w", lastSave.String, err)
		}
		g.LastAutoSave = t
	}
	return g, nil
}

const goalColumns = `id, name, description, category, target_amount_cents,
	current_amount_cents, deadline, auto_save_enabled, auto_save_amount_cents,
	auto_save_frequency, auto_save_day, last_auto_save, active`

func (s *SQLiteStore) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal %d: %w", id, err)
	}
	return g, nil
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func (s *SQLiteStore) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (name, description, category, target_amount_cents,
			current_amount_cents, deadline, auto_save_enabled,
			auto_save_amount_cents, auto_save_frequency, auto_save_day,
			last_auto_save, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Name, g.Description, g.Category, g.TargetAmount.Cents,
		g.CurrentAmount.Cents, nullDate(g.Deadline), g.AutoSaveEnabled,
		g.AutoSaveAmount.Cents, g.AutoSaveFrequency, g.AutoSaveDay,
		nullTime(g.LastAutoSave), g.Active)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	if g.ID, err = res.LastInsertId(); err != nil {
		return core.Goal{}, fmt.Errorf("create goal id: %w", err)
	}
	return g, nil
}

func (s *SQLiteStore) UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, description = ?, category = ?,
			target_amount_cents = ?, current_amount_cents = ?, deadline = ?,
			auto_save_enabled = ?, auto_save_amount_cents = ?,
			auto_save_frequency = ?, auto_save_day = ?, last_auto_save = ?,
			active = ?
		 WHERE id = ?`,
		g.Name, g.Description, g.Category, g.TargetAmount.Cents,
		g.CurrentAmount.Cents, nullDate(g.Deadline), g.AutoSaveEnabled,
		g.AutoSaveAmount.Cents, g.AutoSaveFrequency, g.AutoSaveDay,
		nullTime(g.LastAutoSave), g.Active, g.ID)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal %d: %w", g.ID, err)
	}
	if err := requireRow(res); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (s *SQLiteStore) DeleteGoal(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal %d: %w", id, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) AddFunds(ctx context.Context, id int64, amount core.Money) (core.Goal, error) {
	if err := amount.Validate(); err != nil {
		return core.Goal{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET current_amount_cents = current_amount_cents + ? WHERE id = ?`,
		amount.Cents, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("add funds to goal %d: %w", id, err)
	}
	if err := requireRow(res); err != nil {
		return core.Goal{}, err
	}
	return s.GetGoal(ctx, id)
}

func (s *SQLiteStore) WithdrawFunds(ctx context.Context, id int64, amount core.Money) (core.Goal, error) {
	if err := amount.Validate(); err != nil {
		return core.Goal{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Goal{}, fmt.Errorf("begin withdraw tx: %w", err)
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx, `SELECT current_amount_cents FROM goals WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("load goal %d: %w", id, err)
	}
	if amount.Cents > current {
		return core.Goal{}, core.ErrInsufficientFunds
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE goals SET current_amount_cents = current_amount_cents - ? WHERE id = ?`,
		amount.Cents, id); err != nil {
		return core.Goal{}, fmt.Errorf("withdraw from goal %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return core.Goal{}, fmt.Errorf("commit withdraw tx: %w", err)
	}
	return s.GetGoal(ctx, id)
}

func (s *SQLiteStore) ListBudgets(ctx context.Context, month string) ([]core.Budget, error) {
	query := `SELECT id, category, limit_cents, month FROM budgets`
	args := []any{}
	if month != "" {
		query += ` WHERE month = ?`
		args = append(args, month)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Limit.Cents, &b.Month); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	var b core.Budget
	err := s.db.QueryRowContext(ctx,
		`SELECT id, category, limit_cents, month FROM budgets WHERE id = ?`, id).
		Scan(&b.ID, &b.Category, &b.Limit.Cents, &b.Month)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget %d: %w", id, err)
	}
	return b, nil
}

func (s *SQLiteStore) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (category, limit_cents, month) VALUES (?, ?, ?)`,
		b.Category, b.Limit.Cents, b.Month)
	if isUniqueViolation(err) {
		return core.Budget{}, core.ErrDuplicateBudget
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return core.Budget{}, fmt.Errorf("create budget id: %w", err)
	}
	return b, nil
}

func (s *SQLiteStore) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET category = ?, limit_cents = ?, month = ? WHERE id = ?`,
		b.Category, b.Limit.Cents, b.Month, b.ID)
	if isUniqueViolation(err) {
		return core.Budget{}, core.ErrDuplicateBudget
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget %d: %w", b.ID, err)
	}
	if err := requireRow(res); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (s *SQLiteStore) DeleteBudget(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, amount_cents, category, description, tx_date
		 FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var date string
		if err := rows.Scan(&t.ID, &t.Type, &t.Amount.Cents, &t.Category, &t.Description, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		t.Date = core.DateOf(parsed)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (type, amount_cents, category, description, tx_date)
		 VALUES (?, ?, ?, ?, ?)`,
		t.Type, t.Amount.Cents, t.Category, t.Description, t.Date.Format(dateLayout))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction id: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return requireRow(res)
}

const reminderColumns = `id, name, amount_cents, category, frequency,
	next_due_date, notify_days_before, active, debt_id`

func scanReminder(row interface{ Scan(...any) error }) (core.Reminder, error) {
	var r core.Reminder
	var due string
	err := row.Scan(&r.ID, &r.Name, &r.Amount.Cents, &r.Category, &r.Frequency,
		&due, &r.NotifyDaysBefore, &r.Active, &r.DebtID)
	if err != nil {
		return core.Reminder{}, err
	}
	t, err := time.Parse(dateLayout, due)
	if err != nil {
		return core.Reminder{}, fmt.Errorf("parse reminder due date %q: %w", due, err)
	}
	r.NextDueDate = core.DateOf(t)
	return r, nil
}

func (s *SQLiteStore) ListReminders(ctx context.Context) ([]core.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+reminderColumns+` FROM reminders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var out []core.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetReminder(ctx context.Context, id int64) (core.Reminder, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	r, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Reminder{}, core.ErrNotFound
	}
	if err != nil {
		return core.Reminder{}, fmt.Errorf("get reminder %d: %w", id, err)
	}
	return r, nil
}

func (s *SQLiteStore) CreateReminder(ctx context.Context, r core.Reminder) (core.Reminder, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (name, amount_cents, category, frequency,
			next_due_date, notify_days_before, active, debt_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Amount.Cents, r.Category, r.Frequency,
		r.NextDueDate.Format(dateLayout), r.NotifyDaysBefore, r.Active, r.DebtID)
	if err != nil {
		return core.Reminder{}, fmt.Errorf("create reminder: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return core.Reminder{}, fmt.Errorf("create reminder id: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) UpdateReminder(ctx context.Context, r core.Reminder) (core.Reminder, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET name = ?, amount_cents = ?, category = ?,
			frequency = ?, next_due_date = ?, notify_days_before = ?,
			active = ?, debt_id = ?
		 WHERE id = ?`,
		r.Name, r.Amount.Cents, r.Category, r.Frequency,
		r.NextDueDate.Format(dateLayout), r.NotifyDaysBefore, r.Active,
		r.DebtID, r.ID)
	if err != nil {
		return core.Reminder{}, fmt.Errorf("update reminder %d: %w", r.ID, err)
	}
	if err := requireRow(res); err != nil {
		return core.Reminder{}, err
	}
	return r, nil
}

func (s *SQLiteStore) DeleteReminder(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reminder %d: %w", id, err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) FindDebtReminder(ctx context.Context, debtID int64) (core.Reminder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE debt_id = ? ORDER BY id LIMIT 1`, debtID)
	r, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Reminder{}, core.ErrNotFound
	}
	if err != nil {
		return core.Reminder{}, fmt.Errorf("find reminder for debt %d: %w", debtID, err)
	}
	return r, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
