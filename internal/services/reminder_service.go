package services

import (
	"context"
	"fmt"
	"time"

	"finanzas/internal/amortize"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

// UpcomingReminder classifies a reminder against today: overdue, due today
// or inside its notice window.
type UpcomingReminder struct {
	Reminder core.Reminder `json:"reminder"`
	DaysLeft int           `json:"daysLeft"`
	Overdue  bool          `json:"overdue"`
	DueToday bool          `json:"dueToday"`
}

// ReminderService orchestrates standalone payment reminders. Reminders tied
// to debts are maintained by DebtService; this service only reads them.
type ReminderService struct {
	store ledger.Store
}

func NewReminderService(store ledger.Store) *ReminderService {
	return &ReminderService{store: store}
}

func (s *ReminderService) ListReminders(ctx context.Context) ([]core.Reminder, error) {
	return s.store.ListReminders(ctx)
}

func (s *ReminderService) GetReminder(ctx context.Context, id int64) (core.Reminder, error) {
	return s.store.GetReminder(ctx, id)
}

func (s *ReminderService) CreateReminder(ctx context.Context, r core.Reminder) (core.Reminder, error) {
	if err := r.Validate(); err != nil {
		return core.Reminder{}, err
	}
	created, err := s.store.CreateReminder(ctx, r)
	if err != nil {
		return core.Reminder{}, fmt.Errorf("create reminder: %w", err)
	}
	return created, nil
}

func (s *ReminderService) UpdateReminder(ctx context.Context, r core.Reminder) (core.Reminder, error) {
	if err := r.Validate(); err != nil {
		return core.Reminder{}, err
	}
	updated, err := s.store.UpdateReminder(ctx, r)
	if err != nil {
		return core.Reminder{}, fmt.Errorf("update reminder: %w", err)
	}
	return updated, nil
}

func (s *ReminderService) DeleteReminder(ctx context.Context, id int64) error {
	if err := s.store.DeleteReminder(ctx, id); err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}

// Upcoming returns the active reminders that are overdue, due today or due
// within their notice window, ordered as stored.
func (s *ReminderService) Upcoming(ctx context.Context, today time.Time) ([]UpcomingReminder, error) {
	reminders, err := s.store.ListReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	var out []UpcomingReminder
	for _, r := range reminders {
		if !r.Active || r.NextDueDate.IsEmpty() {
			continue
		}
		days := r.NextDueDate.DaysUntil(today)
		switch {
		case days < 0:
			out = append(out, UpcomingReminder{Reminder: r, DaysLeft: days, Overdue: true})
		case days == 0:
			out = append(out, UpcomingReminder{Reminder: r, DaysLeft: 0, DueToday: true})
		case days <= r.NotifyDaysBefore:
			out = append(out, UpcomingReminder{Reminder: r, DaysLeft: days})
		}
	}
	return out, nil
}

// MarkPaid advances the reminder's due date one period at its frequency.
func (s *ReminderService) MarkPaid(ctx context.Context, id int64) (core.Reminder, error) {
	r, err := s.store.GetReminder(ctx, id)
	if err != nil {
		return core.Reminder{}, err
	}
	r.NextDueDate = amortize.NextPaymentDate(r.NextDueDate, r.Frequency)
	updated, err := s.store.UpdateReminder(ctx, r)
	if err != nil {
		return core.Reminder{}, fmt.Errorf("mark reminder paid: %w", err)
	}
	return updated, nil
}
