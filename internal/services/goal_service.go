package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/autosave"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

// ErrGoalNotCompleted is returned by MarkCompleted for goals still short of
// their target.
var ErrGoalNotCompleted = errors.New("goal has not reached its target")

// GoalService orchestrates savings goals: fund movements, completion and
// the auto-save pass.
type GoalService struct {
	store  ledger.Store
	events EventPublisher
}

func NewGoalService(store ledger.Store, events EventPublisher) *GoalService {
	return &GoalService{store: store, events: events}
}

func (s *GoalService) ListGoals(ctx context.Context) ([]core.Goal, error) {
	return s.store.ListGoals(ctx)
}

func (s *GoalService) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	return s.store.GetGoal(ctx, id)
}

func (s *GoalService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	created, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return created, nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	updated, err := s.store.UpdateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	return updated, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, id int64) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// AddFunds deposits an amount into the goal and publishes a funds-changed
// event.
func (s *GoalService) AddFunds(ctx context.Context, id int64, amount core.Money) (core.Goal, error) {
	if err := amount.Validate(); err != nil {
		return core.Goal{}, err
	}
	updated, err := s.store.AddFunds(ctx, id, amount)
	if err != nil {
		return core.Goal{}, fmt.Errorf("add funds: %w", err)
	}
	s.publish(ctx, amqp.NewFundsChanged(id))
	return updated, nil
}

// WithdrawFunds removes an amount from the goal. Withdrawing more than the
// current amount fails with ErrInsufficientFunds.
func (s *GoalService) WithdrawFunds(ctx context.Context, id int64, amount core.Money) (core.Goal, error) {
	if err := amount.Validate(); err != nil {
		return core.Goal{}, err
	}
	updated, err := s.store.WithdrawFunds(ctx, id, amount)
	if err != nil {
		return core.Goal{}, fmt.Errorf("withdraw funds: %w", err)
	}
	s.publish(ctx, amqp.NewFundsChanged(id))
	return updated, nil
}

// MarkCompleted deactivates a goal that has reached its target.
func (s *GoalService) MarkCompleted(ctx context.Context, id int64) (core.Goal, error) {
	goal, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, err
	}
	if !goal.Completed() {
		return core.Goal{}, fmt.Errorf("goal %q: %w", goal.Name, ErrGoalNotCompleted)
	}
	goal.Active = false
	updated, err := s.store.UpdateGoal(ctx, goal)
	if err != nil {
		return core.Goal{}, fmt.Errorf("mark goal completed: %w", err)
	}
	return updated, nil
}

// GoalPace describes one goal's progress toward its target. DaysRemaining
// and RequiredMonthly are only meaningful when a deadline is set.
type GoalPace struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	TargetAmount    core.Money `json:"targetAmount"`
	CurrentAmount   core.Money `json:"currentAmount"`
	ProgressPct     float64    `json:"progressPct"`
	Deadline        core.Date  `json:"deadline"`
	DaysRemaining   int        `json:"daysRemaining"`
	RequiredMonthly core.Money `json:"requiredMonthly"`
}

// GoalsSummary aggregates every active goal for the dashboard header.
type GoalsSummary struct {
	TotalTarget     core.Money `json:"totalTarget"`
	TotalSaved      core.Money `json:"totalSaved"`
	OverallProgress float64    `json:"overallProgress"`
	ActiveCount     int        `json:"activeCount"`
	Goals           []GoalPace `json:"goals"`
}

// Summary computes progress and pace figures for the active goals.
func (s *GoalService) Summary(ctx context.Context, today time.Time) (GoalsSummary, error) {
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		return GoalsSummary{}, fmt.Errorf("list goals: %w", err)
	}

	var out GoalsSummary
	for _, g := range goals {
		if !g.Active {
			continue
		}
		out.ActiveCount++
		out.TotalTarget = out.TotalTarget.Add(g.TargetAmount)
		out.TotalSaved = out.TotalSaved.Add(g.CurrentAmount)

		pace := GoalPace{
			ID:            g.ID,
			Name:          g.Name,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
			Deadline:      g.Deadline,
			ProgressPct:   goalProgress(g),
		}
		if !g.Deadline.IsEmpty() {
			pace.DaysRemaining = g.Deadline.DaysUntil(today)
			if pace.DaysRemaining > 0 && !g.Completed() {
				needed := g.TargetAmount.Sub(g.CurrentAmount).Amount() / (float64(pace.DaysRemaining) / 30)
				if m, err := core.MoneyFromFloat(needed); err == nil {
					pace.RequiredMonthly = m
				}
			}
		}
		out.Goals = append(out.Goals, pace)
	}

	if out.TotalTarget.Cents > 0 {
		out.OverallProgress = float64(out.TotalSaved.Cents) / float64(out.TotalTarget.Cents) * 100
		if out.OverallProgress > 100 {
			out.OverallProgress = 100
		}
	}
	return out, nil
}

func goalProgress(g core.Goal) float64 {
	if g.TargetAmount.Cents <= 0 {
		return 100
	}
	p := float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
	if p > 100 {
		p = 100
	}
	if p < 0 {
		p = 0
	}
	return p
}

// RunAutoSave evaluates the auto-save schedule of every goal and applies
// the due savings: goal balance updated, a synthetic savings transaction
// recorded and a funds-changed event published per goal. A failure on one
// goal is logged and does not stop the pass.
func (s *GoalService) RunAutoSave(ctx context.Context, today time.Time) (int, error) {
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		return 0, fmt.Errorf("list goals: %w", err)
	}

	byID := make(map[int64]core.Goal, len(goals))
	for _, g := range goals {
		byID[g.ID] = g
	}

	applied := 0
	for _, effect := range autosave.Plan(goals, today) {
		goal := byID[effect.GoalID]
		if _, err := s.store.UpdateGoal(ctx, effect.AppliedGoal(goal)); err != nil {
			slog.ErrorContext(ctx, "Failed to apply auto-save",
				"goal_id", effect.GoalID, "error", err)
			continue
		}
		if _, err := s.store.CreateTransaction(ctx, effect.Transaction); err != nil {
			slog.ErrorContext(ctx, "Failed to record auto-save transaction",
				"goal_id", effect.GoalID, "error", err)
		}
		s.publish(ctx, amqp.NewFundsChanged(effect.GoalID))
		applied++
		slog.InfoContext(ctx, "Applied auto-save",
			"goal_id", effect.GoalID, "amount_cents", effect.Amount.Cents)
	}
	return applied, nil
}

func (s *GoalService) publish(ctx context.Context, event *amqp.EntityEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event",
			"kind", event.Kind, "entity_id", event.EntityID, "error", err)
	}
}
