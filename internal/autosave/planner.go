package autosave

import (
	"fmt"
	"time"

	"finanzas/internal/core"
)

// SavingsCategory is the category assigned to synthetic auto-save
// transactions.
const SavingsCategory = "Ahorro"

// Effect is one intended auto-save application. Plan computes effects
// without touching any goal; a separate apply step executes them so the
// planner stays pure.
type Effect struct {
	GoalID      int64
	Amount      core.Money
	NewAmount   core.Money
	SavedAt     time.Time
	Transaction core.Transaction
}

// AppliedGoal returns the goal with this effect applied.
func (e Effect) AppliedGoal(g core.Goal) core.Goal {
	g.CurrentAmount = e.NewAmount
	g.LastAutoSave = e.SavedAt
	return g
}

// Plan evaluates the auto-save schedule of every goal and returns the list
// of savings to apply. At most one effect is produced per goal per pass, and
// none once the goal has reached its target. Goals with a disabled or
// unknown schedule are skipped.
func Plan(goals []core.Goal, today time.Time) []Effect {
	var effects []Effect
	for _, g := range goals {
		if e, ok := planGoal(g, today); ok {
			effects = append(effects, e)
		}
	}
	return effects
}

func planGoal(g core.Goal, today time.Time) (Effect, bool) {
	if !g.AutoSaveEnabled || !g.Active {
		return Effect{}, false
	}
	if g.AutoSaveAmount.Cents <= 0 {
		return Effect{}, false
	}
	checker, err := GetDuenessChecker(g.AutoSaveFrequency)
	if err != nil {
		return Effect{}, false
	}
	if !checker.IsDue(g.LastAutoSave, today, g.AutoSaveDay) {
		return Effect{}, false
	}
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
		return Effect{}, false
	}

	return Effect{
		GoalID:    g.ID,
		Amount:    g.AutoSaveAmount,
		NewAmount: g.CurrentAmount.Add(g.AutoSaveAmount),
		SavedAt:   today,
		Transaction: core.Transaction{
			Type:        core.Expense,
			Amount:      g.AutoSaveAmount,
			Category:    SavingsCategory,
			Description: fmt.Sprintf("Ahorro automático para: %s", g.Name),
			Date:        core.DateOf(today),
		},
	}, true
}
