// Package alerts evaluates advisory notification rules over debt, goal and
// budget snapshots. Evaluation is pure and order-stable: the same snapshot
// and date always produce the same alert list in the same order.
package alerts

import (
	"fmt"
	"time"

	"finanzas/internal/amortize"
	"finanzas/internal/core"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

type Code string

const (
	DebtUpcomingPayment Code = "debt_upcoming_payment"
	DebtOverduePayment  Code = "debt_overdue_payment"
	DebtHighInterest    Code = "debt_high_interest"
	DebtSlowProgress    Code = "debt_slow_progress"
	DebtNearPayoff      Code = "debt_near_payoff"
	DebtPayoffReady     Code = "debt_payoff_ready"

	GoalCompleted           Code = "goal_completed"
	GoalNearCompletion      Code = "goal_near_completion"
	GoalGoodProgress        Code = "goal_good_progress"
	GoalDeadlineMissed      Code = "goal_deadline_missed"
	GoalDeadlineApproaching Code = "goal_deadline_approaching"
	GoalAutoSaveActive      Code = "goal_auto_save_active"

	BudgetExceeded Code = "budget_exceeded"
	BudgetAlert    Code = "budget_alert"
	BudgetCaution  Code = "budget_caution"
)

// Rule thresholds. These values are part of the alert contract.
const (
	highInterestRatePct = 20
	slowProgressPct     = 25
	slowProgressMonths  = 6
	nearPayoffPct       = 75
	goalNearPct         = 90
	goalGoodPct         = 50
	deadlineWindowDays  = 30
	deadlinePacePct     = 75
	budgetExceededPct   = 100
	budgetAlertPct      = 80
	budgetCautionPct    = 60
)

// Alert is one advisory produced by the rule evaluator.
type Alert struct {
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	EntityID int64    `json:"entityId"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// Snapshot is the input to a full evaluation pass. Transactions are needed
// to derive budget spending.
type Snapshot struct {
	Debts        []core.Debt
	Goals        []core.Goal
	Budgets      []core.Budget
	Transactions []core.Transaction
}

// Evaluate runs every rule against the snapshot. Multiple rules may fire
// for the same entity.
func Evaluate(s Snapshot, today time.Time) []Alert {
	var out []Alert
	out = append(out, EvaluateDebts(s.Debts, today)...)
	out = append(out, EvaluateGoals(s.Goals, today)...)
	out = append(out, EvaluateBudgets(s.Budgets, s.Transactions)...)
	return out
}

// EvaluateDebts applies the debt rules to every active debt.
func EvaluateDebts(debts []core.Debt, today time.Time) []Alert {
	var out []Alert
	for _, d := range debts {
		if !d.Active {
			continue
		}
		out = append(out, evaluateDebt(d, today)...)
	}
	return out
}

func evaluateDebt(d core.Debt, today time.Time) []Alert {
	var out []Alert

	if !d.NextPaymentDate.IsEmpty() {
		days := d.NextPaymentDate.DaysUntil(today)
		switch {
		case days >= 0 && days <= d.ReminderDays:
			amount := d.MinimumPayment
			if amount.IsZero() {
				amount = d.PaymentAmount
			}
			out = append(out, Alert{
				Severity: SeverityWarning,
				Code:     DebtUpcomingPayment,
				EntityID: d.ID,
				Title:    "Pago próximo",
				Message:  fmt.Sprintf("El pago de %q vence en %s. Monto: %s.", d.Name, plural(days, "día"), amount),
			})
		case days < 0:
			out = append(out, Alert{
				Severity: SeverityError,
				Code:     DebtOverduePayment,
				EntityID: d.ID,
				Title:    "Pago vencido",
				Message:  fmt.Sprintf("El pago de %q está vencido hace %s.", d.Name, plural(-days, "día")),
			})
		}
	}

	if d.InterestRate > highInterestRatePct {
		out = append(out, Alert{
			Severity: SeverityWarning,
			Code:     DebtHighInterest,
			EntityID: d.ID,
			Title:    "Tasa de interés alta",
			Message:  fmt.Sprintf("%q tiene una tasa de %.1f%% anual. Considera refinanciar o pagar más del mínimo.", d.Name, d.InterestRate),
		})
	}

	progress := amortize.PaymentProgress(d.Principal, d.CurrentBalance)

	if progress < slowProgressPct && !d.StartDate.IsEmpty() {
		monthsSince := -d.StartDate.DaysUntil(today) / 30
		if monthsSince > slowProgressMonths {
			out = append(out, Alert{
				Severity: SeverityInfo,
				Code:     DebtSlowProgress,
				EntityID: d.ID,
				Title:    "Considera pagar más",
				Message:  fmt.Sprintf("Llevas %d meses con %q y solo has pagado el %.1f%%. Aumentar tus pagos reducirá los intereses.", monthsSince, d.Name, progress),
			})
		}
	}

	if progress >= nearPayoffPct && progress < 100 {
		out = append(out, Alert{
			Severity: SeveritySuccess,
			Code:     DebtNearPayoff,
			EntityID: d.ID,
			Title:    "Casi terminas",
			Message:  fmt.Sprintf("Has pagado el %.1f%% de %q. Solo te falta %s.", progress, d.Name, d.CurrentBalance),
		})
	}

	if d.CurrentBalance.Cents <= 0 {
		out = append(out, Alert{
			Severity: SeveritySuccess,
			Code:     DebtPayoffReady,
			EntityID: d.ID,
			Title:    "Deuda liquidada",
			Message:  fmt.Sprintf("Has terminado de pagar %q. Márcala como pagada para actualizar tu estado.", d.Name),
		})
	}

	return out
}

// EvaluateGoals applies the goal rules to every active goal. The progress
// bands are mutually exclusive; the deadline rules fire independently.
func EvaluateGoals(goals []core.Goal, today time.Time) []Alert {
	var out []Alert
	for _, g := range goals {
		if !g.Active || g.TargetAmount.Cents <= 0 {
			continue
		}
		out = append(out, evaluateGoal(g, today)...)
	}
	return out
}

func evaluateGoal(g core.Goal, today time.Time) []Alert {
	var out []Alert
	progress := float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100

	switch {
	case progress >= 100:
		out = append(out, Alert{
			Severity: SeveritySuccess,
			Code:     GoalCompleted,
			EntityID: g.ID,
			Title:    "Meta alcanzada",
			Message:  fmt.Sprintf("Has completado tu meta %q. Has ahorrado %s.", g.Name, g.CurrentAmount),
		})
	case progress >= goalNearPct:
		remaining := g.TargetAmount.Sub(g.CurrentAmount)
		out = append(out, Alert{
			Severity: SeverityInfo,
			Code:     GoalNearCompletion,
			EntityID: g.ID,
			Title:    "Casi lo logras",
			Message:  fmt.Sprintf("Estás al %.0f%% de tu meta %q. Solo te faltan %s.", progress, g.Name, remaining),
		})
	case progress >= goalGoodPct:
		out = append(out, Alert{
			Severity: SeverityInfo,
			Code:     GoalGoodProgress,
			EntityID: g.ID,
			Title:    "Excelente progreso",
			Message:  fmt.Sprintf("Has alcanzado el %.0f%% de tu meta %q.", progress, g.Name),
		})
	}

	if !g.Deadline.IsEmpty() {
		days := g.Deadline.DaysUntil(today)
		if days < 0 && progress < 100 {
			out = append(out, Alert{
				Severity: SeverityError,
				Code:     GoalDeadlineMissed,
				EntityID: g.ID,
				Title:    "Fecha límite vencida",
				Message:  fmt.Sprintf("La fecha límite de %q ya pasó. Progreso actual: %.0f%%.", g.Name, progress),
			})
		} else if days > 0 && days <= deadlineWindowDays && progress < deadlinePacePct {
			needed := g.TargetAmount.Sub(g.CurrentAmount).Amount() / (float64(days) / 30)
			monthly, err := core.MoneyFromFloat(needed)
			if err == nil {
				out = append(out, Alert{
					Severity: SeverityWarning,
					Code:     GoalDeadlineApproaching,
					EntityID: g.ID,
					Title:    "Fecha límite cercana",
					Message:  fmt.Sprintf("Te quedan %s para %q. Necesitas ahorrar aprox. %s/mes para alcanzarla.", plural(days, "día"), g.Name, monthly),
				})
			}
		}
	}

	if g.AutoSaveEnabled && progress < 100 {
		out = append(out, Alert{
			Severity: SeverityInfo,
			Code:     GoalAutoSaveActive,
			EntityID: g.ID,
			Title:    "Ahorro automático activo",
			Message:  fmt.Sprintf("Se están guardando %s (%s) para %q.", g.AutoSaveAmount, g.AutoSaveFrequency, g.Name),
		})
	}

	return out
}

// EvaluateBudgets applies the spending bands to each budget. Spent amounts
// are derived from expense transactions matching the budget's category and
// month; records that fail validation are skipped.
func EvaluateBudgets(budgets []core.Budget, transactions []core.Transaction) []Alert {
	var out []Alert
	for _, b := range budgets {
		if b.Limit.Cents <= 0 {
			continue
		}
		spent := spentFor(b, transactions)
		pct := float64(spent.Cents) / float64(b.Limit.Cents) * 100

		switch {
		case pct >= budgetExceededPct:
			out = append(out, Alert{
				Severity: SeverityError,
				Code:     BudgetExceeded,
				EntityID: b.ID,
				Title:    "Presupuesto excedido",
				Message:  fmt.Sprintf("Has gastado %s de %s en %q (%s).", spent, b.Limit, b.Category, b.Month),
			})
		case pct >= budgetAlertPct:
			out = append(out, Alert{
				Severity: SeverityWarning,
				Code:     BudgetAlert,
				EntityID: b.ID,
				Title:    "Alerta de presupuesto",
				Message:  fmt.Sprintf("Estás cerca de exceder el presupuesto de %q: %.1f%% usado.", b.Category, pct),
			})
		case pct >= budgetCautionPct:
			out = append(out, Alert{
				Severity: SeverityInfo,
				Code:     BudgetCaution,
				EntityID: b.ID,
				Title:    "Precaución de presupuesto",
				Message:  fmt.Sprintf("Llevas el %.1f%% del presupuesto de %q.", pct, b.Category),
			})
		}
	}
	return out
}

func spentFor(b core.Budget, transactions []core.Transaction) core.Money {
	var spent core.Money
	for _, tx := range transactions {
		if tx.Validate() != nil {
			continue
		}
		if tx.Type != core.Expense || tx.Category != b.Category || tx.Date.MonthKey() != b.Month {
			continue
		}
		spent = spent.Add(tx.Amount)
	}
	return spent
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
