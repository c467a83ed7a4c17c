package amortize

import (
	"math"

	"finanzas/internal/core"
)

// PortfolioSummary aggregates every active debt into the figures shown on
// the dashboard strip.
type PortfolioSummary struct {
	TotalOwed       core.Money `json:"totalOwed"`
	TotalPaid       core.Money `json:"totalPaid"`
	OverallProgress float64    `json:"overallProgress"`
	MonthlyOutgo    core.Money `json:"monthlyOutgo"`
	AverageRate     float64    `json:"averageRate"`
	ActiveCount     int        `json:"activeCount"`
}

// Summarize folds the active debts into a portfolio summary. Inactive debts
// are ignored. Debts with an unknown payment frequency contribute nothing to
// the monthly outgo.
func Summarize(debts []core.Debt) PortfolioSummary {
	var s PortfolioSummary
	var totalPrincipal int64
	var rateSum float64

	for _, d := range debts {
		if !d.Active {
			continue
		}
		s.ActiveCount++
		s.TotalOwed = s.TotalOwed.Add(d.CurrentBalance)
		totalPrincipal += d.Principal.Cents
		rateSum += d.InterestRate

		if eff, err := EffectiveMonthlyPayment(d.PaymentAmount, d.PaymentFrequency); err == nil {
			s.MonthlyOutgo = s.MonthlyOutgo.Add(eff)
		}
	}

	s.TotalPaid = core.Money{Cents: totalPrincipal - s.TotalOwed.Cents}
	if totalPrincipal > 0 {
		pct := float64(s.TotalPaid.Cents) / float64(totalPrincipal) * 100
		s.OverallProgress = math.Max(0, math.Min(100, pct))
	} else if s.ActiveCount > 0 {
		s.OverallProgress = 100
	}
	if s.ActiveCount > 0 {
		s.AverageRate = rateSum / float64(s.ActiveCount)
	}
	return s
}
