// Package amortize computes payoff projections for debts under a standard
// fixed-payment amortization model. All functions are pure; the caller
// supplies the reference date.
package amortize

import (
	"math"
	"time"

	"finanzas/internal/core"
)

// Projection is the full set of derived figures for one debt snapshot.
// When Unpayable is true the scheduled payment does not cover the accruing
// interest and PayoffMonths, PayoffDate and TotalInterest carry no meaning.
type Projection struct {
	MonthlyInterest  core.Money `json:"monthlyInterest"`
	EffectivePayment core.Money `json:"effectivePayment"`
	PayoffMonths     float64    `json:"payoffMonths"`
	PayoffDate       core.Date  `json:"payoffDate"`
	TotalInterest    core.Money `json:"totalInterest"`
	ProgressPct      float64    `json:"progressPct"`
	Unpayable        bool       `json:"unpayable"`
}

// MonthlyInterest returns the interest accrued on balance over one month at
// the given nominal annual rate. Zero rate yields zero interest.
func MonthlyInterest(balance core.Money, annualRatePct float64) core.Money {
	r := annualRatePct / 100 / 12
	return core.Money{Cents: int64(math.Round(float64(balance.Cents) * r))}
}

// EffectiveMonthlyPayment normalizes a payment of the given frequency to its
// monthly equivalent.
func EffectiveMonthlyPayment(payment core.Money, freq core.PaymentFrequency) (core.Money, error) {
	months := freq.Months()
	if months == 0 {
		return core.Money{}, core.ErrInvalidFrequency
	}
	perYear := 12 / months
	return core.MoneyFromFloat(payment.Amount() * perYear / 12)
}

// PayoffMonths returns the number of months needed to retire balance with the
// given effective monthly payment. It returns ErrIndeterminateResult when no
// payoff is computable: non-positive balance or payment, a payment that does
// not cover the monthly interest, or a non-finite result.
func PayoffMonths(balance, effectivePayment core.Money, annualRatePct float64) (float64, error) {
	b := balance.Amount()
	p := effectivePayment.Amount()
	if b <= 0 || p <= 0 {
		return 0, core.ErrIndeterminateResult
	}
	if annualRatePct == 0 {
		return b / p, nil
	}
	r := annualRatePct / 100 / 12
	if p <= b*r {
		return 0, core.ErrIndeterminateResult
	}
	months := math.Log(p/(p-b*r)) / math.Log(1+r)
	if math.IsNaN(months) || math.IsInf(months, 0) || months < 0 {
		return 0, core.ErrIndeterminateResult
	}
	return months, nil
}

// PayoffDate returns today advanced by ceil(months) calendar months.
func PayoffDate(today time.Time, months float64) core.Date {
	d := core.DateOf(today)
	return core.Date{Time: d.AddDate(0, int(math.Ceil(months)), 0)}
}

// TotalInterest returns the interest paid over a payoff horizon previously
// obtained from PayoffMonths.
func TotalInterest(balance, effectivePayment core.Money, months float64) core.Money {
	total := effectivePayment.Amount()*months - balance.Amount()
	return core.Money{Cents: int64(math.Round(total * 100))}
}

// PaymentProgress returns how much of the principal has been repaid, as a
// percentage clamped to [0,100]. A zero principal counts as fully repaid.
func PaymentProgress(principal, currentBalance core.Money) float64 {
	if principal.Cents == 0 {
		return 100
	}
	paid := float64(principal.Cents-currentBalance.Cents) / float64(principal.Cents) * 100
	return math.Max(0, math.Min(100, paid))
}

// NextPaymentDate advances a payment date by one period of the given
// frequency. Sub-monthly frequencies step in days (months * 30, truncated),
// matching the schedule users see on their payment calendar.
func NextPaymentDate(from core.Date, freq core.PaymentFrequency) core.Date {
	months := freq.Months()
	if months < 1 {
		days := int(months * 30)
		return core.Date{Time: from.AddDate(0, 0, days)}
	}
	return core.Date{Time: from.AddDate(0, int(months), 0)}
}

// Project assembles the full projection for a debt as of today.
func Project(d core.Debt, today time.Time) (Projection, error) {
	effective, err := EffectiveMonthlyPayment(d.PaymentAmount, d.PaymentFrequency)
	if err != nil {
		return Projection{}, err
	}

	proj := Projection{
		MonthlyInterest:  MonthlyInterest(d.CurrentBalance, d.InterestRate),
		EffectivePayment: effective,
		ProgressPct:      PaymentProgress(d.Principal, d.CurrentBalance),
	}

	months, err := PayoffMonths(d.CurrentBalance, effective, d.InterestRate)
	if err != nil {
		proj.Unpayable = true
		return proj, nil
	}
	proj.PayoffMonths = months
	proj.PayoffDate = PayoffDate(today, months)
	proj.TotalInterest = TotalInterest(d.CurrentBalance, effective, months)
	return proj, nil
}
