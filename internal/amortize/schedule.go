package amortize

import (
	"math"

	"finanzas/internal/core"
)

// maxScheduleMonths caps the projection horizon at fifty years.
const maxScheduleMonths = 600

// ScheduleEntry is one month of a payment schedule projection.
type ScheduleEntry struct {
	Month     int        `json:"month"`
	Payment   core.Money `json:"payment"`
	Interest  core.Money `json:"interest"`
	Principal core.Money `json:"principal"`
	Balance   core.Money `json:"balance"`
}

// Schedule simulates month-by-month repayment of balance at the given rate
// with a fixed effective monthly payment. The final payment is reduced to
// exactly clear the remaining balance. Returns ErrIndeterminateResult when
// the payment does not cover the first month's interest.
func Schedule(balance core.Money, annualRatePct float64, effectivePayment core.Money) ([]ScheduleEntry, error) {
	b := balance.Amount()
	p := effectivePayment.Amount()
	if b <= 0 || p <= 0 {
		return nil, core.ErrIndeterminateResult
	}
	r := annualRatePct / 100 / 12
	if r > 0 && p <= b*r {
		return nil, core.ErrIndeterminateResult
	}

	var entries []ScheduleEntry
	for month := 1; b > 0 && month <= maxScheduleMonths; month++ {
		interest := b * r
		payment := p
		principal := payment - interest
		if principal >= b {
			principal = b
			payment = principal + interest
		}
		b -= principal

		entries = append(entries, ScheduleEntry{
			Month:     month,
			Payment:   roundMoney(payment),
			Interest:  roundMoney(interest),
			Principal: roundMoney(principal),
			Balance:   roundMoney(b),
		})
	}
	return entries, nil
}

func roundMoney(v float64) core.Money {
	return core.Money{Cents: int64(math.Round(v * 100))}
}
