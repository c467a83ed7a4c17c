package amortize

import (
	"errors"
	"math"
	"testing"
	"time"

	"finanzas/internal/core"
)

func money(cents int64) core.Money { return core.Money{Cents: cents} }

func TestMonthlyInterest(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		rate    float64
		want    int64
	}{
		{"24 pct on 1000", 100000, 24, 2000},
		{"zero rate", 100000, 0, 0},
		{"zero balance", 0, 24, 0},
		{"18.5 pct on 750", 75000, 18.5, 1156},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyInterest(money(tt.balance), tt.rate)
			if got.Cents != tt.want {
				t.Errorf("MonthlyInterest() = %d cents, want %d", got.Cents, tt.want)
			}
		})
	}
}

func TestEffectiveMonthlyPayment(t *testing.T) {
	tests := []struct {
		name    string
		payment int64
		freq    core.PaymentFrequency
		want    int64
		wantErr bool
	}{
		{"monthly unchanged", 10000, core.Monthly, 10000, false},
		{"weekly scaled up", 10000, core.Weekly, 43478, false},
		{"biweekly doubled", 10000, core.Biweekly, 20000, false},
		{"quarterly split", 10000, core.Quarterly, 3333, false},
		{"yearly split", 12000, core.Yearly, 1000, false},
		{"unknown frequency", 10000, "daily", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EffectiveMonthlyPayment(money(tt.payment), tt.freq)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidFrequency) {
					t.Fatalf("EffectiveMonthlyPayment() error = %v, want ErrInvalidFrequency", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EffectiveMonthlyPayment() error: %v", err)
			}
			if got.Cents != tt.want {
				t.Errorf("EffectiveMonthlyPayment() = %d cents, want %d", got.Cents, tt.want)
			}
		})
	}
}

func TestPayoffMonths(t *testing.T) {
	t.Run("zero rate divides exactly", func(t *testing.T) {
		got, err := PayoffMonths(money(100000), money(10000), 0)
		if err != nil {
			t.Fatalf("PayoffMonths() error: %v", err)
		}
		if got != 10 {
			t.Errorf("PayoffMonths() = %v, want 10", got)
		}
	})

	t.Run("standard amortization", func(t *testing.T) {
		got, err := PayoffMonths(money(100000), money(10000), 24)
		if err != nil {
			t.Fatalf("PayoffMonths() error: %v", err)
		}
		want := math.Log(100.0/(100.0-1000*0.02)) / math.Log(1.02)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("PayoffMonths() = %v, want %v", got, want)
		}
		if math.Abs(got-11.2684) > 0.001 {
			t.Errorf("PayoffMonths() = %v, want approx 11.2684", got)
		}
	})

	indeterminate := []struct {
		name    string
		balance int64
		payment int64
		rate    float64
	}{
		{"zero balance", 0, 10000, 24},
		{"negative balance", -100, 10000, 24},
		{"zero payment", 100000, 0, 24},
		{"payment equals interest", 100000, 2000, 24},
		{"payment below interest", 100000, 1500, 24},
	}
	for _, tt := range indeterminate {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PayoffMonths(money(tt.balance), money(tt.payment), tt.rate)
			if !errors.Is(err, core.ErrIndeterminateResult) {
				t.Errorf("PayoffMonths() error = %v, want ErrIndeterminateResult", err)
			}
		})
	}
}

func TestPayoffDate(t *testing.T) {
	today := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		months float64
		want   core.Date
	}{
		{"fractional rounds up", 11.27, core.NewDate(2027, 8, 28)},
		{"whole months", 3, core.NewDate(2026, 11, 28)},
		{"under one month", 0.4, core.NewDate(2026, 9, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PayoffDate(today, tt.months)
			if !got.Equal(tt.want.Time) {
				t.Errorf("PayoffDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTotalInterest(t *testing.T) {
	months, err := PayoffMonths(money(100000), money(10000), 24)
	if err != nil {
		t.Fatalf("PayoffMonths() error: %v", err)
	}
	got := TotalInterest(money(100000), money(10000), months)
	if got.Cents < 12683 || got.Cents > 12685 {
		t.Errorf("TotalInterest() = %d cents, want approx 12684", got.Cents)
	}
}

func TestPaymentProgress(t *testing.T) {
	tests := []struct {
		name      string
		principal int64
		balance   int64
		want      float64
	}{
		{"zero principal is complete", 0, 0, 100},
		{"untouched", 100000, 100000, 0},
		{"half paid", 100000, 50000, 50},
		{"fully paid", 100000, 0, 100},
		{"overpaid clamps", 100000, -5000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaymentProgress(money(tt.principal), money(tt.balance))
			if got != tt.want {
				t.Errorf("PaymentProgress() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("non-decreasing as balance falls", func(t *testing.T) {
		prev := -1.0
		for balance := int64(100000); balance >= 0; balance -= 10000 {
			p := PaymentProgress(money(100000), money(balance))
			if p < prev {
				t.Fatalf("progress decreased: %v after %v at balance %d", p, prev, balance)
			}
			prev = p
		}
	})
}

func TestNextPaymentDate(t *testing.T) {
	from := core.NewDate(2026, 8, 28)

	tests := []struct {
		freq core.PaymentFrequency
		want core.Date
	}{
		{core.Weekly, core.NewDate(2026, 9, 3)},
		{core.Biweekly, core.NewDate(2026, 9, 12)},
		{core.Monthly, core.NewDate(2026, 9, 28)},
		{core.Quarterly, core.NewDate(2026, 11, 28)},
		{core.Yearly, core.NewDate(2027, 8, 28)},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			got := NextPaymentDate(from, tt.freq)
			if !got.Equal(tt.want.Time) {
				t.Errorf("NextPaymentDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProject(t *testing.T) {
	today := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	t.Run("full projection", func(t *testing.T) {
		d := core.Debt{
			Principal:        money(100000),
			CurrentBalance:   money(100000),
			InterestRate:     24,
			PaymentAmount:    money(10000),
			PaymentFrequency: core.Monthly,
		}
		p, err := Project(d, today)
		if err != nil {
			t.Fatalf("Project() error: %v", err)
		}
		if p.Unpayable {
			t.Fatal("Project() flagged payable debt as unpayable")
		}
		if p.MonthlyInterest.Cents != 2000 {
			t.Errorf("MonthlyInterest = %d cents, want 2000", p.MonthlyInterest.Cents)
		}
		if p.EffectivePayment.Cents != 10000 {
			t.Errorf("EffectivePayment = %d cents, want 10000", p.EffectivePayment.Cents)
		}
		if p.PayoffMonths < 11.26 || p.PayoffMonths > 11.28 {
			t.Errorf("PayoffMonths = %v, want approx 11.27", p.PayoffMonths)
		}
		want := core.NewDate(2027, 8, 28)
		if !p.PayoffDate.Equal(want.Time) {
			t.Errorf("PayoffDate = %v, want %v", p.PayoffDate, want)
		}
	})

	t.Run("unpayable debt flagged", func(t *testing.T) {
		d := core.Debt{
			Principal:        money(100000),
			CurrentBalance:   money(100000),
			InterestRate:     24,
			PaymentAmount:    money(1000),
			PaymentFrequency: core.Monthly,
		}
		p, err := Project(d, today)
		if err != nil {
			t.Fatalf("Project() error: %v", err)
		}
		if !p.Unpayable {
			t.Error("Project() did not flag unpayable debt")
		}
	})
}

func TestSchedule(t *testing.T) {
	t.Run("zero rate even payments", func(t *testing.T) {
		entries, err := Schedule(money(100000), 0, money(10000))
		if err != nil {
			t.Fatalf("Schedule() error: %v", err)
		}
		if len(entries) != 10 {
			t.Fatalf("len(entries) = %d, want 10", len(entries))
		}
		last := entries[len(entries)-1]
		if last.Balance.Cents != 0 {
			t.Errorf("final balance = %d cents, want 0", last.Balance.Cents)
		}
		if last.Interest.Cents != 0 {
			t.Errorf("final interest = %d cents, want 0", last.Interest.Cents)
		}
	})

	t.Run("with interest clears balance", func(t *testing.T) {
		entries, err := Schedule(money(100000), 24, money(10000))
		if err != nil {
			t.Fatalf("Schedule() error: %v", err)
		}
		if len(entries) != 12 {
			t.Fatalf("len(entries) = %d, want 12", len(entries))
		}
		last := entries[len(entries)-1]
		if last.Balance.Cents != 0 {
			t.Errorf("final balance = %d cents, want 0", last.Balance.Cents)
		}
		if last.Payment.Cents >= 10000 {
			t.Errorf("final payment = %d cents, want reduced below 10000", last.Payment.Cents)
		}
	})

	t.Run("unpayable rejected", func(t *testing.T) {
		_, err := Schedule(money(100000), 24, money(2000))
		if !errors.Is(err, core.ErrIndeterminateResult) {
			t.Errorf("Schedule() error = %v, want ErrIndeterminateResult", err)
		}
	})
}

func TestSummarize(t *testing.T) {
	debts := []core.Debt{
		{
			Principal: money(100000), CurrentBalance: money(50000), InterestRate: 20,
			PaymentAmount: money(10000), PaymentFrequency: core.Monthly, Active: true,
		},
		{
			Principal: money(200000), CurrentBalance: money(100000), InterestRate: 10,
			PaymentAmount: money(5000), PaymentFrequency: core.Biweekly, Active: true,
		},
		{
			Principal: money(500000), CurrentBalance: money(0), InterestRate: 30,
			PaymentAmount: money(50000), PaymentFrequency: core.Monthly, Active: false,
		},
	}

	s := Summarize(debts)
	if s.ActiveCount != 2 {
		t.Errorf("ActiveCount = %d, want 2", s.ActiveCount)
	}
	if s.TotalOwed.Cents != 150000 {
		t.Errorf("TotalOwed = %d cents, want 150000", s.TotalOwed.Cents)
	}
	if s.TotalPaid.Cents != 150000 {
		t.Errorf("TotalPaid = %d cents, want 150000", s.TotalPaid.Cents)
	}
	if s.OverallProgress != 50 {
		t.Errorf("OverallProgress = %v, want 50", s.OverallProgress)
	}
	if s.MonthlyOutgo.Cents != 20000 {
		t.Errorf("MonthlyOutgo = %d cents, want 20000", s.MonthlyOutgo.Cents)
	}
	if s.AverageRate != 15 {
		t.Errorf("AverageRate = %v, want 15", s.AverageRate)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.ActiveCount != 0 || s.TotalOwed.Cents != 0 || s.OverallProgress != 0 {
		t.Errorf("Summarize(nil) = %+v, want zero summary", s)
	}
}
