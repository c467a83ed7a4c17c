// Package stats folds transaction lists into the per-category and
// per-period sums shown on the analytics charts. All reductions are pure.
//
// Records that fail validation are excluded from every sum and reported
// through the Skipped counters so callers can surface the data problem
// instead of silently distorting totals.
package stats

import (
	"math"
	"sort"
	"strconv"
	"time"

	"finanzas/internal/core"
)

const (
	trendDays  = 30
	trendWeeks = 12
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
}

// CategoryBreakdown is the expense-by-category view for one month.
type CategoryBreakdown struct {
	Month      string          `json:"month"`
	Categories []CategoryTotal `json:"categories"`
	Total      core.Money      `json:"total"`
	Skipped    int             `json:"skipped"`
}

// ExpensesByCategory sums the month's expenses per category. Categories are
// ordered by descending amount, then name.
func ExpensesByCategory(transactions []core.Transaction, month string) (CategoryBreakdown, error) {
	if !core.ValidMonthKey(month) {
		return CategoryBreakdown{}, core.ErrInvalidMonth
	}

	totals := make(map[string]core.Money)
	out := CategoryBreakdown{Month: month}
	for _, tx := range transactions {
		if tx.Validate() != nil {
			out.Skipped++
			continue
		}
		if tx.Type != core.Expense || tx.Date.MonthKey() != month {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
		out.Total = out.Total.Add(tx.Amount)
	}

	for category, amount := range totals {
		out.Categories = append(out.Categories, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		a, b := out.Categories[i], out.Categories[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Category < b.Category
	})
	return out, nil
}

// MonthlyFlow is one month's income and expense totals.
type MonthlyFlow struct {
	Month   string     `json:"month"`
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
}

// IncomeVsExpense folds every transaction into per-month income and expense
// totals, ordered by month ascending. The second return value counts the
// records excluded for failing validation.
func IncomeVsExpense(transactions []core.Transaction) ([]MonthlyFlow, int) {
	byMonth := make(map[string]*MonthlyFlow)
	skipped := 0
	for _, tx := range transactions {
		if tx.Validate() != nil {
			skipped++
			continue
		}
		month := tx.Date.MonthKey()
		flow, ok := byMonth[month]
		if !ok {
			flow = &MonthlyFlow{Month: month}
			byMonth[month] = flow
		}
		switch tx.Type {
		case core.Income:
			flow.Income = flow.Income.Add(tx.Amount)
		case core.Expense:
			flow.Expense = flow.Expense.Add(tx.Amount)
		}
	}

	out := make([]MonthlyFlow, 0, len(byMonth))
	for _, flow := range byMonth {
		out = append(out, *flow)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, skipped
}

// DailyPoint is one day of the 30-day trend. Balance is the running net of
// income minus expense from the start of the window.
type DailyPoint struct {
	Date    core.Date  `json:"date"`
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Balance core.Money `json:"balance"`
}

// DailyTrend returns the last 30 days ending today, oldest first, with a
// cumulative balance across the window.
func DailyTrend(transactions []core.Transaction, today time.Time) ([]DailyPoint, int) {
	end := core.DateOf(today)
	points := make([]DailyPoint, trendDays)
	index := make(map[core.Date]*DailyPoint, trendDays)
	for i := 0; i < trendDays; i++ {
		d := core.Date{Time: end.AddDate(0, 0, i-trendDays+1)}
		points[i].Date = d
		index[d] = &points[i]
	}

	skipped := 0
	for _, tx := range transactions {
		if tx.Validate() != nil {
			skipped++
			continue
		}
		p, ok := index[tx.Date]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			p.Income = p.Income.Add(tx.Amount)
		case core.Expense:
			p.Expense = p.Expense.Add(tx.Amount)
		}
	}

	var balance core.Money
	for i := range points {
		balance = balance.Add(points[i].Income).Sub(points[i].Expense)
		points[i].Balance = balance
	}
	return points, skipped
}

// WeeklyPoint is one week of the 12-week view. Weeks run Sunday through
// Saturday, the last one containing today.
type WeeklyPoint struct {
	Label   string     `json:"label"`
	Start   core.Date  `json:"start"`
	End     core.Date  `json:"end"`
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
}

// WeeklyTotals returns income and expense totals for the last 12 calendar
// weeks, oldest first, labeled S1 through S12.
func WeeklyTotals(transactions []core.Transaction, today time.Time) ([]WeeklyPoint, int) {
	ref := core.DateOf(today)
	weekday := int(ref.Weekday())

	weeks := make([]WeeklyPoint, trendWeeks)
	for i := 0; i < trendWeeks; i++ {
		back := (trendWeeks - 1 - i) * 7
		start := core.Date{Time: ref.AddDate(0, 0, -back-weekday)}
		weeks[i] = WeeklyPoint{
			Label: "S" + strconv.Itoa(i+1),
			Start: start,
			End:   core.Date{Time: start.AddDate(0, 0, 6)},
		}
	}

	skipped := 0
	for _, tx := range transactions {
		if tx.Validate() != nil {
			skipped++
			continue
		}
		for i := range weeks {
			w := &weeks[i]
			if tx.Date.Before(w.Start.Time) || tx.Date.After(w.End.Time) {
				continue
			}
			switch tx.Type {
			case core.Income:
				w.Income = w.Income.Add(tx.Amount)
			case core.Expense:
				w.Expense = w.Expense.Add(tx.Amount)
			}
			break
		}
	}
	return weeks, skipped
}

// BudgetStat is one budget with its derived spending for the month.
// Percentage is capped at 100 for display.
type BudgetStat struct {
	ID         int64      `json:"id"`
	Category   string     `json:"category"`
	Limit      core.Money `json:"limit"`
	Spent      core.Money `json:"spent"`
	Percentage float64    `json:"percentage"`
}

// MonthOverview aggregates every budget of one month.
type MonthOverview struct {
	Month      string       `json:"month"`
	Budgets    []BudgetStat `json:"budgets"`
	TotalLimit core.Money   `json:"totalLimit"`
	TotalSpent core.Money   `json:"totalSpent"`
	Remaining  core.Money   `json:"remaining"`
	Skipped    int          `json:"skipped"`
}

// BudgetMonth derives spending for each budget of the month from the
// expense transactions and totals them. Budgets are ordered by descending
// percentage used.
func BudgetMonth(budgets []core.Budget, transactions []core.Transaction, month string) (MonthOverview, error) {
	if !core.ValidMonthKey(month) {
		return MonthOverview{}, core.ErrInvalidMonth
	}

	spent := make(map[string]core.Money)
	out := MonthOverview{Month: month}
	for _, tx := range transactions {
		if tx.Validate() != nil {
			out.Skipped++
			continue
		}
		if tx.Type != core.Expense || tx.Date.MonthKey() != month {
			continue
		}
		spent[tx.Category] = spent[tx.Category].Add(tx.Amount)
	}

	for _, b := range budgets {
		if b.Month != month || b.Limit.Cents <= 0 {
			continue
		}
		s := spent[b.Category]
		pct := math.Min(float64(s.Cents)/float64(b.Limit.Cents)*100, 100)
		out.Budgets = append(out.Budgets, BudgetStat{
			ID:         b.ID,
			Category:   b.Category,
			Limit:      b.Limit,
			Spent:      s,
			Percentage: pct,
		})
		out.TotalLimit = out.TotalLimit.Add(b.Limit)
		out.TotalSpent = out.TotalSpent.Add(s)
	}
	sort.SliceStable(out.Budgets, func(i, j int) bool {
		return out.Budgets[i].Percentage > out.Budgets[j].Percentage
	})
	out.Remaining = out.TotalLimit.Sub(out.TotalSpent)
	return out, nil
}
