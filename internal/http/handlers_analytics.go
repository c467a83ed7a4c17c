package http

import (
	"net/http"
	"time"
)

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	s.respondCached(w, r, keyAlerts, func() (any, error) {
		return s.alerts.Evaluate(r.Context(), time.Now())
	})
}

func (s *Server) handleExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r)
	s.respondCached(w, r, keyExpensesByCategory+month, func() (any, error) {
		return s.transactions.ExpensesByCategory(r.Context(), month)
	})
}

func (s *Server) handleIncomeVsExpense(w http.ResponseWriter, r *http.Request) {
	s.respondCached(w, r, keyIncomeVsExpense, func() (any, error) {
		return s.transactions.IncomeVsExpense(r.Context())
	})
}

func (s *Server) handleDailyTrend(w http.ResponseWriter, r *http.Request) {
	s.respondCached(w, r, keyDailyTrend, func() (any, error) {
		return s.transactions.DailyTrend(r.Context(), time.Now())
	})
}

func (s *Server) handleWeeklyTotals(w http.ResponseWriter, r *http.Request) {
	s.respondCached(w, r, keyWeeklyTotals, func() (any, error) {
		return s.transactions.WeeklyTotals(r.Context(), time.Now())
	})
}
