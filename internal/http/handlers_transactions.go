package http

import (
	"net/http"
	"time"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.transactions.ListTransactions(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	out := make([]transactionJSON, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, transactionOut(t))
	}
	respondData(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactionJSON
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := transactionIn(in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tx.ID = 0
	if err := tx.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := s.transactions.CreateTransaction(r.Context(), tx)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidateAnalytics(r, created.Date.MonthKey())
	respondData(w, http.StatusCreated, transactionOut(created))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.transactions.DeleteTransaction(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	// The deleted record's month is unknown here; drop the current month's
	// derived views and the month-independent ones.
	s.invalidateAnalytics(r, time.Now().Format("2006-01"))
	respondData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) invalidateAnalytics(r *http.Request, month string) {
	s.invalidate(r,
		keyAlerts,
		keyIncomeVsExpense,
		keyDailyTrend,
		keyWeeklyTotals,
		keyExpensesByCategory+month,
		keyBudgetOverview+month)
}
