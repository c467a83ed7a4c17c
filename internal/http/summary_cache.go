package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Cache keys for the derived read endpoints. Write handlers invalidate the
// keys their records feed into; month-scoped keys carry a suffix.
const (
	keyDebtSummary        = "debts_summary"
	keyGoalsSummary       = "goals_summary"
	keyAlerts             = "alerts"
	keyIncomeVsExpense    = "income_vs_expense"
	keyDailyTrend         = "daily_trend"
	keyWeeklyTotals       = "weekly_totals"
	keyExpensesByCategory = "expenses_by_category:" // + month
	keyBudgetOverview     = "budget_overview:"      // + month
)

// respondCached serves the data payload for key from the summary cache,
// loading and storing it on a miss. Cached bytes are the marshaled data
// field; the envelope is rebuilt per response.
func (s *Server) respondCached(w http.ResponseWriter, r *http.Request, key string, load func() (any, error)) {
	if s.summaries != nil {
		if body, ok := s.summaries.Get(r.Context(), key); ok {
			respondData(w, http.StatusOK, json.RawMessage(body))
			return
		}
	}

	data, err := load()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal cached payload", "key", key, "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if s.summaries != nil {
		s.summaries.Set(r.Context(), key, body)
	}
	respondData(w, http.StatusOK, json.RawMessage(body))
}

func (s *Server) invalidate(r *http.Request, keys ...string) {
	if s.summaries == nil {
		return
	}
	for _, key := range keys {
		s.summaries.Delete(r.Context(), key)
	}
}
