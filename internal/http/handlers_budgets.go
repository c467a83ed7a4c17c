package http

import (
	"net/http"
	"time"
)

// monthParam reads the ?month=YYYY-MM query parameter, defaulting to the
// current month.
func monthParam(r *http.Request) string {
	if m := r.URL.Query().Get("month"); m != "" {
		return m
	}
	return time.Now().Format("2006-01")
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.budgets.ListBudgets(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	out := make([]budgetJSON, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetOut(b))
	}
	respondData(w, http.StatusOK, out)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var in budgetJSON
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	budget, err := budgetIn(in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	budget.ID = 0
	if err := budget.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := s.budgets.CreateBudget(r.Context(), budget)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyAlerts, keyBudgetOverview+created.Month)
	respondData(w, http.StatusCreated, budgetOut(created))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in budgetJSON
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	budget, err := budgetIn(in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	budget.ID = id
	if err := budget.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	updated, err := s.budgets.UpdateBudget(r.Context(), budget)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyAlerts, keyBudgetOverview+updated.Month)
	respondData(w, http.StatusOK, budgetOut(updated))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	budget, err := s.budgets.GetBudget(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if err := s.budgets.DeleteBudget(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyAlerts, keyBudgetOverview+budget.Month)
	respondData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleBudgetOverview(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r)
	s.respondCached(w, r, keyBudgetOverview+month, func() (any, error) {
		return s.budgets.MonthOverview(r.Context(), month)
	})
}
