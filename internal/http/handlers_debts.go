package http

import (
	"net/http"
	"time"

	"finanzas/internal/core"
)

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.debts.ListDebts(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	out := make([]debtJSON, 0, len(debts))
	for _, d := range debts {
		out = append(out, debtOut(d))
	}
	respondData(w, http.StatusOK, out)
}

func (s *Server) handleGetDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	debt, err := s.debts.GetDebt(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, debtOut(debt))
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var in debtJSON
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	debt, err := debtIn(in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	debt.ID = 0
	debt.Active = true
	if err := debt.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := s.debts.CreateDebt(r.Context(), debt)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyDebtSummary, keyAlerts)
	respondData(w, http.StatusCreated, debtOut(created))
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in debtJSON
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	debt, err := debtIn(in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	debt.ID = id
	if err := debt.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	updated, err := s.debts.UpdateDebt(r.Context(), debt)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyDebtSummary, keyAlerts)
	respondData(w, http.StatusOK, debtOut(updated))
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.debts.DeleteDebt(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyDebtSummary, keyAlerts)
	respondData(w, http.StatusOK, map[string]int64{"id": id})
}

type paymentRequest struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date,omitempty"`
	Description string  `json:"description,omitempty"`
}

func (s *Server) handleRegisterPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in paymentRequest
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := moneyIn(in.Amount)
	if err == nil {
		err = amount.Validate()
	}
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	date, err := dateIn(in.Date)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if date.IsEmpty() {
		date = core.DateOf(time.Now())
	}

	updated, err := s.debts.RegisterPayment(r.Context(), id, amount, date, in.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyDebtSummary, keyAlerts,
		keyIncomeVsExpense, keyDailyTrend, keyWeeklyTotals)
	respondData(w, http.StatusOK, debtOut(updated))
}

func (s *Server) handleMarkDebtPaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.debts.MarkAsPaid(r.Context(), id, time.Now())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyDebtSummary, keyAlerts)
	respondData(w, http.StatusOK, debtOut(updated))
}

func (s *Server) handleDebtProjection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	proj, err := s.debts.Projection(r.Context(), id, time.Now())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, proj)
}

func (s *Server) handleDebtSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	schedule, err := s.debts.Schedule(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, schedule)
}

func (s *Server) handleDebtSummary(w http.ResponseWriter, r *http.Request) {
	s.respondCached(w, r, keyDebtSummary, func() (any, error) {
		return s.debts.Summary(r.Context())
	})
}
