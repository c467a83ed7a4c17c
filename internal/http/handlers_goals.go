package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/services"
)

type fundsOp func(ctx context.Context, id int64, amount core.Money) (core.Goal, error)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.ListGoals(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	out := make([]goalJSON, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalOut(g))
	}
	respondData(w, http.StatusOK, out)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	goal, err := s.goals.GetGoal(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, goalOut(goal))
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var in goalJSON
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	goal, err := goalIn(in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	goal.ID = 0
	goal.Active = true
	if err := goal.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := s.goals.CreateGoal(r.Context(), goal)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyAlerts, keyGoalsSummary)
	respondData(w, http.StatusCreated, goalOut(created))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in goalJSON
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	goal, err := goalIn(in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	goal.ID = id
	if err := goal.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	updated, err := s.goals.UpdateGoal(r.Context(), goal)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyAlerts, keyGoalsSummary)
	respondData(w, http.StatusOK, goalOut(updated))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.goals.DeleteGoal(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyAlerts, keyGoalsSummary)
	respondData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleGoalsSummary(w http.ResponseWriter, r *http.Request) {
	s.respondCached(w, r, keyGoalsSummary, func() (any, error) {
		return s.goals.Summary(r.Context(), time.Now())
	})
}

type fundsRequest struct {
	Amount float64 `json:"amount"`
}

func (s *Server) handleAddFunds(w http.ResponseWriter, r *http.Request) {
	s.handleFundsChange(w, r, s.goals.AddFunds)
}

func (s *Server) handleWithdrawFunds(w http.ResponseWriter, r *http.Request) {
	s.handleFundsChange(w, r, s.goals.WithdrawFunds)
}

func (s *Server) handleFundsChange(w http.ResponseWriter, r *http.Request, apply fundsOp) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in fundsRequest
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
	updated, err := apply(r.Context(), id, amount)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyAlerts, keyGoalsSummary)
	respondData(w, http.StatusOK, goalOut(updated))
}

func (s *Server) handleCompleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.goals.MarkCompleted(r.Context(), id)
	if errors.Is(err, services.ErrGoalNotCompleted) {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.invalidate(r, keyAlerts, keyGoalsSummary)
	respondData(w, http.StatusOK, goalOut(updated))
}
