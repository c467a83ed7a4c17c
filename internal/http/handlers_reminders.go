package http

import (
	"net/http"
	"time"
)

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.reminders.ListReminders(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	out := make([]reminderJSON, 0, len(reminders))
	for _, rm := range reminders {
		out = append(out, reminderOut(rm))
	}
	respondData(w, http.StatusOK, out)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var in reminderJSON
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	reminder, err := reminderIn(in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	reminder.ID = 0
	reminder.DebtID = 0
	reminder.Active = true
	if err := reminder.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := s.reminders.CreateReminder(r.Context(), reminder)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, reminderOut(created))
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in reminderJSON
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	reminder, err := reminderIn(in)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	reminder.ID = id
	if err := reminder.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	updated, err := s.reminders.UpdateReminder(r.Context(), reminder)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, reminderOut(updated))
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.reminders.DeleteReminder(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleMarkReminderPaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.reminders.MarkPaid(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, reminderOut(updated))
}

type upcomingJSON struct {
	Reminder reminderJSON `json:"reminder"`
	DaysLeft int          `json:"daysLeft"`
	Overdue  bool         `json:"overdue"`
	DueToday bool         `json:"dueToday"`
}

func (s *Server) handleUpcomingReminders(w http.ResponseWriter, r *http.Request) {
	upcoming, err := s.reminders.Upcoming(r.Context(), time.Now())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	out := make([]upcomingJSON, 0, len(upcoming))
	for _, u := range upcoming {
		out = append(out, upcomingJSON{
			Reminder: reminderOut(u.Reminder),
			DaysLeft: u.DaysLeft,
			Overdue:  u.Overdue,
			DueToday: u.DueToday,
		})
	}
	respondData(w, http.StatusOK, out)
}
