package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"outgo/internal/core"
	"outgo/internal/store"
)

type activityView struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Flow          string `json:"flow"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
}

func viewActivity(a core.Activity) activityView {
	return activityView{
		ID:            a.ID,
		Date:          a.Date.String(),
		Description:   a.Description,
		Amount:        formatCents(a.Amount.Magnitude()),
		Flow:          string(a.Amount.Flow()),
		Category:      a.Category,
		PaymentMethod: a.PaymentMethod,
	}
}

func viewActivities(activities []core.Activity) []activityView {
	out := make([]activityView, 0, len(activities))
	for _, a := range activities {
		out = append(out, viewActivity(a))
	}
	return out
}

// formatCents renders an unsigned cent value as a decimal string.
func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	activities, err := s.activities.List(r.Context(), session.UserID)
	if err != nil {
		slog.ErrorContext(r.Context(), "list activities failed", "error", err, "user_id", session.UserID)
		writeError(w, http.StatusInternalServerError, "could not list activities")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"activities": viewActivities(activities)})
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	activity, err := req.toActivity(session.UserID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.activities.Create(r.Context(), activity)
	if err != nil {
		slog.ErrorContext(r.Context(), "create activity failed", "error", err, "user_id", session.UserID)
		writeError(w, http.StatusInternalServerError, "could not save activity")
		return
	}

	s.invalidateDashboard(session.UserID)
	writeJSON(w, http.StatusCreated, viewActivity(saved))
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid activity id")
		return
	}

	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	activity, err := req.toActivity(session.UserID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	activity.ID = id

	updated, err := s.activities.Update(r.Context(), activity)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "activity not found")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "update activity failed", "error", err, "activity_id", id)
		writeError(w, http.StatusInternalServerError, "could not update activity")
		return
	}

	s.invalidateDashboard(session.UserID)
	writeJSON(w, http.StatusOK, viewActivity(updated))
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid activity id")
		return
	}

	err = s.activities.Delete(r.Context(), id, session.UserID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "activity not found")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "delete activity failed", "error", err, "activity_id", id)
		writeError(w, http.StatusInternalServerError, "could not delete activity")
		return
	}

	s.invalidateDashboard(session.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.activities.Categories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (s *Server) handleListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	methods, err := s.activities.PaymentMethods(r.Context(), session.UserID)
	if err != nil {
		slog.ErrorContext(r.Context(), "list payment methods failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list payment methods")
		return
	}
	if methods == nil {
		methods = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"payment_methods": methods})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}
