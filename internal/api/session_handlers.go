package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/trelloflash/internal/errors"
	"github.com/vytor/trelloflash/internal/logger"
	"github.com/vytor/trelloflash/internal/models"
	"github.com/vytor/trelloflash/internal/services"
)

type answerRequest struct {
	Position *int  `json:"position" validate:"required"`
	Correct  *bool `json:"correct" validate:"required"`
}

// handleStartSession creates a session and answers 202 while its deck is
// loading. With ?wait=true it blocks until the fetch settles.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req services.StartSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	wait := false
	if raw := r.URL.Query().Get("wait"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			handleError(w, r, errors.NewValidationError("wait", "must be a boolean"))
			return
		}
		wait = v
	}

	view, err := s.Sessions.Start(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log = log.WithField("session_id", view.ID)
	w.Header().Set("Location", "/sessions/"+view.ID)

	if !wait {
		log.Debug("session started, deck loading")
		writeJSON(w, r, http.StatusAccepted, view)
		return
	}

	view, err = s.Sessions.Wait(r.Context(), view.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("session started with status %s", view.Status)
	writeJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	view, err := s.Sessions.Answer(r.Context(), chi.URLParam(r, "id"), *req.Position, *req.Correct)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleReloadSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.Reload(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, view)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		handleError(w, r, err)
		return
	}

	page, err := s.Sessions.History(r.Context(), models.SessionHistoryFilter{
		ListID: r.URL.Query().Get("list_id"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (s *Server) handleStoredSession(w http.ResponseWriter, r *http.Request) {
	stored, err := s.Sessions.HistorySession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stored)
}
