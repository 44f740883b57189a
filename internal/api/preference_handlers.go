package api

import (
	"net/http"

	"github.com/vytor/trelloflash/internal/models"
)

type updatePreferencesRequest struct {
	SelectionMode string `json:"selection_mode" validate:"required"`
	CardCount     int    `json:"card_count" validate:"min=1"`
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.Prefs.Get(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, prefs)
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req updatePreferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	prefs, err := s.Prefs.Update(r.Context(), models.Preferences{
		SelectionMode: req.SelectionMode,
		CardCount:     req.CardCount,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, prefs)
}
