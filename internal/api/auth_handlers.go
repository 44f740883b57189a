package api

import (
	"net/http"
)

type setTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type tokenStatus struct {
	Valid bool `json:"valid"`
}

func (s *Server) handleSetToken(w http.ResponseWriter, r *http.Request) {
	var req setTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Auth.SetToken(r.Context(), req.Token); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleValidateToken asks Trello whether the stored token still works.
// A rejected token is a normal answer, not an error.
func (s *Server) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	ok, err := s.Auth.ValidateToken(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tokenStatus{Valid: ok})
}
