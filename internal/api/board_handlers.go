package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/trelloflash/internal/logger"
)

type hideBoardsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

func (s *Server) handleBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.Boards.ListBoards(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, boards)
}

func (s *Server) handleBoardLists(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "id")
	lists, err := s.Boards.ListLists(r.Context(), boardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, lists)
}

func (s *Server) handleHiddenBoards(w http.ResponseWriter, r *http.Request) {
	hidden, err := s.Boards.HiddenBoards(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hidden)
}

func (s *Server) handleHideBoards(w http.ResponseWriter, r *http.Request) {
	var req hideBoardsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Boards.HideBoards(r.Context(), req.IDs...); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("hid %d boards", len(req.IDs))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnhideBoard(w http.ResponseWriter, r *http.Request) {
	if err := s.Boards.UnhideBoard(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetHiddenBoards(w http.ResponseWriter, r *http.Request) {
	if err := s.Boards.ResetHiddenBoards(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
