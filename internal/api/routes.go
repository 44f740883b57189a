package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/auth", func(r chi.Router) {
		r.Put("/token", s.handleSetToken)
		r.Get("/validate", s.handleValidateToken)
	})

	r.Route("/boards", func(r chi.Router) {
		r.Get("/", s.handleBoards)
		r.Get("/hidden", s.handleHiddenBoards)
		r.Post("/hidden", s.handleHideBoards)
		r.Delete("/hidden", s.handleResetHiddenBoards)
		r.Delete("/hidden/{id}", s.handleUnhideBoard)
		r.Get("/{id}/lists", s.handleBoardLists)
	})

	r.Get("/preferences", s.handleGetPreferences)
	r.Put("/preferences", s.handleUpdatePreferences)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleStartSession)
		r.Get("/history", s.handleSessionHistory)
		r.Get("/history/{id}", s.handleStoredSession)
		r.Get("/{id}", s.handleGetSession)
		r.Delete("/{id}", s.handleEndSession)
		r.Post("/{id}/answers", s.handleAnswer)
		r.Post("/{id}/reload", s.handleReloadSession)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNoRoute(r))
	})
	return r
}
