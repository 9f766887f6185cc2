package handler

import (
	"errors"
	"net/http"

	"github.com/Rrens/honeypot/internal/api/middleware"
	"github.com/Rrens/honeypot/internal/api/response"
	"github.com/Rrens/honeypot/internal/domain"
	"github.com/Rrens/honeypot/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SessionHandler exposes live sessions to operators
type SessionHandler struct {
	honeypotService *service.HoneypotService
}

func NewSessionHandler(honeypotService *service.HoneypotService) *SessionHandler {
	return &SessionHandler{honeypotService: honeypotService}
}

// Get returns the snapshot of a live session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	operator, _ := middleware.GetOperator(r.Context())

	sess, err := h.honeypotService.GetSession(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	log.Debug().Str("operator", operator).Str("session_id", id).Msg("session inspected")
	response.OK(w, sess)
}

// Delete terminates a live session and returns its final snapshot
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	operator, _ := middleware.GetOperator(r.Context())

	sess, err := h.honeypotService.EndSession(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	log.Info().
		Str("operator", operator).
		Str("session_id", id).
		Int("turns", sess.TurnCount).
		Msg("session terminated by operator")
	response.OK(w, sess)
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		response.NotFound(w, "session not found")
		return
	}
	response.InternalError(w, "failed to load session")
}
