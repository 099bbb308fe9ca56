package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/interfaces"
)

// SessionHandler exposes the settled session state to the frontend
type SessionHandler struct {
	sessionService interfaces.SessionService
	logger         arbor.ILogger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService interfaces.SessionService, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// SessionStateHandler handles GET /api/session. Always ready: the session
// settles at startup whether or not a provider is configured, so the
// frontend never blocks on this route.
func (h *SessionHandler) SessionStateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	session := h.sessionService.Current()

	response := map[string]interface{}{
		"ready":      session.Ready,
		"configured": h.sessionService.IsConfigured(),
		"user":       session.User,
	}
	if session.Error != "" {
		response["error"] = session.Error
	}

	WriteJSON(w, http.StatusOK, response)
}

// SignOutHandler handles POST /api/session/signout. The local user is
// cleared before the provider round-trip completes, so the response always
// reports success even when revocation fails upstream.
func (h *SessionHandler) SignOutHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := h.sessionService.SignOut(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Provider sign-out failed, local session cleared")
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    nil,
	})
}
