package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
)

// ChatHandler handles the chat proxy route
type ChatHandler struct {
	agentClient interfaces.AgentClient
	logger      arbor.ILogger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(agentClient interfaces.AgentClient, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		agentClient: agentClient,
		logger:      logger,
	}
}

// ChatHandler handles POST /api/chat (hard-fail)
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.ChatRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	if req.Message == "" {
		WriteValidationError(w, "message")
		return
	}

	h.logger.Info().
		Int("message_length", len(req.Message)).
		Int("history_turns", len(req.History)).
		Msg("Forwarding chat request")

	response, err := h.agentClient.Chat(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate chat response")
		WriteError(w, http.StatusInternalServerError, "Failed to generate response")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    response,
	})
}
