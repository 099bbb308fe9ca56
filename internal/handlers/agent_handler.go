package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/interfaces"
)

// AgentHandler handles the generic agent proxy routes. These are the
// soft-fail routes: when the upstream agent is unreachable the dashboard
// should keep working, so failures become a synthetic "queued"/"offline"
// payload with HTTP 200 instead of a hard error. Only non-mutating
// operational routes may use this policy.
type AgentHandler struct {
	agentClient interfaces.AgentClient
	logger      arbor.ILogger
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(agentClient interfaces.AgentClient, logger arbor.ILogger) *AgentHandler {
	return &AgentHandler{
		agentClient: agentClient,
		logger:      logger,
	}
}

type agentSyncRequest struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data"`
}

// SyncHandler handles POST /api/agent/sync (soft-fail)
func (h *AgentHandler) SyncHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req agentSyncRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	if req.Action == "" {
		WriteValidationError(w, "action")
		return
	}

	result, err := h.agentClient.AgentSync(r.Context(), req.Action, req.Data)
	if err != nil {
		h.logger.Warn().Err(err).Str("action", req.Action).Msg("Agent sync unreachable, returning queued fallback")
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]string{
				"status": "queued",
				"note":   "Agent service unreachable, operation queued for retry",
			},
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// StatusHandler handles GET /api/agent/status (soft-fail)
func (h *AgentHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status, err := h.agentClient.AgentStatus(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("Agent status unreachable, returning offline fallback")
		WriteJSON(w, http.StatusOK, map[string]string{
			"status": "offline",
		})
		return
	}

	WriteJSON(w, http.StatusOK, status)
}
