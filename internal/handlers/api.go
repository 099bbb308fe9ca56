package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
)

// APIHandler handles system-level API requests
type APIHandler struct {
	agentClient interfaces.AgentClient
	logger      arbor.ILogger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(agentClient interfaces.AgentClient, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		agentClient: agentClient,
		logger:      logger,
	}
}

// HealthHandler handles GET /api/health. The local process is always
// healthy if it can answer; upstream reachability is probed with the short
// status timeout and reported as a field, never as a failure.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	response := map[string]interface{}{
		"status":  "healthy",
		"version": common.GetVersion(),
	}

	health, err := h.agentClient.Health(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("Upstream health probe failed")
		response["upstream"] = "offline"
	} else {
		response["upstream"] = health.Status
		if len(health.Services) > 0 {
			response["upstream_services"] = health.Services
		}
	}

	WriteJSON(w, http.StatusOK, response)
}

// VersionHandler handles GET /api/version
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
	})
}

// NotFoundHandler handles unmatched API routes
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Not found")
}
