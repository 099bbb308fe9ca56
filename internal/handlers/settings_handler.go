package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/services/kv"
)

// SettingsHandler handles API key settings and user profile updates
type SettingsHandler struct {
	kvService   *kv.Service
	agentClient interfaces.AgentClient
	logger      arbor.ILogger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(kvService *kv.Service, agentClient interfaces.AgentClient, logger arbor.ILogger) *SettingsHandler {
	return &SettingsHandler{
		kvService:   kvService,
		agentClient: agentClient,
		logger:      logger,
	}
}

// keyUpdateRequest is the PUT /api/settings/keys body
type keyUpdateRequest struct {
	Service string `json:"service"`
	Value   string `json:"value"`
}

// KeysHandler routes /api/settings/keys
func (h *SettingsHandler) KeysHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getKeys(w, r)
	case http.MethodPut:
		h.updateKey(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) getKeys(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"keys": h.kvService.MaskedKeys(r.Context()),
	})
}

func (h *SettingsHandler) updateKey(w http.ResponseWriter, r *http.Request) {
	var req keyUpdateRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	if req.Service == "" {
		WriteValidationError(w, "service")
		return
	}

	// Empty value clears the stored key, falling back to configuration
	var err error
	if req.Value == "" {
		err = h.kvService.Delete(r.Context(), req.Service)
	} else {
		err = h.kvService.Set(r.Context(), req.Service, req.Value)
	}
	if err != nil {
		h.logger.Error().Err(err).Str("service", req.Service).Msg("Failed to update API key")
		WriteError(w, http.StatusInternalServerError, "Failed to update API key")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"keys": h.kvService.MaskedKeys(r.Context()),
	})
}

// ProfileHandler handles POST /api/profile (hard-fail proxy)
func (h *SettingsHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var profile map[string]interface{}
	if !DecodeJSONBody(w, r, &profile) {
		return
	}

	if len(profile) == 0 {
		WriteValidationError(w, "profile")
		return
	}

	if err := h.agentClient.UpdateProfile(r.Context(), profile); err != nil {
		h.logger.Error().Err(err).Msg("Failed to update profile")
		WriteError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
