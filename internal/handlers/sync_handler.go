package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
)

// SyncHandler handles HTTP requests for the data source sync cycle
type SyncHandler struct {
	syncService interfaces.SyncService
	config      *common.SyncConfig
	logger      arbor.ILogger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService interfaces.SyncService, config *common.SyncConfig, logger arbor.ILogger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		config:      config,
		logger:      logger,
	}
}

type startSyncRequest struct {
	Sources      []string `json:"sources"`
	MarketDomain string   `json:"market_domain"`
	SyncType     string   `json:"sync_type"`
}

// StartSyncHandler handles POST /api/sync. Validation failures return 400
// before any upstream call is made.
func (h *SyncHandler) StartSyncHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req startSyncRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	if len(req.Sources) == 0 {
		WriteValidationError(w, "sources")
		return
	}

	if req.MarketDomain == "" {
		req.MarketDomain = h.config.MarketDomain
	}
	if req.SyncType == "" {
		req.SyncType = h.config.SyncType
	}

	if err := h.syncService.StartAll(r.Context(), req.Sources, req.MarketDomain, req.SyncType); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to start sync cycle")
		WriteError(w, http.StatusConflict, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "started",
		"sources": req.Sources,
	})
}

// SyncStatusHandler handles GET /api/sync/status. Purely local state, no
// upstream call.
func (h *SyncHandler) SyncStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, h.syncService.Snapshot())
}

// CancelSyncHandler handles POST /api/sync/cancel
func (h *SyncHandler) CancelSyncHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	h.syncService.Cancel()
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "cancelled",
	})
}
