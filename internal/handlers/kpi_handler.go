package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
)

// KPIHandler handles KPI proxy routes. KPI creation mutates upstream state,
// so these routes hard-fail: an unreachable upstream is a 500, never a
// fabricated success.
type KPIHandler struct {
	agentClient interfaces.AgentClient
	logger      arbor.ILogger
}

// NewKPIHandler creates a new KPIHandler
func NewKPIHandler(agentClient interfaces.AgentClient, logger arbor.ILogger) *KPIHandler {
	return &KPIHandler{
		agentClient: agentClient,
		logger:      logger,
	}
}

// KPIRouteHandler routes /api/kpi by method
func (h *KPIHandler) KPIRouteHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getKPIs(w, r)
	case http.MethodPost:
		h.createKPI(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *KPIHandler) getKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.agentClient.KPIs(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to fetch KPIs")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch KPIs")
		return
	}

	if kpis == nil {
		kpis = []models.KPI{}
	}

	WriteJSON(w, http.StatusOK, kpis)
}

func (h *KPIHandler) createKPI(w http.ResponseWriter, r *http.Request) {
	var kpi models.KPI
	if !DecodeJSONBody(w, r, &kpi) {
		return
	}

	if kpi.Name == "" {
		WriteValidationError(w, "name")
		return
	}

	created, err := h.agentClient.CreateKPI(r.Context(), &kpi)
	if err != nil {
		h.logger.Error().Err(err).Str("name", kpi.Name).Msg("Failed to create KPI")
		WriteError(w, http.StatusInternalServerError, "Failed to create KPI")
		return
	}

	WriteJSON(w, http.StatusCreated, created)
}
