package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
)

// MarketHandler handles read-only market data proxy routes (competitors,
// trends, customer insights). Hard-fail: missing data is reported, never
// invented.
type MarketHandler struct {
	agentClient interfaces.AgentClient
	logger      arbor.ILogger
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(agentClient interfaces.AgentClient, logger arbor.ILogger) *MarketHandler {
	return &MarketHandler{
		agentClient: agentClient,
		logger:      logger,
	}
}

// CompetitorsHandler handles GET /api/competitors
func (h *MarketHandler) CompetitorsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	competitors, err := h.agentClient.Competitors(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to fetch competitors")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch competitors")
		return
	}

	if competitors == nil {
		competitors = []models.Competitor{}
	}

	WriteJSON(w, http.StatusOK, competitors)
}

// TrendsHandler handles GET /api/trends
func (h *MarketHandler) TrendsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	trends, err := h.agentClient.Trends(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to fetch trends")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch trends")
		return
	}

	if trends == nil {
		trends = []models.Trend{}
	}

	WriteJSON(w, http.StatusOK, trends)
}

// InsightsHandler handles GET /api/insights
func (h *MarketHandler) InsightsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	insights, err := h.agentClient.CustomerInsights(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to fetch customer insights")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch customer insights")
		return
	}

	if insights == nil {
		insights = []models.CustomerInsight{}
	}

	WriteJSON(w, http.StatusOK, insights)
}
