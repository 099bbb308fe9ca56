package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
)

// AnalysisHandler handles analysis submission and stored analysis states.
// Analysis submission is a hard-fail route: the AI pipeline either ran or
// it did not.
type AnalysisHandler struct {
	agentClient interfaces.AgentClient
	logger      arbor.ILogger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(agentClient interfaces.AgentClient, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		agentClient: agentClient,
		logger:      logger,
	}
}

// AnalyzeHandler handles POST /api/analysis
func (h *AnalysisHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.AnalysisRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	if req.Query == "" {
		WriteValidationError(w, "query")
		return
	}

	h.logger.Info().Str("query", req.Query).Int("sources", len(req.Sources)).Msg("Submitting analysis")

	result, err := h.agentClient.Analyze(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Analysis submission failed")
		WriteError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// ListStatesHandler handles GET /api/analysis-states
func (h *AnalysisHandler) ListStatesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	states, err := h.agentClient.ListAnalysisStates(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list analysis states")
		WriteError(w, http.StatusInternalServerError, "Failed to list analysis states")
		return
	}

	if states == nil {
		states = []map[string]interface{}{}
	}

	WriteJSON(w, http.StatusOK, states)
}

// StateRoutesHandler routes /api/analysis-states/{id}/downloads[/{file}]
func (h *AnalysisHandler) StateRoutesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	rest := extractIDFromPath(r.URL.Path, "/api/analysis-states/")
	if rest == "" {
		WriteError(w, http.StatusBadRequest, "Analysis ID is required")
		return
	}

	parts := strings.SplitN(rest, "/", 3)
	switch {
	case len(parts) == 2 && parts[1] == "downloads":
		h.listDownloads(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "downloads":
		h.downloadFile(w, r, parts[0], parts[2])
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (h *AnalysisHandler) listDownloads(w http.ResponseWriter, r *http.Request, id string) {
	downloads, err := h.agentClient.ListAnalysisDownloads(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to list analysis downloads")
		WriteError(w, http.StatusInternalServerError, "Failed to list downloads")
		return
	}

	if downloads == nil {
		downloads = []map[string]interface{}{}
	}

	WriteJSON(w, http.StatusOK, downloads)
}

func (h *AnalysisHandler) downloadFile(w http.ResponseWriter, r *http.Request, id, file string) {
	body, contentType, err := h.agentClient.DownloadAnalysisFile(r.Context(), id, file)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Str("file", file).Msg("Failed to download analysis file")
		WriteError(w, http.StatusInternalServerError, "Failed to download file")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file+`"`)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn().Err(err).Str("file", file).Msg("Download stream interrupted")
	}
}
