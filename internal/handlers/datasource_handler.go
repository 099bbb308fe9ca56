package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
)

// DataSourceHandler handles data source management proxy routes. The
// upstream agent owns persistence; these routes validate, decorate with
// the service bearer token and forward. All hard-fail.
type DataSourceHandler struct {
	agentClient interfaces.AgentClient
	logger      arbor.ILogger
}

// NewDataSourceHandler creates a new DataSourceHandler
func NewDataSourceHandler(agentClient interfaces.AgentClient, logger arbor.ILogger) *DataSourceHandler {
	return &DataSourceHandler{
		agentClient: agentClient,
		logger:      logger,
	}
}

// CollectionHandler routes /api/data-sources (list and create)
func (h *DataSourceHandler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ItemRoutesHandler routes /api/data-sources/{id} and its action suffixes
func (h *DataSourceHandler) ItemRoutesHandler(w http.ResponseWriter, r *http.Request) {
	rest := extractIDFromPath(r.URL.Path, "/api/data-sources/")
	if rest == "" {
		WriteError(w, http.StatusBadRequest, "Data source ID is required")
		return
	}

	if id, ok := strings.CutSuffix(rest, "/test"); ok {
		if !RequireMethod(w, r, "POST") {
			return
		}
		h.test(w, r, id)
		return
	}
	if id, ok := strings.CutSuffix(rest, "/sync"); ok {
		if !RequireMethod(w, r, "POST") {
			return
		}
		h.sync(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, rest)
	case http.MethodPut:
		h.update(w, r, rest)
	case http.MethodDelete:
		h.delete(w, r, rest)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *DataSourceHandler) list(w http.ResponseWriter, r *http.Request) {
	sources, err := h.agentClient.ListDataSources(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list data sources")
		WriteError(w, http.StatusInternalServerError, "Failed to list data sources")
		return
	}

	if sources == nil {
		sources = []models.DataSource{}
	}

	WriteJSON(w, http.StatusOK, sources)
}

func (h *DataSourceHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	source, err := h.agentClient.GetDataSource(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to get data source")
		if strings.Contains(err.Error(), "404") {
			WriteError(w, http.StatusNotFound, "Data source not found")
		} else {
			WriteError(w, http.StatusInternalServerError, "Failed to get data source")
		}
		return
	}

	WriteJSON(w, http.StatusOK, source)
}

func (h *DataSourceHandler) create(w http.ResponseWriter, r *http.Request) {
	var source models.DataSource
	if !DecodeJSONBody(w, r, &source) {
		return
	}

	if err := source.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.agentClient.CreateDataSource(r.Context(), &source)
	if err != nil {
		h.logger.Error().Err(err).Str("name", source.Name).Msg("Failed to create data source")
		WriteError(w, http.StatusInternalServerError, "Failed to create data source")
		return
	}

	WriteJSON(w, http.StatusCreated, created)
}

func (h *DataSourceHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var source models.DataSource
	if !DecodeJSONBody(w, r, &source) {
		return
	}

	// Set ID from path to prevent ID mismatch
	source.ID = id

	if err := source.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.agentClient.UpdateDataSource(r.Context(), &source)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to update data source")
		if strings.Contains(err.Error(), "404") {
			WriteError(w, http.StatusNotFound, "Data source not found")
		} else {
			WriteError(w, http.StatusInternalServerError, "Failed to update data source")
		}
		return
	}

	WriteJSON(w, http.StatusOK, updated)
}

func (h *DataSourceHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.agentClient.DeleteDataSource(r.Context(), id); err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to delete data source")
		if strings.Contains(err.Error(), "404") {
			WriteError(w, http.StatusNotFound, "Data source not found")
		} else {
			WriteError(w, http.StatusInternalServerError, "Failed to delete data source")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DataSourceHandler) test(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.agentClient.TestDataSource(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Data source test failed")
		WriteError(w, http.StatusInternalServerError, "Data source test failed")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *DataSourceHandler) sync(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.agentClient.SyncDataSource(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Data source sync failed")
		WriteError(w, http.StatusInternalServerError, "Data source sync failed")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
