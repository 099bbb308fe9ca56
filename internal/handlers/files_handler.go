package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/interfaces"
)

// maxUploadSize caps document uploads at 25MB
const maxUploadSize = 25 << 20

// FilesHandler handles document upload and document analysis proxy routes
type FilesHandler struct {
	agentClient interfaces.AgentClient
	logger      arbor.ILogger
}

// NewFilesHandler creates a new FilesHandler
func NewFilesHandler(agentClient interfaces.AgentClient, logger arbor.ILogger) *FilesHandler {
	return &FilesHandler{
		agentClient: agentClient,
		logger:      logger,
	}
}

// UploadHandler handles POST /api/upload (multipart form, "file" field)
func (h *FilesHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteValidationError(w, "file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h.logger.Info().
		Str("filename", header.Filename).
		Int64("size", header.Size).
		Msg("Uploading document")

	result, err := h.agentClient.UploadFile(r.Context(), header.Filename, contentType, file)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("Upload failed")
		WriteError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// ListFilesHandler handles GET /api/files
func (h *FilesHandler) ListFilesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	files, err := h.agentClient.ListFiles(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list files")
		WriteError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	if files == nil {
		files = []map[string]interface{}{}
	}

	WriteJSON(w, http.StatusOK, files)
}

// FileRoutesHandler routes /api/files/{id} and /api/files/{id}/analyze
func (h *FilesHandler) FileRoutesHandler(w http.ResponseWriter, r *http.Request) {
	rest := extractIDFromPath(r.URL.Path, "/api/files/")
	if rest == "" {
		WriteError(w, http.StatusBadRequest, "File ID is required")
		return
	}

	if id, ok := strings.CutSuffix(rest, "/analyze"); ok {
		if !RequireMethod(w, r, "POST") {
			return
		}
		h.analyzeFile(w, r, id)
		return
	}

	if !RequireMethod(w, r, "GET") {
		return
	}
	h.getFile(w, r, rest)
}

func (h *FilesHandler) getFile(w http.ResponseWriter, r *http.Request, id string) {
	file, err := h.agentClient.GetFile(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to get file")
		if strings.Contains(err.Error(), "404") {
			WriteError(w, http.StatusNotFound, "File not found")
		} else {
			WriteError(w, http.StatusInternalServerError, "Failed to get file")
		}
		return
	}

	WriteJSON(w, http.StatusOK, file)
}

func (h *FilesHandler) analyzeFile(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.agentClient.AnalyzeFile(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("File analysis failed")
		WriteError(w, http.StatusInternalServerError, "File analysis failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}
