package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Sync cycle
	mux.HandleFunc("/api/sync", s.app.SyncHandler.StartSyncHandler)         // POST - start sync cycle
	mux.HandleFunc("/api/sync/status", s.app.SyncHandler.SyncStatusHandler) // GET - current snapshot
	mux.HandleFunc("/api/sync/cancel", s.app.SyncHandler.CancelSyncHandler) // POST - abort active cycle

	// API routes - Generic agent operations (soft-fail)
	mux.HandleFunc("/api/agent/sync", s.app.AgentHandler.SyncHandler)
	mux.HandleFunc("/api/agent/status", s.app.AgentHandler.StatusHandler)

	// API routes - Market data (hard-fail proxies)
	mux.HandleFunc("/api/kpi", s.app.KPIHandler.KPIRouteHandler) // GET (list), POST (create)
	mux.HandleFunc("/api/competitors", s.app.MarketHandler.CompetitorsHandler)
	mux.HandleFunc("/api/trends", s.app.MarketHandler.TrendsHandler)
	mux.HandleFunc("/api/insights", s.app.MarketHandler.InsightsHandler)

	// API routes - Analysis and chat
	mux.HandleFunc("/api/analysis", s.app.AnalysisHandler.AnalyzeHandler)
	mux.HandleFunc("/api/analysis-states", s.app.AnalysisHandler.ListStatesHandler)
	mux.HandleFunc("/api/analysis-states/", s.app.AnalysisHandler.StateRoutesHandler) // /{id}/downloads[/{file}]
	mux.HandleFunc("/api/chat", s.app.ChatHandler.ChatHandler)

	// API routes - Data source management
	mux.HandleFunc("/api/data-sources", s.app.DataSourceHandler.CollectionHandler) // GET (list), POST (create)
	mux.HandleFunc("/api/data-sources/", s.app.DataSourceHandler.ItemRoutesHandler) // GET/PUT/DELETE /{id}, POST /{id}/test|sync

	// API routes - Document upload and analysis
	mux.HandleFunc("/api/upload", s.app.FilesHandler.UploadHandler)
	mux.HandleFunc("/api/files", s.app.FilesHandler.ListFilesHandler)
	mux.HandleFunc("/api/files/", s.app.FilesHandler.FileRoutesHandler) // GET /{id}, POST /{id}/analyze

	// API routes - Settings and profile
	mux.HandleFunc("/api/settings/keys", s.app.SettingsHandler.KeysHandler) // GET (masked), PUT (update)
	mux.HandleFunc("/api/profile", s.app.SettingsHandler.ProfileHandler)

	// API routes - Session
	mux.HandleFunc("/api/session", s.app.SessionHandler.SessionStateHandler)
	mux.HandleFunc("/api/session/signout", s.app.SessionHandler.SignOutHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
