package interfaces

import (
	"context"
	"io"

	"github.com/marketlens/marketlens/internal/models"
)

// AgentClient is the typed client for the external market intelligence agent
// service. Every method issues exactly one upstream HTTP call; the caller
// decides how failures are surfaced (hard error vs offline fallback).
type AgentClient interface {
	// Health probes upstream reachability (status-class timeout)
	Health(ctx context.Context) (*models.UpstreamHealth, error)

	// Sync cycle
	TriggerSync(ctx context.Context, req *models.SyncTriggerRequest) error
	SyncStatus(ctx context.Context) (*models.SyncStatusReport, error)

	// Generic agent operations (soft-fail routes)
	AgentSync(ctx context.Context, action string, data interface{}) (map[string]interface{}, error)
	AgentStatus(ctx context.Context) (map[string]interface{}, error)

	// Market data (hard-fail routes)
	KPIs(ctx context.Context) ([]models.KPI, error)
	CreateKPI(ctx context.Context, kpi *models.KPI) (*models.KPI, error)
	Competitors(ctx context.Context) ([]models.Competitor, error)
	Trends(ctx context.Context) ([]models.Trend, error)
	CustomerInsights(ctx context.Context) ([]models.CustomerInsight, error)
	Analyze(ctx context.Context, req *models.AnalysisRequest) (map[string]interface{}, error)
	Chat(ctx context.Context, req *models.ChatRequest) (map[string]interface{}, error)
	UpdateProfile(ctx context.Context, profile map[string]interface{}) error

	// Data source management (bearer-token authenticated upstream)
	ListDataSources(ctx context.Context) ([]models.DataSource, error)
	GetDataSource(ctx context.Context, id string) (*models.DataSource, error)
	CreateDataSource(ctx context.Context, source *models.DataSource) (*models.DataSource, error)
	UpdateDataSource(ctx context.Context, source *models.DataSource) (*models.DataSource, error)
	DeleteDataSource(ctx context.Context, id string) error
	TestDataSource(ctx context.Context, id string) (map[string]interface{}, error)
	SyncDataSource(ctx context.Context, id string) (map[string]interface{}, error)

	// Analysis states and report downloads
	ListAnalysisStates(ctx context.Context) ([]map[string]interface{}, error)
	ListAnalysisDownloads(ctx context.Context, id string) ([]map[string]interface{}, error)
	DownloadAnalysisFile(ctx context.Context, id, file string) (io.ReadCloser, string, error)

	// File upload and document analysis
	UploadFile(ctx context.Context, filename, contentType string, content io.Reader) (map[string]interface{}, error)
	ListFiles(ctx context.Context) ([]map[string]interface{}, error)
	GetFile(ctx context.Context, id string) (map[string]interface{}, error)
	AnalyzeFile(ctx context.Context, id string) (map[string]interface{}, error)
}
