package handlers

import (
	"context"
	"io"
	"strings"
	"sync/atomic"

	"github.com/marketlens/marketlens/internal/models"
)

// mockAgentClient implements interfaces.AgentClient for testing. Every call
// increments calls so validation tests can assert zero upstream traffic.
type mockAgentClient struct {
	calls int64

	healthFunc           func(ctx context.Context) (*models.UpstreamHealth, error)
	triggerSyncFunc      func(ctx context.Context, req *models.SyncTriggerRequest) error
	syncStatusFunc       func(ctx context.Context) (*models.SyncStatusReport, error)
	agentSyncFunc        func(ctx context.Context, action string, data interface{}) (map[string]interface{}, error)
	agentStatusFunc      func(ctx context.Context) (map[string]interface{}, error)
	kpisFunc             func(ctx context.Context) ([]models.KPI, error)
	createKPIFunc        func(ctx context.Context, kpi *models.KPI) (*models.KPI, error)
	competitorsFunc      func(ctx context.Context) ([]models.Competitor, error)
	trendsFunc           func(ctx context.Context) ([]models.Trend, error)
	customerInsightsFunc func(ctx context.Context) ([]models.CustomerInsight, error)
	analyzeFunc          func(ctx context.Context, req *models.AnalysisRequest) (map[string]interface{}, error)
	chatFunc             func(ctx context.Context, req *models.ChatRequest) (map[string]interface{}, error)
	updateProfileFunc    func(ctx context.Context, profile map[string]interface{}) error
	listDataSourcesFunc  func(ctx context.Context) ([]models.DataSource, error)
	getDataSourceFunc    func(ctx context.Context, id string) (*models.DataSource, error)
	createDataSourceFunc func(ctx context.Context, source *models.DataSource) (*models.DataSource, error)
	updateDataSourceFunc func(ctx context.Context, source *models.DataSource) (*models.DataSource, error)
	deleteDataSourceFunc func(ctx context.Context, id string) error
	testDataSourceFunc   func(ctx context.Context, id string) (map[string]interface{}, error)
	syncDataSourceFunc   func(ctx context.Context, id string) (map[string]interface{}, error)
	listStatesFunc       func(ctx context.Context) ([]map[string]interface{}, error)
	listDownloadsFunc    func(ctx context.Context, id string) ([]map[string]interface{}, error)
	downloadFunc         func(ctx context.Context, id, file string) (io.ReadCloser, string, error)
	uploadFileFunc       func(ctx context.Context, filename, contentType string, content io.Reader) (map[string]interface{}, error)
	listFilesFunc        func(ctx context.Context) ([]map[string]interface{}, error)
	getFileFunc          func(ctx context.Context, id string) (map[string]interface{}, error)
	analyzeFileFunc      func(ctx context.Context, id string) (map[string]interface{}, error)
}

func (m *mockAgentClient) callCount() int64 {
	return atomic.LoadInt64(&m.calls)
}

func (m *mockAgentClient) record() {
	atomic.AddInt64(&m.calls, 1)
}

func (m *mockAgentClient) Health(ctx context.Context) (*models.UpstreamHealth, error) {
	m.record()
	if m.healthFunc != nil {
		return m.healthFunc(ctx)
	}
	return &models.UpstreamHealth{Status: "healthy"}, nil
}

func (m *mockAgentClient) TriggerSync(ctx context.Context, req *models.SyncTriggerRequest) error {
	m.record()
	if m.triggerSyncFunc != nil {
		return m.triggerSyncFunc(ctx, req)
	}
	return nil
}

func (m *mockAgentClient) SyncStatus(ctx context.Context) (*models.SyncStatusReport, error) {
	m.record()
	if m.syncStatusFunc != nil {
		return m.syncStatusFunc(ctx)
	}
	return &models.SyncStatusReport{}, nil
}

func (m *mockAgentClient) AgentSync(ctx context.Context, action string, data interface{}) (map[string]interface{}, error) {
	m.record()
	if m.agentSyncFunc != nil {
		return m.agentSyncFunc(ctx, action, data)
	}
	return map[string]interface{}{}, nil
}

func (m *mockAgentClient) AgentStatus(ctx context.Context) (map[string]interface{}, error) {
	m.record()
	if m.agentStatusFunc != nil {
		return m.agentStatusFunc(ctx)
	}
	return map[string]interface{}{"status": "online"}, nil
}

func (m *mockAgentClient) KPIs(ctx context.Context) ([]models.KPI, error) {
	m.record()
	if m.kpisFunc != nil {
		return m.kpisFunc(ctx)
	}
	return nil, nil
}

func (m *mockAgentClient) CreateKPI(ctx context.Context, kpi *models.KPI) (*models.KPI, error) {
	m.record()
	if m.createKPIFunc != nil {
		return m.createKPIFunc(ctx, kpi)
	}
	return kpi, nil
}

func (m *mockAgentClient) Competitors(ctx context.Context) ([]models.Competitor, error) {
	m.record()
	if m.competitorsFunc != nil {
		return m.competitorsFunc(ctx)
	}
	return nil, nil
}

func (m *mockAgentClient) Trends(ctx context.Context) ([]models.Trend, error) {
	m.record()
	if m.trendsFunc != nil {
		return m.trendsFunc(ctx)
	}
	return nil, nil
}

func (m *mockAgentClient) CustomerInsights(ctx context.Context) ([]models.CustomerInsight, error) {
	m.record()
	if m.customerInsightsFunc != nil {
		return m.customerInsightsFunc(ctx)
	}
	return nil, nil
}

func (m *mockAgentClient) Analyze(ctx context.Context, req *models.AnalysisRequest) (map[string]interface{}, error) {
	m.record()
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, req)
	}
	return map[string]interface{}{}, nil
}

func (m *mockAgentClient) Chat(ctx context.Context, req *models.ChatRequest) (map[string]interface{}, error) {
	m.record()
	if m.chatFunc != nil {
		return m.chatFunc(ctx, req)
	}
	return map[string]interface{}{}, nil
}

func (m *mockAgentClient) UpdateProfile(ctx context.Context, profile map[string]interface{}) error {
	m.record()
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, profile)
	}
	return nil
}

func (m *mockAgentClient) ListDataSources(ctx context.Context) ([]models.DataSource, error) {
	m.record()
	if m.listDataSourcesFunc != nil {
		return m.listDataSourcesFunc(ctx)
	}
	return nil, nil
}

func (m *mockAgentClient) GetDataSource(ctx context.Context, id string) (*models.DataSource, error) {
	m.record()
	if m.getDataSourceFunc != nil {
		return m.getDataSourceFunc(ctx, id)
	}
	return &models.DataSource{ID: id}, nil
}

func (m *mockAgentClient) CreateDataSource(ctx context.Context, source *models.DataSource) (*models.DataSource, error) {
	m.record()
	if m.createDataSourceFunc != nil {
		return m.createDataSourceFunc(ctx, source)
	}
	return source, nil
}

func (m *mockAgentClient) UpdateDataSource(ctx context.Context, source *models.DataSource) (*models.DataSource, error) {
	m.record()
	if m.updateDataSourceFunc != nil {
		return m.updateDataSourceFunc(ctx, source)
	}
	return source, nil
}

func (m *mockAgentClient) DeleteDataSource(ctx context.Context, id string) error {
	m.record()
	if m.deleteDataSourceFunc != nil {
		return m.deleteDataSourceFunc(ctx, id)
	}
	return nil
}

func (m *mockAgentClient) TestDataSource(ctx context.Context, id string) (map[string]interface{}, error) {
	m.record()
	if m.testDataSourceFunc != nil {
		return m.testDataSourceFunc(ctx, id)
	}
	return map[string]interface{}{}, nil
}

func (m *mockAgentClient) SyncDataSource(ctx context.Context, id string) (map[string]interface{}, error) {
	m.record()
	if m.syncDataSourceFunc != nil {
		return m.syncDataSourceFunc(ctx, id)
	}
	return map[string]interface{}{}, nil
}

func (m *mockAgentClient) ListAnalysisStates(ctx context.Context) ([]map[string]interface{}, error) {
	m.record()
	if m.listStatesFunc != nil {
		return m.listStatesFunc(ctx)
	}
	return nil, nil
}

func (m *mockAgentClient) ListAnalysisDownloads(ctx context.Context, id string) ([]map[string]interface{}, error) {
	m.record()
	if m.listDownloadsFunc != nil {
		return m.listDownloadsFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAgentClient) DownloadAnalysisFile(ctx context.Context, id, file string) (io.ReadCloser, string, error) {
	m.record()
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, id, file)
	}
	return io.NopCloser(strings.NewReader("")), "application/octet-stream", nil
}

func (m *mockAgentClient) UploadFile(ctx context.Context, filename, contentType string, content io.Reader) (map[string]interface{}, error) {
	m.record()
	if m.uploadFileFunc != nil {
		return m.uploadFileFunc(ctx, filename, contentType, content)
	}
	return map[string]interface{}{}, nil
}

func (m *mockAgentClient) ListFiles(ctx context.Context) ([]map[string]interface{}, error) {
	m.record()
	if m.listFilesFunc != nil {
		return m.listFilesFunc(ctx)
	}
	return nil, nil
}

func (m *mockAgentClient) GetFile(ctx context.Context, id string) (map[string]interface{}, error) {
	m.record()
	if m.getFileFunc != nil {
		return m.getFileFunc(ctx, id)
	}
	return map[string]interface{}{}, nil
}

func (m *mockAgentClient) AnalyzeFile(ctx context.Context, id string) (map[string]interface{}, error) {
	m.record()
	if m.analyzeFileFunc != nil {
		return m.analyzeFileFunc(ctx, id)
	}
	return map[string]interface{}{}, nil
}

// mockSyncService implements interfaces.SyncService for testing
type mockSyncService struct {
	startAllFunc func(ctx context.Context, sources []string, marketDomain, syncType string) error
	snapshotFunc func() models.SyncSnapshot
	cancelCalls  int
	startCalls   int
}

func (m *mockSyncService) StartAll(ctx context.Context, sources []string, marketDomain, syncType string) error {
	m.startCalls++
	if m.startAllFunc != nil {
		return m.startAllFunc(ctx, sources, marketDomain, syncType)
	}
	return nil
}

func (m *mockSyncService) Snapshot() models.SyncSnapshot {
	if m.snapshotFunc != nil {
		return m.snapshotFunc()
	}
	return models.SyncSnapshot{State: models.SyncIdle, Sources: []models.SyncSourceState{}}
}

func (m *mockSyncService) Cancel() {
	m.cancelCalls++
}

func (m *mockSyncService) Active() bool {
	return false
}
