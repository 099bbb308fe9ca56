package agent

import (
	"context"
	"net/http"

	"github.com/marketlens/marketlens/internal/models"
)

// KPIs fetches dashboard KPI cards
func (c *Client) KPIs(ctx context.Context) ([]models.KPI, error) {
	var kpis []models.KPI
	if err := c.doEnvelope(ctx, c.syncClient, http.MethodGet, "/kpis", nil, &kpis); err != nil {
		return nil, err
	}
	for i := range kpis {
		kpis[i].Normalize()
	}
	return kpis, nil
}

// CreateKPI stores a new KPI upstream. This mutates upstream state, so the
// route fronting it must never soft-fail.
func (c *Client) CreateKPI(ctx context.Context, kpi *models.KPI) (*models.KPI, error) {
	var created models.KPI
	if err := c.doEnvelope(ctx, c.syncClient, http.MethodPost, "/kpis", kpi, &created); err != nil {
		return nil, err
	}
	created.Normalize()
	return &created, nil
}

// Competitors fetches the competitor list
func (c *Client) Competitors(ctx context.Context) ([]models.Competitor, error) {
	var competitors []models.Competitor
	if err := c.doEnvelope(ctx, c.syncClient, http.MethodGet, "/competitors", nil, &competitors); err != nil {
		return nil, err
	}
	for i := range competitors {
		competitors[i].Normalize()
	}
	return competitors, nil
}

// Trends fetches scored market trend cards
func (c *Client) Trends(ctx context.Context) ([]models.Trend, error) {
	var trends []models.Trend
	if err := c.doEnvelope(ctx, c.syncClient, http.MethodGet, "/trends", nil, &trends); err != nil {
		return nil, err
	}
	for i := range trends {
		trends[i].Normalize()
	}
	return trends, nil
}

// CustomerInsights fetches AI-generated customer insight cards
func (c *Client) CustomerInsights(ctx context.Context) ([]models.CustomerInsight, error) {
	var insights []models.CustomerInsight
	if err := c.doEnvelope(ctx, c.syncClient, http.MethodGet, "/customer-insights", nil, &insights); err != nil {
		return nil, err
	}
	for i := range insights {
		insights[i].Normalize()
	}
	return insights, nil
}

// Analyze submits an analysis query. Analysis runs the upstream AI pipeline;
// it uses the unbounded trigger client.
func (c *Client) Analyze(ctx context.Context, req *models.AnalysisRequest) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := c.doEnvelope(ctx, c.triggerClient, http.MethodPost, "/analyze", req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Chat forwards a chat turn to the upstream agent
func (c *Client) Chat(ctx context.Context, req *models.ChatRequest) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := c.doEnvelope(ctx, c.syncClient, http.MethodPost, "/chat", req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateProfile updates the current user's profile upstream
func (c *Client) UpdateProfile(ctx context.Context, profile map[string]interface{}) error {
	return c.doEnvelope(ctx, c.syncClient, http.MethodPost, "/users/me/profile", profile, nil)
}
