package agent

import (
	"context"
	"fmt"
	"net/http"

	"github.com/marketlens/marketlens/internal/models"
)

// Health probes the upstream service with the short status-class timeout
func (c *Client) Health(ctx context.Context) (*models.UpstreamHealth, error) {
	var health models.UpstreamHealth
	if err := c.doJSON(ctx, c.statusClient, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	if health.Status == "" {
		health.Status = "unknown"
	}
	return &health, nil
}

// TriggerSync starts a batch synchronization upstream. This is a
// long-running call: no client-side timeout, cancellation via ctx only.
func (c *Client) TriggerSync(ctx context.Context, req *models.SyncTriggerRequest) error {
	if len(req.Sources) == 0 {
		return fmt.Errorf("sources is required")
	}
	return c.doJSON(ctx, c.triggerClient, http.MethodPost, "/sync-data", req, nil)
}

// SyncStatus fetches per-source synchronization progress
func (c *Client) SyncStatus(ctx context.Context) (*models.SyncStatusReport, error) {
	var report models.SyncStatusReport
	if err := c.doJSON(ctx, c.statusClient, http.MethodGet, "/sync-status", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// AgentSync forwards a generic agent action (15s timeout)
func (c *Client) AgentSync(ctx context.Context, action string, data interface{}) (map[string]interface{}, error) {
	body := map[string]interface{}{"action": action}
	if data != nil {
		body["data"] = data
	}

	var result map[string]interface{}
	if err := c.doJSON(ctx, c.syncClient, http.MethodPost, "/agent/sync", body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AgentStatus fetches the agent's own status (5s timeout)
func (c *Client) AgentStatus(ctx context.Context) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := c.doJSON(ctx, c.statusClient, http.MethodGet, "/agent/status", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
