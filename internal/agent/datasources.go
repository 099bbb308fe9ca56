package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/marketlens/marketlens/internal/models"
)

// ListDataSources fetches all configured data sources
func (c *Client) ListDataSources(ctx context.Context) ([]models.DataSource, error) {
	var sources []models.DataSource
	if err := c.doJSON(ctx, c.syncClient, http.MethodGet, "/data-sources", nil, &sources); err != nil {
		return nil, err
	}
	for i := range sources {
		sources[i].Normalize()
	}
	return sources, nil
}

// GetDataSource fetches a single data source by ID
func (c *Client) GetDataSource(ctx context.Context, id string) (*models.DataSource, error) {
	if id == "" {
		return nil, fmt.Errorf("data source id is required")
	}

	var source models.DataSource
	if err := c.doJSON(ctx, c.syncClient, http.MethodGet, "/data-sources/"+url.PathEscape(id), nil, &source); err != nil {
		return nil, err
	}
	source.Normalize()
	return &source, nil
}

// CreateDataSource creates a data source upstream
func (c *Client) CreateDataSource(ctx context.Context, source *models.DataSource) (*models.DataSource, error) {
	var created models.DataSource
	if err := c.doJSON(ctx, c.syncClient, http.MethodPost, "/data-sources", source, &created); err != nil {
		return nil, err
	}
	created.Normalize()
	return &created, nil
}

// UpdateDataSource updates a data source upstream
func (c *Client) UpdateDataSource(ctx context.Context, source *models.DataSource) (*models.DataSource, error) {
	if source.ID == "" {
		return nil, fmt.Errorf("data source id is required")
	}

	var updated models.DataSource
	if err := c.doJSON(ctx, c.syncClient, http.MethodPut, "/data-sources/"+url.PathEscape(source.ID), source, &updated); err != nil {
		return nil, err
	}
	updated.Normalize()
	return &updated, nil
}

// DeleteDataSource deletes a data source upstream
func (c *Client) DeleteDataSource(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("data source id is required")
	}
	return c.doJSON(ctx, c.syncClient, http.MethodDelete, "/data-sources/"+url.PathEscape(id), nil, nil)
}

// TestDataSource asks upstream to verify connectivity for a data source
func (c *Client) TestDataSource(ctx context.Context, id string) (map[string]interface{}, error) {
	if id == "" {
		return nil, fmt.Errorf("data source id is required")
	}

	var result map[string]interface{}
	if err := c.doJSON(ctx, c.syncClient, http.MethodPost, "/data-sources/"+url.PathEscape(id)+"/test", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SyncDataSource triggers synchronization of a single data source
func (c *Client) SyncDataSource(ctx context.Context, id string) (map[string]interface{}, error) {
	if id == "" {
		return nil, fmt.Errorf("data source id is required")
	}

	var result map[string]interface{}
	if err := c.doJSON(ctx, c.triggerClient, http.MethodPost, "/data-sources/"+url.PathEscape(id)+"/sync", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
