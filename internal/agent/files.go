package agent

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// ListAnalysisStates fetches stored analysis runs (listing is opaque JSON;
// the dashboard renders whatever fields the upstream provides)
func (c *Client) ListAnalysisStates(ctx context.Context) ([]map[string]interface{}, error) {
	var states []map[string]interface{}
	if err := c.doJSON(ctx, c.syncClient, http.MethodGet, "/analysis-states", nil, &states); err != nil {
		return nil, err
	}
	return states, nil
}

// ListAnalysisDownloads fetches the downloadable artifacts of an analysis run
func (c *Client) ListAnalysisDownloads(ctx context.Context, id string) ([]map[string]interface{}, error) {
	if id == "" {
		return nil, fmt.Errorf("analysis id is required")
	}

	var downloads []map[string]interface{}
	path := "/analysis-states/" + url.PathEscape(id) + "/downloads"
	if err := c.doJSON(ctx, c.syncClient, http.MethodGet, path, nil, &downloads); err != nil {
		return nil, err
	}
	return downloads, nil
}

// DownloadAnalysisFile streams a generated report file. The caller owns the
// returned body and must close it.
func (c *Client) DownloadAnalysisFile(ctx context.Context, id, file string) (io.ReadCloser, string, error) {
	if id == "" || file == "" {
		return nil, "", fmt.Errorf("analysis id and file are required")
	}

	path := "/analysis-states/" + url.PathEscape(id) + "/downloads/" + url.PathEscape(file)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, "", fmt.Errorf("rate limit wait cancelled: %w", err)
		}
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("upstream request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, "", fmt.Errorf("upstream returned %d: %s", resp.StatusCode, string(body))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return resp.Body, contentType, nil
}

// UploadFile streams a document to the upstream RAG pipeline as multipart
// form data.
func (c *Client) UploadFile(ctx context.Context, filename, contentType string, content io.Reader) (map[string]interface{}, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename is required")
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	}

	var result map[string]interface{}
	if err := c.do(c.downloadClient, req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListFiles fetches uploaded document metadata
func (c *Client) ListFiles(ctx context.Context) ([]map[string]interface{}, error) {
	var files []map[string]interface{}
	if err := c.doJSON(ctx, c.syncClient, http.MethodGet, "/api/files", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// GetFile fetches one uploaded document's metadata
func (c *Client) GetFile(ctx context.Context, id string) (map[string]interface{}, error) {
	if id == "" {
		return nil, fmt.Errorf("file id is required")
	}

	var file map[string]interface{}
	if err := c.doJSON(ctx, c.syncClient, http.MethodGet, "/api/files/"+url.PathEscape(id), nil, &file); err != nil {
		return nil, err
	}
	return file, nil
}

// AnalyzeFile asks the upstream agent to analyze an uploaded document
func (c *Client) AnalyzeFile(ctx context.Context, id string) (map[string]interface{}, error) {
	if id == "" {
		return nil, fmt.Errorf("file id is required")
	}

	var result map[string]interface{}
	if err := c.doJSON(ctx, c.triggerClient, http.MethodPost, "/api/files/"+url.PathEscape(id)+"/analyze", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
