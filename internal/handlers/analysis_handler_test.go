package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/models"
)

func TestAnalyzeHandler_MissingQuery(t *testing.T) {
	client := &mockAgentClient{}
	handler := NewAnalysisHandler(client, common.GetLogger())

	req := httptest.NewRequest("POST", "/api/analysis", strings.NewReader(`{"sources":["NewsAPI"]}`))
	rec := httptest.NewRecorder()

	handler.AnalyzeHandler(rec, req)

	if rec.Code != 400 {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "query is required" {
		t.Errorf("expected 'query is required', got %q", body["error"])
	}

	if client.callCount() != 0 {
		t.Errorf("expected no upstream calls, got %d", client.callCount())
	}
}

func TestAnalyzeHandler_UpstreamDown_HardFail(t *testing.T) {
	client := &mockAgentClient{
		analyzeFunc: func(ctx context.Context, req *models.AnalysisRequest) (map[string]interface{}, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	handler := NewAnalysisHandler(client, common.GetLogger())

	req := httptest.NewRequest("POST", "/api/analysis", strings.NewReader(`{"query":"competitor pricing"}`))
	rec := httptest.NewRecorder()

	handler.AnalyzeHandler(rec, req)

	if rec.Code != 500 {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestStateRoutesHandler_Downloads(t *testing.T) {
	client := &mockAgentClient{
		listDownloadsFunc: func(ctx context.Context, id string) ([]map[string]interface{}, error) {
			if id != "run-9" {
				t.Errorf("expected id run-9, got %q", id)
			}
			return []map[string]interface{}{{"file": "report.pdf"}}, nil
		},
	}
	handler := NewAnalysisHandler(client, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.StateRoutesHandler(rec, httptest.NewRequest("GET", "/api/analysis-states/run-9/downloads", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var downloads []map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &downloads)
	if len(downloads) != 1 || downloads[0]["file"] != "report.pdf" {
		t.Errorf("unexpected downloads: %v", downloads)
	}
}

func TestStateRoutesHandler_DownloadFile(t *testing.T) {
	client := &mockAgentClient{
		downloadFunc: func(ctx context.Context, id, file string) (io.ReadCloser, string, error) {
			return io.NopCloser(strings.NewReader("pdf bytes")), "application/pdf", nil
		},
	}
	handler := NewAnalysisHandler(client, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.StateRoutesHandler(rec, httptest.NewRequest("GET", "/api/analysis-states/run-9/downloads/report.pdf", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected upstream content type, got %q", ct)
	}
	if rec.Body.String() != "pdf bytes" {
		t.Errorf("expected streamed body, got %q", rec.Body.String())
	}
}

func TestStateRoutesHandler_UnknownSubpath(t *testing.T) {
	client := &mockAgentClient{}
	handler := NewAnalysisHandler(client, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.StateRoutesHandler(rec, httptest.NewRequest("GET", "/api/analysis-states/run-9/other", nil))

	if rec.Code != 404 {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
