package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/marketlens/marketlens/internal/common"
)

func TestAgentSyncHandler_MissingAction(t *testing.T) {
	client := &mockAgentClient{}
	handler := NewAgentHandler(client, common.GetLogger())

	req := httptest.NewRequest("POST", "/api/agent/sync", strings.NewReader(`{"data":{}}`))
	rec := httptest.NewRecorder()

	handler.SyncHandler(rec, req)

	if rec.Code != 400 {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "action is required" {
		t.Errorf("expected 'action is required', got %q", body["error"])
	}

	if client.callCount() != 0 {
		t.Errorf("expected no upstream calls, got %d", client.callCount())
	}
}

func TestAgentSyncHandler_UpstreamDown_QueuedFallback(t *testing.T) {
	client := &mockAgentClient{
		agentSyncFunc: func(ctx context.Context, action string, data interface{}) (map[string]interface{}, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	handler := NewAgentHandler(client, common.GetLogger())

	req := httptest.NewRequest("POST", "/api/agent/sync", strings.NewReader(`{"action":"refresh"}`))
	rec := httptest.NewRecorder()

	handler.SyncHandler(rec, req)

	// Soft-fail: unreachable upstream is 200 with a queued marker
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["success"] != true {
		t.Errorf("expected success=true, got %v", body["success"])
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %T", body["data"])
	}
	if data["status"] != "queued" {
		t.Errorf("expected status 'queued', got %v", data["status"])
	}
	if data["note"] == "" {
		t.Error("expected a note explaining the fallback")
	}
}

func TestAgentSyncHandler_Success(t *testing.T) {
	client := &mockAgentClient{
		agentSyncFunc: func(ctx context.Context, action string, data interface{}) (map[string]interface{}, error) {
			return map[string]interface{}{"status": "completed", "action": action}, nil
		},
	}
	handler := NewAgentHandler(client, common.GetLogger())

	req := httptest.NewRequest("POST", "/api/agent/sync", strings.NewReader(`{"action":"refresh"}`))
	rec := httptest.NewRecorder()

	handler.SyncHandler(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	data := body["data"].(map[string]interface{})
	if data["status"] != "completed" {
		t.Errorf("expected upstream result passthrough, got %v", data)
	}
}

func TestAgentStatusHandler_UpstreamDown_OfflineFallback(t *testing.T) {
	client := &mockAgentClient{
		agentStatusFunc: func(ctx context.Context) (map[string]interface{}, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	handler := NewAgentHandler(client, common.GetLogger())

	req := httptest.NewRequest("GET", "/api/agent/status", nil)
	rec := httptest.NewRecorder()

	handler.StatusHandler(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "offline" {
		t.Errorf("expected status 'offline', got %q", body["status"])
	}
}

func TestAgentStatusHandler_Success(t *testing.T) {
	client := &mockAgentClient{
		agentStatusFunc: func(ctx context.Context) (map[string]interface{}, error) {
			return map[string]interface{}{"status": "online", "version": "1.2.0"}, nil
		},
	}
	handler := NewAgentHandler(client, common.GetLogger())

	req := httptest.NewRequest("GET", "/api/agent/status", nil)
	rec := httptest.NewRecorder()

	handler.StatusHandler(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "online" {
		t.Errorf("expected upstream status passthrough, got %v", body)
	}
}
