package handlers

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/models"
)

func TestMarketHandlers_UpstreamDown_HardFail(t *testing.T) {
	client := &mockAgentClient{
		competitorsFunc: func(ctx context.Context) ([]models.Competitor, error) {
			return nil, fmt.Errorf("connection refused")
		},
		trendsFunc: func(ctx context.Context) ([]models.Trend, error) {
			return nil, fmt.Errorf("connection refused")
		},
		customerInsightsFunc: func(ctx context.Context) ([]models.CustomerInsight, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	handler := NewMarketHandler(client, common.GetLogger())

	cases := []struct {
		name string
		call func(rec *httptest.ResponseRecorder)
	}{
		{"competitors", func(rec *httptest.ResponseRecorder) {
			handler.CompetitorsHandler(rec, httptest.NewRequest("GET", "/api/competitors", nil))
		}},
		{"trends", func(rec *httptest.ResponseRecorder) {
			handler.TrendsHandler(rec, httptest.NewRequest("GET", "/api/trends", nil))
		}},
		{"insights", func(rec *httptest.ResponseRecorder) {
			handler.InsightsHandler(rec, httptest.NewRequest("GET", "/api/insights", nil))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.call(rec)
			if rec.Code != 500 {
				t.Errorf("expected 500, got %d", rec.Code)
			}
		})
	}
}

func TestMarketHandlers_EmptyUpstream(t *testing.T) {
	client := &mockAgentClient{}
	handler := NewMarketHandler(client, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.TrendsHandler(rec, httptest.NewRequest("GET", "/api/trends", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestMarketHandlers_MethodNotAllowed(t *testing.T) {
	client := &mockAgentClient{}
	handler := NewMarketHandler(client, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.CompetitorsHandler(rec, httptest.NewRequest("POST", "/api/competitors", nil))

	if rec.Code != 405 {
		t.Errorf("expected 405, got %d", rec.Code)
	}
	if client.callCount() != 0 {
		t.Errorf("expected no upstream calls, got %d", client.callCount())
	}
}
