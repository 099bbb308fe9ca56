package models

import (
	"strings"
	"time"
)

// SourceStatus is the synchronization state of a single data source
type SourceStatus string

const (
	SourcePending   SourceStatus = "pending"
	SourceSyncing   SourceStatus = "syncing"
	SourceCompleted SourceStatus = "completed"
	SourceError     SourceStatus = "error"
	SourceUnknown   SourceStatus = "unknown"
)

// ParseSourceStatus normalizes an upstream status string. The upstream agent
// is inconsistent about its terminal-success value: "completed" is canonical,
// "synced" is a legacy alias still returned by older call sites. Both map to
// SourceCompleted so downstream code never has to know about the alias.
func ParseSourceStatus(raw string) SourceStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending", "queued":
		return SourcePending
	case "syncing", "running", "in_progress":
		return SourceSyncing
	case "completed", "synced", "success":
		return SourceCompleted
	case "error", "failed":
		return SourceError
	default:
		return SourceUnknown
	}
}

// Terminal reports whether no further change is expected without a new trigger
func (s SourceStatus) Terminal() bool {
	return s == SourceCompleted || s == SourceError
}

// NeverSynced is displayed when a source has no recorded sync timestamp
const NeverSynced = "Never"

// SyncSourceState is the locally tracked state of one data source during a
// sync cycle. Overwritten wholesale by each successful poll; retained as-is
// (stale but never blanked) when a poll fails.
type SyncSourceState struct {
	SourceID   string       `json:"source_id"`
	SourceName string       `json:"source_name"`
	Status     SourceStatus `json:"status"`
	Progress   int          `json:"progress"` // 0-100
	Message    string       `json:"message,omitempty"`
	LastUpdate string       `json:"last_update"` // RFC3339 timestamp or "Never"
}

// SyncState is the global state of the polling cycle
type SyncState string

const (
	SyncIdle   SyncState = "idle"
	SyncActive SyncState = "active"
)

// SyncSnapshot is the full poller state returned by GET /api/sync/status
type SyncSnapshot struct {
	State     SyncState         `json:"state"`
	Sources   []SyncSourceState `json:"sources"`
	StartedAt *time.Time        `json:"started_at,omitempty"`
}

// SyncTriggerRequest is the payload for POST {upstream}/sync-data
type SyncTriggerRequest struct {
	Sources      []string          `json:"sources"`
	MarketDomain string            `json:"market_domain"`
	SyncType     string            `json:"sync_type"`
	APIKeys      map[string]string `json:"api_keys"`
	Timestamp    string            `json:"timestamp"` // ISO8601
}

// UpstreamSourceStatus is one entry of the upstream sync-status response
type UpstreamSourceStatus struct {
	Source     string `json:"source"`
	Status     string `json:"status"`
	Progress   *int   `json:"progress"`
	Message    string `json:"message"`
	LastUpdate string `json:"last_update"`
}

// SyncStatusReport is the upstream GET /sync-status response shape
type SyncStatusReport struct {
	Statuses []UpstreamSourceStatus `json:"statuses"`
}

// State converts an upstream entry to local state, applying defaults at the
// parse boundary so downstream code never re-derives fallbacks.
func (u *UpstreamSourceStatus) State() SyncSourceState {
	progress := 0
	if u.Progress != nil {
		progress = *u.Progress
	}
	if progress < 0 {
		progress = 0
	} else if progress > 100 {
		progress = 100
	}

	lastUpdate := u.LastUpdate
	if lastUpdate == "" {
		lastUpdate = NeverSynced
	}

	name := u.Source
	if name == "" {
		name = "Unknown"
	}

	return SyncSourceState{
		SourceID:   name,
		SourceName: name,
		Status:     ParseSourceStatus(u.Status),
		Progress:   progress,
		Message:    u.Message,
		LastUpdate: lastUpdate,
	}
}
