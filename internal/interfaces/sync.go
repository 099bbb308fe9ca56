package interfaces

import (
	"context"

	"github.com/marketlens/marketlens/internal/models"
)

// SyncService drives data sources through a bounded synchronization cycle
type SyncService interface {
	// StartAll optimistically marks every tracked source as syncing, triggers
	// the upstream batch sync and starts the status poll loop. A non-empty
	// sources list replaces the tracked set for this cycle; an empty list
	// uses the configured defaults. Returns an error when a cycle is
	// already active.
	StartAll(ctx context.Context, sources []string, marketDomain, syncType string) error
	// Snapshot returns a copy of the current cycle state
	Snapshot() models.SyncSnapshot
	// Cancel aborts an active cycle, marking non-terminal sources as error
	Cancel()
	// Active reports whether a sync cycle is in progress
	Active() bool
}
