// Package sync implements the data source synchronization cycle: an
// optimistic trigger against the upstream agent followed by fixed-interval
// status polling until every tracked source reaches a terminal state.
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
)

// syncAPI is the slice of the agent client the poller needs
type syncAPI interface {
	TriggerSync(ctx context.Context, req *models.SyncTriggerRequest) error
	SyncStatus(ctx context.Context) (*models.SyncStatusReport, error)
}

// KeyResolver supplies the API key bag forwarded in trigger payloads.
// Resolved at trigger time so stored settings keys take effect without a
// restart.
type KeyResolver func(ctx context.Context) map[string]string

// Poller drives tracked data sources through a bounded sync cycle.
//
// Per-source states: pending -> syncing -> {completed | error}, with
// "unknown" as a defensive catch-all for unrecognized upstream strings.
// The global cycle is idle or active; it returns to idle exactly when no
// source remains pending or syncing.
type Poller struct {
	agent    syncAPI
	events   interfaces.EventService
	logger   arbor.ILogger
	keys     KeyResolver
	interval time.Duration
	// maxMissed bounds consecutive failed polls before the cycle aborts,
	// so an unreachable upstream cannot leave the timer running forever.
	maxMissed int

	defaults []string

	mu        sync.Mutex
	state     models.SyncState
	sources   map[string]*models.SyncSourceState
	order     []string
	startedAt *time.Time
	cancel    context.CancelFunc
	inFlight  bool
	missed    int
}

// NewPoller creates a poller tracking the configured source identifiers
func NewPoller(cfg *common.SyncConfig, agentClient syncAPI, eventService interfaces.EventService, keys KeyResolver, logger arbor.ILogger) *Poller {
	maxMissed := cfg.MaxMissedPolls
	if maxMissed <= 0 {
		maxMissed = 3
	}

	p := &Poller{
		agent:     agentClient,
		events:    eventService,
		logger:    logger,
		keys:      keys,
		interval:  common.ParseDurationOr(cfg.PollInterval, 5*time.Second),
		maxMissed: maxMissed,
		defaults:  append([]string(nil), cfg.Sources...),
		state:     models.SyncIdle,
		sources:   make(map[string]*models.SyncSourceState),
	}

	p.trackLocked(p.defaults)

	return p
}

// trackLocked replaces the tracked source set. Caller must hold p.mu (or
// own the poller exclusively, as in the constructor).
func (p *Poller) trackLocked(ids []string) {
	p.sources = make(map[string]*models.SyncSourceState, len(ids))
	p.order = p.order[:0]
	for _, id := range ids {
		if _, exists := p.sources[id]; exists {
			continue
		}
		p.sources[id] = &models.SyncSourceState{
			SourceID:   id,
			SourceName: id,
			Status:     models.SourcePending,
			Progress:   0,
			LastUpdate: models.NeverSynced,
		}
		p.order = append(p.order, id)
	}
}

// StartAll optimistically marks every tracked source as syncing, sends the
// trigger request upstream and starts the poll loop. The optimistic update
// happens synchronously; the trigger and polling run in the background.
func (p *Poller) StartAll(ctx context.Context, sources []string, marketDomain, syncType string) error {
	p.mu.Lock()
	if p.state == models.SyncActive {
		p.mu.Unlock()
		return fmt.Errorf("sync already in progress")
	}

	if len(sources) > 0 {
		p.trackLocked(sources)
	} else if len(p.order) == 0 {
		p.trackLocked(p.defaults)
	}
	if len(p.order) == 0 {
		p.mu.Unlock()
		return fmt.Errorf("no data sources configured")
	}

	now := time.Now()
	p.state = models.SyncActive
	p.startedAt = &now
	p.missed = 0
	for _, id := range p.order {
		src := p.sources[id]
		src.Status = models.SourceSyncing
		src.Progress = 10
		src.Message = "Sync started"
	}

	pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	trigger := &models.SyncTriggerRequest{
		Sources:      append([]string(nil), p.order...),
		MarketDomain: marketDomain,
		SyncType:     syncType,
		Timestamp:    now.UTC().Format(time.RFC3339),
	}
	p.mu.Unlock()

	p.publishProgress(pollCtx)

	go p.trigger(pollCtx, trigger)
	go p.loop(pollCtx)

	p.logger.Info().
		Int("sources", len(trigger.Sources)).
		Str("market_domain", marketDomain).
		Str("sync_type", syncType).
		Msg("Sync cycle started")

	return nil
}

// trigger sends the upstream trigger request; a failure reverts every
// optimistically-syncing source to error and ends the cycle.
func (p *Poller) trigger(ctx context.Context, req *models.SyncTriggerRequest) {
	if p.keys != nil {
		req.APIKeys = p.keys(ctx)
	}

	if err := p.agent.TriggerSync(ctx, req); err != nil {
		p.logger.Error().Err(err).Msg("Failed to trigger upstream sync")

		p.mu.Lock()
		for _, id := range p.order {
			src := p.sources[id]
			if src.Status == models.SourceSyncing {
				src.Status = models.SourceError
				src.Progress = 0
				src.Message = "failed to start sync"
			}
		}
		p.finishLocked()
		p.mu.Unlock()

		p.events.Publish(ctx, interfaces.Event{
			Type:    interfaces.EventSyncError,
			Payload: map[string]interface{}{"error": err.Error(), "stage": "trigger"},
		})
		p.publishProgress(ctx)
	}
}

// loop polls the upstream status endpoint on a fixed interval until the
// cycle ends or the context is cancelled
func (p *Poller) loop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce fetches upstream status and applies it. A tick arriving while a
// previous poll is still in flight is skipped so a slow response can never
// overwrite a newer one out of order.
func (p *Poller) pollOnce(ctx context.Context) {
	p.mu.Lock()
	if p.inFlight || p.state != models.SyncActive {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	report, err := p.agent.SyncStatus(ctx)
	if err != nil {
		p.handleMissedPoll(ctx, err)
		return
	}

	p.applyReport(ctx, report)
}

// applyReport replaces the state of every source the upstream reports on.
// Sources absent from the response retain their last known local state.
func (p *Poller) applyReport(ctx context.Context, report *models.SyncStatusReport) {
	p.mu.Lock()
	p.missed = 0

	for _, entry := range report.Statuses {
		incoming := entry.State()
		src, tracked := p.sources[incoming.SourceID]
		if !tracked {
			p.logger.Debug().Str("source", incoming.SourceID).Msg("Ignoring status for untracked source")
			continue
		}
		src.Status = incoming.Status
		src.Progress = incoming.Progress
		src.Message = incoming.Message
		src.LastUpdate = incoming.LastUpdate
	}

	done := p.allTerminalLocked()
	if done {
		p.finishLocked()
	}
	p.mu.Unlock()

	p.publishProgress(ctx)

	if done {
		p.logger.Info().Msg("Sync cycle completed")
		p.events.Publish(ctx, interfaces.Event{
			Type:    interfaces.EventSyncCompleted,
			Payload: p.Snapshot(),
		})
	}
}

// handleMissedPoll leaves source state untouched (stale but never blanked)
// and aborts the cycle after maxMissed consecutive failures.
func (p *Poller) handleMissedPoll(ctx context.Context, err error) {
	p.mu.Lock()
	p.missed++
	missed := p.missed
	aborted := false

	if missed >= p.maxMissed {
		for _, id := range p.order {
			src := p.sources[id]
			if !src.Status.Terminal() {
				src.Status = models.SourceError
				src.Message = "sync status unavailable"
			}
		}
		p.finishLocked()
		aborted = true
	}
	p.mu.Unlock()

	p.logger.Warn().
		Err(err).
		Int("missed", missed).
		Int("max_missed", p.maxMissed).
		Msg("Sync status poll failed")

	p.events.Publish(ctx, interfaces.Event{
		Type:    interfaces.EventSyncError,
		Payload: map[string]interface{}{"error": err.Error(), "stage": "poll", "missed": missed},
	})

	if aborted {
		p.logger.Error().Msg("Sync cycle aborted after repeated poll failures")
		p.publishProgress(ctx)
	}
}

// Cancel aborts an active cycle, marking non-terminal sources as error
func (p *Poller) Cancel() {
	p.mu.Lock()
	if p.state != models.SyncActive {
		p.mu.Unlock()
		return
	}
	for _, id := range p.order {
		src := p.sources[id]
		if !src.Status.Terminal() {
			src.Status = models.SourceError
			src.Message = "sync cancelled"
		}
	}
	p.finishLocked()
	p.mu.Unlock()

	p.logger.Info().Msg("Sync cycle cancelled")
	p.publishProgress(context.Background())
}

// Active reports whether a sync cycle is in progress
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == models.SyncActive
}

// Snapshot returns a deep copy of the current cycle state
func (p *Poller) Snapshot() models.SyncSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := models.SyncSnapshot{
		State:   p.state,
		Sources: make([]models.SyncSourceState, 0, len(p.order)),
	}
	if p.startedAt != nil {
		started := *p.startedAt
		snapshot.StartedAt = &started
	}
	for _, id := range p.order {
		snapshot.Sources = append(snapshot.Sources, *p.sources[id])
	}
	return snapshot
}

// allTerminalLocked reports whether no source remains pending or syncing.
// Caller must hold p.mu.
func (p *Poller) allTerminalLocked() bool {
	for _, id := range p.order {
		status := p.sources[id].Status
		if status == models.SourcePending || status == models.SourceSyncing {
			return false
		}
	}
	return true
}

// finishLocked ends the cycle and stops the poll loop. Caller must hold p.mu.
func (p *Poller) finishLocked() {
	p.state = models.SyncIdle
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// publishProgress broadcasts the current snapshot to event subscribers
func (p *Poller) publishProgress(ctx context.Context) {
	p.events.Publish(ctx, interfaces.Event{
		Type:    interfaces.EventSyncProgress,
		Payload: p.Snapshot(),
	})
}
