// Package scheduler triggers background sync cycles on a cron schedule.
// Disabled by default; the dashboard's manual sync button remains the
// primary trigger.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
)

// Service runs scheduled sync cycles
type Service struct {
	cron    *cron.Cron
	config  *common.Config
	syncSvc interfaces.SyncService
	logger  arbor.ILogger
}

// NewService creates a scheduler service
func NewService(config *common.Config, syncSvc interfaces.SyncService, logger arbor.ILogger) *Service {
	return &Service{
		cron:    cron.New(),
		config:  config,
		syncSvc: syncSvc,
		logger:  logger,
	}
}

// Start registers the configured schedule and starts the cron runner.
// A no-op when the scheduler is disabled.
func (s *Service) Start() error {
	if !s.config.Scheduler.Enabled {
		s.logger.Debug().Msg("Scheduler disabled")
		return nil
	}

	schedule := s.config.Scheduler.Schedule
	if err := common.ValidateSchedule(schedule); err != nil {
		return err
	}

	_, err := s.cron.AddFunc(schedule, s.runScheduledSync)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", schedule).Msg("Background sync scheduler started")
	return nil
}

// Stop stops the cron runner, waiting for a running job to finish
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Service) runScheduledSync() {
	if s.syncSvc.Active() {
		s.logger.Debug().Msg("Skipping scheduled sync, cycle already active")
		return
	}

	err := s.syncSvc.StartAll(context.Background(), nil, s.config.Sync.MarketDomain, s.config.Sync.SyncType)
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled sync failed to start")
		return
	}

	s.logger.Info().Msg("Scheduled sync started")
}
