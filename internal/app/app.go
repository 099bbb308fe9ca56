// Package app wires configuration, storage, services and handlers into a
// running application.
package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/agent"
	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/handlers"
	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/services/events"
	"github.com/marketlens/marketlens/internal/services/kv"
	"github.com/marketlens/marketlens/internal/services/scheduler"
	"github.com/marketlens/marketlens/internal/services/session"
	syncsvc "github.com/marketlens/marketlens/internal/services/sync"
	"github.com/marketlens/marketlens/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB        *badger.BadgerDB
	KVStorage interfaces.KeyValueStorage

	// Services
	EventService     interfaces.EventService
	AgentClient      interfaces.AgentClient
	SyncService      interfaces.SyncService
	SessionService   interfaces.SessionService
	KVService        *kv.Service
	SchedulerService *scheduler.Service

	// HTTP handlers
	APIHandler        *handlers.APIHandler
	SyncHandler       *handlers.SyncHandler
	AgentHandler      *handlers.AgentHandler
	KPIHandler        *handlers.KPIHandler
	MarketHandler     *handlers.MarketHandler
	ChatHandler       *handlers.ChatHandler
	AnalysisHandler   *handlers.AnalysisHandler
	DataSourceHandler *handlers.DataSourceHandler
	FilesHandler      *handlers.FilesHandler
	SettingsHandler   *handlers.SettingsHandler
	SessionHandler    *handlers.SessionHandler
	WSHandler         *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	if err := app.SchedulerService.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info().
		Str("upstream", cfg.Upstream.BaseURL).
		Bool("auth_configured", app.SessionService.IsConfigured()).
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes the Badger-backed settings store
func (a *App) initStorage() error {
	db, err := badger.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.DB = db
	a.KVStorage = badger.NewKVStorage(db, a.Logger)

	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	a.EventService = events.NewService(a.Logger)

	a.KVService = kv.NewService(a.KVStorage, &a.Config.APIKeys, a.Logger)

	a.AgentClient = agent.New(&a.Config.Upstream, a.Logger)

	// Stored keys are resolved at trigger time so settings-page updates
	// take effect without a restart.
	a.SyncService = syncsvc.NewPoller(
		&a.Config.Sync,
		a.AgentClient,
		a.EventService,
		a.KVService.ResolveKeys,
		a.Logger,
	)

	provider := session.NewProvider(&a.Config.Auth, a.Logger)
	a.SessionService = session.NewService(&a.Config.Auth, provider, a.Logger)

	a.SchedulerService = scheduler.NewService(a.Config, a.SyncService, a.Logger)

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.AgentClient, a.Logger)
	a.SyncHandler = handlers.NewSyncHandler(a.SyncService, &a.Config.Sync, a.Logger)
	a.AgentHandler = handlers.NewAgentHandler(a.AgentClient, a.Logger)
	a.KPIHandler = handlers.NewKPIHandler(a.AgentClient, a.Logger)
	a.MarketHandler = handlers.NewMarketHandler(a.AgentClient, a.Logger)
	a.ChatHandler = handlers.NewChatHandler(a.AgentClient, a.Logger)
	a.AnalysisHandler = handlers.NewAnalysisHandler(a.AgentClient, a.Logger)
	a.DataSourceHandler = handlers.NewDataSourceHandler(a.AgentClient, a.Logger)
	a.FilesHandler = handlers.NewFilesHandler(a.AgentClient, a.Logger)
	a.SettingsHandler = handlers.NewSettingsHandler(a.KVService, a.AgentClient, a.Logger)
	a.SessionHandler = handlers.NewSessionHandler(a.SessionService, a.Logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, a.SyncService, &a.Config.WebSocket, a.Logger)
}

// Close shuts down background services and releases resources
func (a *App) Close() error {
	a.SyncService.Cancel()
	a.SchedulerService.Stop()

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close database")
			return err
		}
	}

	a.Logger.Info().Msg("Application shut down")
	return nil
}
