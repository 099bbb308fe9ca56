package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WSMessage is the envelope for every message pushed to clients
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocketHandler pushes sync progress and status events to connected
// dashboard clients. Per-connection write mutexes serialize writes since
// gorilla/websocket allows only one concurrent writer.
type WebSocketHandler struct {
	logger            arbor.ILogger
	syncService       interfaces.SyncService
	eventService      interfaces.EventService
	clients           map[*websocket.Conn]bool
	clientMutex       map[*websocket.Conn]*sync.Mutex
	mu                sync.RWMutex
	progressThrottler *rate.Limiter // Rate limiter for sync_progress events
	serverInstanceID  string        // Unique ID per startup - clients reset state on change
}

// NewWebSocketHandler creates a WebSocket handler and subscribes it to sync events
func NewWebSocketHandler(eventService interfaces.EventService, syncService interfaces.SyncService, config *common.WebSocketConfig, logger arbor.ILogger) *WebSocketHandler {
	h := &WebSocketHandler{
		logger:           logger,
		syncService:      syncService,
		eventService:     eventService,
		clients:          make(map[*websocket.Conn]bool),
		clientMutex:      make(map[*websocket.Conn]*sync.Mutex),
		serverInstanceID: uuid.New().String(),
	}

	logger.Info().Str("server_instance_id", h.serverInstanceID).Msg("WebSocket handler initialized")

	// Throttle sync_progress only when configured; completion and error
	// events are never throttled.
	if config != nil && config.ProgressThrottle != "" {
		if duration, err := time.ParseDuration(config.ProgressThrottle); err == nil {
			h.progressThrottler = rate.NewLimiter(rate.Every(duration), 1)
			logger.Debug().
				Str("interval", config.ProgressThrottle).
				Msg("Throttler initialized for sync_progress events")
		} else {
			logger.Warn().
				Err(err).
				Str("interval", config.ProgressThrottle).
				Msg("Failed to parse progress throttle interval - throttler disabled")
		}
	}

	if eventService != nil {
		h.subscribeToSyncEvents()
	}

	return h
}

// HandleWebSocket handles WebSocket connections at /ws
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = &sync.Mutex{}
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Msgf("WebSocket client connected (total: %d)", clientCount)

	h.sendSnapshot(conn)

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		delete(h.clientMutex, conn)
		remaining := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.Debug().Msgf("WebSocket client disconnected (remaining: %d)", remaining)
	}()

	// Read loop keeps the connection alive and detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			break
		}
	}
}

// sendSnapshot sends the current sync snapshot to a newly connected client
func (h *WebSocketHandler) sendSnapshot(conn *websocket.Conn) {
	payload := map[string]interface{}{
		"serverInstanceId": h.serverInstanceID,
	}
	if h.syncService != nil {
		payload["sync"] = h.syncService.Snapshot()
	}

	msg := WSMessage{
		Type:    "snapshot",
		Payload: payload,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal snapshot message")
		return
	}

	h.mu.RLock()
	mutex := h.clientMutex[conn]
	h.mu.RUnlock()

	if mutex != nil {
		mutex.Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		mutex.Unlock()

		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to send snapshot")
		}
	}
}

// broadcast sends a message to every connected client
func (h *WebSocketHandler) broadcast(msgType string, payload interface{}) {
	msg := WSMessage{
		Type:    msgType,
		Payload: payload,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msgType).Msg("Failed to marshal broadcast message")
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
		mutexes = append(mutexes, h.clientMutex[conn])
	}
	h.mu.RUnlock()

	for i, conn := range clients {
		mutex := mutexes[i]
		mutex.Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		mutex.Unlock()

		if err != nil {
			h.logger.Warn().Err(err).Str("type", msgType).Msg("Failed to send message to client")
		}
	}
}

// subscribeToSyncEvents wires poller events through to connected clients
func (h *WebSocketHandler) subscribeToSyncEvents() {
	h.eventService.Subscribe(interfaces.EventSyncProgress, func(ctx context.Context, event interfaces.Event) error {
		// Throttle high-frequency progress updates; a dropped frame is
		// replaced by the next poll anyway.
		if h.progressThrottler != nil && !h.progressThrottler.Allow() {
			return nil
		}
		h.broadcast("sync_progress", event.Payload)
		return nil
	})

	h.eventService.Subscribe(interfaces.EventSyncCompleted, func(ctx context.Context, event interfaces.Event) error {
		h.broadcast("sync_completed", event.Payload)
		return nil
	})

	h.eventService.Subscribe(interfaces.EventSyncError, func(ctx context.Context, event interfaces.Event) error {
		h.broadcast("sync_error", event.Payload)
		return nil
	})

	h.eventService.Subscribe(interfaces.EventStatusChanged, func(ctx context.Context, event interfaces.Event) error {
		h.broadcast("status_changed", event.Payload)
		return nil
	})
}
