package interfaces

import "context"

// EventType represents the type of an application event
type EventType string

const (
	// EventSyncProgress is published on every poller status change
	EventSyncProgress EventType = "sync_progress"
	// EventSyncCompleted is published when a sync cycle reaches idle with all sources terminal
	EventSyncCompleted EventType = "sync_completed"
	// EventSyncError is published when a trigger or poll call fails
	EventSyncError EventType = "sync_error"
	// EventStatusChanged is published when the global application state changes
	EventStatusChanged EventType = "status_changed"
)

// Event is an application event with an arbitrary payload
type Event struct {
	Type    EventType
	Payload interface{}
}

// EventHandler processes a published event
type EventHandler func(ctx context.Context, event Event) error

// EventService provides in-process publish/subscribe for application events
type EventService interface {
	// Subscribe registers a handler for an event type
	Subscribe(eventType EventType, handler EventHandler) error
	// Publish sends an event to all subscribers asynchronously
	Publish(ctx context.Context, event Event) error
	// PublishSync sends an event to all subscribers and waits for completion
	PublishSync(ctx context.Context, event Event) error
}
