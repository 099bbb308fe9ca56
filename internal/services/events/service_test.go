package events

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
)

func TestService_SubscribeNilHandler(t *testing.T) {
	svc := NewService(common.GetLogger())

	err := svc.Subscribe(interfaces.EventSyncProgress, nil)
	require.Error(t, err)
}

func TestService_PublishSyncDeliversToAllSubscribers(t *testing.T) {
	svc := NewService(common.GetLogger())

	var mu sync.Mutex
	var received []string

	for _, name := range []string{"first", "second"} {
		name := name
		require.NoError(t, svc.Subscribe(interfaces.EventSyncCompleted, func(ctx context.Context, event interfaces.Event) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, name)
			return nil
		}))
	}

	err := svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventSyncCompleted, Payload: "done"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, received, 2)
}

func TestService_PublishSyncPropagatesHandlerError(t *testing.T) {
	svc := NewService(common.GetLogger())

	require.NoError(t, svc.Subscribe(interfaces.EventSyncError, func(ctx context.Context, event interfaces.Event) error {
		return fmt.Errorf("handler broke")
	}))

	err := svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventSyncError})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler broke")
}

func TestService_PublishIsAsynchronous(t *testing.T) {
	svc := NewService(common.GetLogger())

	done := make(chan interfaces.Event, 1)
	require.NoError(t, svc.Subscribe(interfaces.EventSyncProgress, func(ctx context.Context, event interfaces.Event) error {
		done <- event
		return nil
	}))

	require.NoError(t, svc.Publish(context.Background(), interfaces.Event{
		Type:    interfaces.EventSyncProgress,
		Payload: map[string]int{"progress": 40},
	}))

	select {
	case event := <-done:
		assert.Equal(t, interfaces.EventSyncProgress, event.Type)
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}
}

func TestService_PublishWithoutSubscribers(t *testing.T) {
	svc := NewService(common.GetLogger())

	require.NoError(t, svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventStatusChanged}))
	require.NoError(t, svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventStatusChanged}))
}

func TestService_EventsRoutedByType(t *testing.T) {
	svc := NewService(common.GetLogger())

	var progressCalls int
	var mu sync.Mutex
	require.NoError(t, svc.Subscribe(interfaces.EventSyncProgress, func(ctx context.Context, event interfaces.Event) error {
		mu.Lock()
		defer mu.Unlock()
		progressCalls++
		return nil
	}))

	require.NoError(t, svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventSyncCompleted}))
	require.NoError(t, svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventSyncProgress}))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, progressCalls)
}
