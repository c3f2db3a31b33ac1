package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lifeshare/lifeshare-api/internal/config"
	"github.com/lifeshare/lifeshare-api/internal/events"
	"github.com/lifeshare/lifeshare-api/internal/service"
)

func TestQueuedDispatcherDeliversInOrder(t *testing.T) {
	inner := events.NewInMemoryDispatcher()
	queue := NewQueuedDispatcher(inner, zap.NewNop(), 8)

	got := make(chan string, 3)
	queue.Subscribe(events.EventDonationRequestCreated, func(_ context.Context, e events.Event) error {
		got <- e.ResourceID
		return nil
	})

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, queue.Publish(context.Background(), events.Event{Type: events.EventDonationRequestCreated, ResourceID: id}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	queue.Start(ctx)

	for _, want := range []string{"a", "b", "c"} {
		select {
		case id := <-got:
			assert.Equal(t, want, id)
		case <-time.After(time.Second):
			t.Fatalf("event %s not delivered", want)
		}
	}
	cancel()
	queue.Wait()
}

func TestQueuedDispatcherDropsWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	queue := NewQueuedDispatcher(events.NewInMemoryDispatcher(), zap.New(core), 1)

	require.NoError(t, queue.Publish(context.Background(), events.Event{Type: events.EventBlogPublished}))
	require.NoError(t, queue.Publish(context.Background(), events.Event{Type: events.EventBlogPublished}))

	assert.Equal(t, 1, logs.FilterMessage("notification queue full; dropping event").Len())
}

func TestQueuedDispatcherFlushesOnShutdown(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	inner := events.NewInMemoryDispatcher()
	queue := NewQueuedDispatcher(inner, zap.New(core), 4)
	queue.Subscribe(events.EventUserRoleChanged, func(context.Context, events.Event) error {
		return errors.New("smtp down")
	})

	require.NoError(t, queue.Publish(context.Background(), events.Event{Type: events.EventUserRoleChanged, ResourceID: "u1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	queue.Run(ctx)

	assert.Equal(t, 1, logs.FilterMessage("notification handler failed").Len())
}

func TestStartNotificationWorkerSubscribesHandlers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	inner := events.NewInMemoryDispatcher()
	queue := NewQueuedDispatcher(inner, zap.NewNop(), 4)
	svc := service.NewNotificationService(queue, zap.New(core), config.NotificationConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	StartNotificationWorker(ctx, svc, queue)
	require.NoError(t, queue.Publish(context.Background(), events.Event{Type: events.EventBlogPublished, ResourceID: "b1"}))

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("BlogStatusChanged").Len() == 1
	}, time.Second, 10*time.Millisecond)
	cancel()
	queue.Wait()
}

func TestWaitFlushesEventsQueuedBeforeShutdown(t *testing.T) {
	inner := events.NewInMemoryDispatcher()
	queue := NewQueuedDispatcher(inner, zap.NewNop(), 8)

	var delivered []string
	queue.Subscribe(events.EventUserStatusChanged, func(_ context.Context, e events.Event) error {
		delivered = append(delivered, e.ResourceID)
		return nil
	})
	for _, id := range []string{"u1", "u2"} {
		require.NoError(t, queue.Publish(context.Background(), events.Event{Type: events.EventUserStatusChanged, ResourceID: id}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	queue.Start(ctx)
	cancel()
	queue.Wait()

	assert.Equal(t, []string{"u1", "u2"}, delivered)
}
