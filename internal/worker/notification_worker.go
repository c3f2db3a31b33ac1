package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/lifeshare/lifeshare-api/internal/events"
	"github.com/lifeshare/lifeshare-api/internal/service"
)

const defaultQueueSize = 256

// QueuedDispatcher moves event delivery off the request path. Publish only
// enqueues; Run hands events to the wrapped dispatcher one at a time.
type QueuedDispatcher struct {
	inner  events.Dispatcher
	queue  chan queuedEvent
	logger *zap.Logger
	wg     sync.WaitGroup
}

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// NewQueuedDispatcher wraps inner with a bounded queue.
func NewQueuedDispatcher(inner events.Dispatcher, logger *zap.Logger, size int) *QueuedDispatcher {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &QueuedDispatcher{
		inner:  inner,
		queue:  make(chan queuedEvent, size),
		logger: logger,
	}
}

// Publish enqueues the event. A full queue drops it with a warning; the write
// that produced it has already succeeded.
func (d *QueuedDispatcher) Publish(ctx context.Context, event events.Event) error {
	select {
	case d.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		d.logger.Warn("notification queue full; dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("resource_id", event.ResourceID))
	}
	return nil
}

// Subscribe registers handler on the wrapped dispatcher.
func (d *QueuedDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.inner.Subscribe(eventType, handler)
}

// Start runs the queue in a background goroutine that Wait tracks.
func (d *QueuedDispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.Run(ctx)
	}()
}

// Run drains the queue until ctx is done, then flushes what is left.
func (d *QueuedDispatcher) Run(ctx context.Context) {
	for {
		select {
		case item := <-d.queue:
			d.deliver(item)
		case <-ctx.Done():
			for {
				select {
				case item := <-d.queue:
					d.deliver(item)
				default:
					return
				}
			}
		}
	}
}

// Wait blocks until the goroutine launched by Start has flushed and returned.
func (d *QueuedDispatcher) Wait() {
	d.wg.Wait()
}

func (d *QueuedDispatcher) deliver(item queuedEvent) {
	if err := d.inner.Publish(item.ctx, item.event); err != nil {
		d.logger.Error("notification handler failed",
			zap.String("event_type", string(item.event.Type)),
			zap.String("resource_id", item.event.ResourceID),
			zap.Error(err))
	}
}

// StartNotificationWorker registers notification handlers and starts draining
// the queue in the background.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, queue *QueuedDispatcher) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if queue != nil {
		queue.Start(ctx)
	}
}
