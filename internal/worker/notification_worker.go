package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/service"
)

const defaultQueueSize = 64

// Deliverer sends a single event to its destination.
type Deliverer interface {
	Deliver(ctx context.Context, event events.Event) error
}

// NotificationWorker delivers queued events on a single goroutine.
type NotificationWorker struct {
	deliverer Deliverer
	logger    *zap.Logger
	queue     chan events.Event

	mu     sync.RWMutex
	closed bool
	once   sync.Once
	wg     sync.WaitGroup
}

// NewNotificationWorker creates a worker with a queue of size events.
func NewNotificationWorker(deliverer Deliverer, size int, logger *zap.Logger) *NotificationWorker {
	if size <= 0 {
		size = defaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		deliverer: deliverer,
		logger:    logger,
		queue:     make(chan events.Event, size),
	}
}

// Start launches the delivery loop. Cancelling ctx does not abort queued
// deliveries; call Stop to drain and wait.
func (w *NotificationWorker) Start(ctx context.Context) {
	deliverCtx := context.WithoutCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for event := range w.queue {
			if err := w.deliverer.Deliver(deliverCtx, event); err != nil {
				w.logger.Warn("notification delivery failed",
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}
	}()
}

// Enqueue adds event without blocking. It returns false when the queue is
// full or the worker is stopped.
func (w *NotificationWorker) Enqueue(event events.Event) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false
	}
	select {
	case w.queue <- event:
		return true
	default:
		return false
	}
}

// Stop closes the queue and waits for queued events to be delivered.
func (w *NotificationWorker) Stop() {
	if w == nil {
		return
	}
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.queue)
		w.mu.Unlock()
	})
	w.wg.Wait()
}

// StartNotificationWorker registers notification handlers and, when a
// webhook is configured, starts the delivery worker. The returned worker is
// nil when webhooks are disabled.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, cfg config.NotificationConfig, logger *zap.Logger) *NotificationWorker {
	if notificationService == nil {
		return nil
	}
	if !notificationService.WebhookEnabled() {
		notificationService.RegisterHandlers(nil)
		return nil
	}
	w := NewNotificationWorker(notificationService, cfg.QueueSize, logger)
	w.Start(ctx)
	notificationService.RegisterHandlers(w)
	return w
}
