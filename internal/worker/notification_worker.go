package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/events"
)

// Notifier handles events off the request path.
type Notifier interface {
	EventTypes() []events.EventType
	Handle(ctx context.Context, event events.Event) error
}

// NotificationWorker drains queued events into a Notifier on its own goroutine.
// Events published while the queue is full are dropped and logged.
type NotificationWorker struct {
	notifier Notifier
	logger   *zap.Logger
	queue    chan events.Event

	mu      sync.Mutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// NewNotificationWorker builds a worker with the given queue capacity.
func NewNotificationWorker(notifier Notifier, logger *zap.Logger, capacity int) *NotificationWorker {
	if capacity <= 0 {
		capacity = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, capacity),
	}
}

// Start subscribes to the dispatcher and begins draining. It is a no-op after the first call.
func (w *NotificationWorker) Start(ctx context.Context, dispatcher events.Dispatcher) {
	if w == nil || w.notifier == nil || dispatcher == nil {
		return
	}
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	for _, eventType := range w.notifier.EventTypes() {
		dispatcher.Subscribe(eventType, w.enqueue)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for event := range w.queue {
			if err := w.notifier.Handle(context.WithoutCancel(ctx), event); err != nil {
				w.logger.Warn("notification failed",
					zap.String("event_type", string(event.Type)),
					zap.String("issue_id", event.IssueID),
					zap.Error(err))
			}
		}
	}()
}

// Stop closes the queue and waits for queued events to be handled.
func (w *NotificationWorker) Stop() {
	if w == nil {
		return
	}
	w.mu.Lock()
	if !w.started || w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.queue)
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("issue_id", event.IssueID))
	}
	return nil
}
