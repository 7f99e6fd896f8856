package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nagardrishti/complaint-service/internal/events"
	"github.com/nagardrishti/complaint-service/internal/service"
)

const defaultDeliveryTimeout = 10 * time.Second

type delivery struct {
	handler events.EventHandler
	event   events.Event
}

// NotificationWorker runs notification handlers off the request path so a slow
// webhook never delays a citizen's redirect.
type NotificationWorker struct {
	queue   chan delivery
	timeout time.Duration
	logger  *zap.Logger
}

// NewNotificationWorker creates a worker with a queue of the given size.
func NewNotificationWorker(buffer int, logger *zap.Logger) *NotificationWorker {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		queue:   make(chan delivery, buffer),
		timeout: defaultDeliveryTimeout,
		logger:  logger,
	}
}

// Wrap returns a handler that queues the event for h. A full queue drops the
// event and reports it to the dispatcher.
func (w *NotificationWorker) Wrap(h events.EventHandler) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		select {
		case w.queue <- delivery{handler: h, event: event}:
			return nil
		default:
			return fmt.Errorf("notification queue full, dropped %s", event.Type)
		}
	}
}

// Run delivers queued events until ctx is cancelled, then flushes what is
// already queued.
func (w *NotificationWorker) Run(ctx context.Context) error {
	for {
		select {
		case d := <-w.queue:
			w.deliver(d)
		case <-ctx.Done():
			w.flush()
			return nil
		}
	}
}

func (w *NotificationWorker) flush() {
	for {
		select {
		case d := <-w.queue:
			w.deliver(d)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(d delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := d.handler(ctx, d.event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("event_type", string(d.event.Type)),
			zap.String("event_id", d.event.ID),
			zap.Error(err))
	}
}

// StartNotificationWorker registers notification handlers through w. A nil
// worker leaves them synchronous.
func StartNotificationWorker(notificationService *service.NotificationService, w *NotificationWorker) {
	if notificationService == nil {
		return
	}
	if w == nil {
		notificationService.RegisterHandlers(nil)
		return
	}
	notificationService.RegisterHandlers(w.Wrap)
}
