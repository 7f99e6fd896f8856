package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nagardrishti/complaint-service/internal/config"
	"github.com/nagardrishti/complaint-service/internal/events"
	"github.com/nagardrishti/complaint-service/internal/service"
)

func TestNotificationWorkerDeliversWebhook(t *testing.T) {
	var (
		mu       sync.Mutex
		received []events.Event
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev events.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err == nil {
			mu.Lock()
			received = append(received, ev)
			mu.Unlock()
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher(logger)
	w := NewNotificationWorker(4, logger)
	StartNotificationWorker(service.NewNotificationService(dispatcher, logger, config.NotificationConfig{WebhookURL: srv.URL}), w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{ID: "ev-1", Type: events.EventComplaintSubmitted, ComplaintID: 7}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "ev-1", received[0].ID)
	assert.Equal(t, int64(7), received[0].ComplaintID)
}

func TestNotificationWorkerQueueFull(t *testing.T) {
	w := NewNotificationWorker(1, zap.NewNop())
	handler := w.Wrap(func(context.Context, events.Event) error { return nil })

	require.NoError(t, handler(context.Background(), events.Event{Type: events.EventComplaintSynced}))
	assert.Error(t, handler(context.Background(), events.Event{Type: events.EventComplaintSynced}))
}

func TestNotificationWorkerFlushesOnShutdown(t *testing.T) {
	w := NewNotificationWorker(3, zap.NewNop())
	var calls int
	handler := w.Wrap(func(context.Context, events.Event) error {
		calls++
		return nil
	})
	for i := 0; i < 3; i++ {
		require.NoError(t, handler(context.Background(), events.Event{Type: events.EventComplaintResolved}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
	assert.Equal(t, 3, calls)
}
