package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/nagardrishti/complaint-service/internal/config"
	"github.com/nagardrishti/complaint-service/internal/events"
)

// NotificationService logs domain events and forwards them to an optional webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	webhook    *resty.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		webhook: resty.New().
			SetTimeout(5*time.Second).
			SetHeader("Content-Type", "application/json"),
	}
}

// RegisterHandlers subscribes to events. Each handler is passed through wrap
// when it is non-nil.
func (n *NotificationService) RegisterHandlers(wrap func(events.EventHandler) events.EventHandler) {
	if n.dispatcher == nil {
		return
	}
	if wrap == nil {
		wrap = func(h events.EventHandler) events.EventHandler { return h }
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, wrap(n.handleUserRegistered))
	n.dispatcher.Subscribe(events.EventComplaintSubmitted, wrap(n.handleComplaintSubmitted))
	n.dispatcher.Subscribe(events.EventComplaintFlagged, wrap(n.handleComplaintFlagged))
	n.dispatcher.Subscribe(events.EventComplaintSynced, wrap(n.handleSyncOutcome))
	n.dispatcher.Subscribe(events.EventComplaintSyncFailed, wrap(n.handleSyncOutcome))
	n.dispatcher.Subscribe(events.EventComplaintResolved, wrap(n.handleComplaintResolved))
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.Int64("user_id", event.UserID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleComplaintSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintSubmitted", zap.Int64("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleComplaintFlagged(ctx context.Context, event events.Event) error {
	n.logger.Warn("ComplaintFlagged", zap.Int64("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleSyncOutcome(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.Int64("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleComplaintResolved(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintResolved", zap.Int64("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	resp, err := n.webhook.R().
		SetContext(ctx).
		SetBody(event).
		Post(url)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", event.Type, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook %s: status %d", event.Type, resp.StatusCode())
	}
	n.logger.Debug("webhook delivered",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID))
	return nil
}
