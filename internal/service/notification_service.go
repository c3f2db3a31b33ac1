package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lifeshare/lifeshare-api/internal/config"
	"github.com/lifeshare/lifeshare-api/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDonationRequestCreated, n.handleDonationRequestCreated)
	n.dispatcher.Subscribe(events.EventDonationStatusChanged, n.handleDonationStatusChanged)
	n.dispatcher.Subscribe(events.EventBlogPublished, n.handleBlogStatusChanged)
	n.dispatcher.Subscribe(events.EventBlogUnpublished, n.handleBlogStatusChanged)
	n.dispatcher.Subscribe(events.EventUserRoleChanged, n.handleAccountChanged)
	n.dispatcher.Subscribe(events.EventUserStatusChanged, n.handleAccountChanged)
}

func (n *NotificationService) handleDonationRequestCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("DonationRequestCreated", zap.String("request_id", event.ResourceID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDonationStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("DonationStatusChanged", zap.String("request_id", event.ResourceID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleBlogStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("BlogStatusChanged", zap.String("blog_id", event.ResourceID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAccountChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AccountChanged",
		zap.String("user_id", event.ResourceID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("resource_id", event.ResourceID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("resource_id", event.ResourceID),
		zap.String("event_type", string(event.Type)))
}
