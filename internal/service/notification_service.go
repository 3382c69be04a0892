package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
)

// NotificationQueue accepts events for asynchronous webhook delivery.
type NotificationQueue interface {
	Enqueue(event events.Event) bool
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	queue      NotificationQueue
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// WebhookEnabled reports whether a webhook target is configured.
func (n *NotificationService) WebhookEnabled() bool {
	return strings.TrimSpace(n.cfg.WebhookURL) != ""
}

// RegisterHandlers subscribes to events. Events are forwarded to queue when
// it is non-nil and a webhook is configured.
func (n *NotificationService) RegisterHandlers(queue NotificationQueue) {
	if n.dispatcher == nil {
		return
	}
	n.queue = queue
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventCustomerCreated, n.handleCustomerCreated)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.enqueueWebhook(event)
	return nil
}

func (n *NotificationService) handleCustomerCreated(_ context.Context, event events.Event) error {
	n.logger.Info("CustomerCreated", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.enqueueWebhook(event)
	return nil
}

func (n *NotificationService) enqueueWebhook(event events.Event) {
	if n.queue == nil || !n.WebhookEnabled() {
		return
	}
	if !n.queue.Enqueue(event) {
		n.logger.Warn("notification dropped",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
}

// Deliver posts the event as JSON to the configured webhook.
func (n *NotificationService) Deliver(ctx context.Context, event events.Event) error {
	if !n.WebhookEnabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(fiber.MethodPost)
	req.SetRequestURI(n.cfg.WebhookURL)
	agent.Timeout(n.cfg.Timeout())
	agent.Set("X-Event-Type", string(event.Type))
	agent.JSON(event)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("deliver %s: %w", event.Type, err)
	}

	// Bytes releases the agent
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("deliver %s: %w", event.Type, errors.Join(errs...))
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("deliver %s: webhook responded %d", event.Type, status)
	}
	n.logger.Debug("notification delivered",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
	return nil
}
