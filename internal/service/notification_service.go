package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/config"
	"github.com/spec-kit/facility-service/internal/events"
)

// NotificationService turns issue events into outbound notifications.
// Delivery is stubbed: each channel logs what it would have sent.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger, cfg: cfg}
}

// EventTypes lists the events the service reacts to.
func (n *NotificationService) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventIssueCreated,
		events.EventIssueStatusChanged,
		events.EventIssueAssigned,
		events.EventIssueCommentAdded,
		events.EventIssueDeleted,
	}
}

// Handle routes one event to its notification channels.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("issue_id", event.IssueID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))

	switch event.Type {
	case events.EventIssueCreated:
		n.sendWebhook(ctx, event)
	case events.EventIssueAssigned:
		if p, ok := event.Payload.(events.IssueAssignedPayload); ok && p.AssigneeEmail != "" {
			n.sendEmail(ctx, event, p.AssigneeEmail)
		}
		n.sendWebhook(ctx, event)
	case events.EventIssueStatusChanged, events.EventIssueDeleted:
		n.sendWebhook(ctx, event)
	case events.EventIssueCommentAdded:
		n.sendWebhook(ctx, event)
	}
	return nil
}

func (n *NotificationService) sendEmail(_ context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("issue_id", event.IssueID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhook(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("issue_id", event.IssueID),
		zap.String("event_type", string(event.Type)))
}
