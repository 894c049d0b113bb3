package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/eyadahmed25/customer-management/internal/clients"
	"github.com/eyadahmed25/customer-management/internal/events"
)

// NotificationService sends the welcome email for created customers. It runs
// entirely on the dispatcher's worker; nothing it does reaches a request path.
type NotificationService struct {
	dispatcher events.Dispatcher
	emails     clients.EmailSender
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, emails clients.EmailSender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		emails:     emails,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCustomerCreated, n.handleCustomerCreated)
}

func (n *NotificationService) handleCustomerCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CustomerCreatedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for customer_created", zap.String("event_id", event.ID))
		return nil
	}

	result := n.emails.SendWelcome(ctx, payload.Email, payload.FirstName)
	if !result.IsSuccess {
		n.logger.Warn("welcome email not delivered",
			zap.String("customer_id", event.CustomerID),
			zap.Int("status", result.StatusCode),
			zap.String("error", result.ErrorMessage))
		return nil
	}

	n.logger.Info("welcome email sent",
		zap.String("customer_id", event.CustomerID),
		zap.String("message_id", result.MessageID))
	return nil
}
