package notification

import (
	"context"
	"fmt"

	"github.com/flourmill/backend/internal/domain/notification"
	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreditStatusHandler notifies staff when a customer's credit gate is
// suspended or blocked. Restoring the gate to active produces nothing:
// the unread suspension notice is the record until someone reads it.
type CreditStatusHandler struct {
	logger           *zap.Logger
	notificationRepo notification.NotificationRepository
}

// NewCreditStatusHandler creates a new handler for credit status events
func NewCreditStatusHandler(logger *zap.Logger, notificationRepo notification.NotificationRepository) *CreditStatusHandler {
	return &CreditStatusHandler{
		logger:           logger,
		notificationRepo: notificationRepo,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CreditStatusHandler) EventTypes() []string {
	return []string{partner.EventTypeCustomerCreditStatusChanged}
}

// Handle processes a CustomerCreditStatusChangedEvent
func (h *CreditStatusHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*partner.CustomerCreditStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			partner.EventTypeCustomerCreditStatusChanged, event.EventType())
	}

	if changed.NewStatus == partner.CreditStatusActive {
		return nil
	}

	h.logger.Warn("customer credit gate closed",
		zap.String("customer_number", changed.Number),
		zap.String("old_status", string(changed.OldStatus)),
		zap.String("new_status", string(changed.NewStatus)),
	)

	dedupKey := "credit_suspended:" + changed.Number

	exists, err := h.notificationRepo.ExistsUnreadByDedupKey(ctx, dedupKey)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	title := fmt.Sprintf("Credit %s: %s", changed.NewStatus, changed.Number)
	message := fmt.Sprintf("Customer %s credit status changed from %s to %s; new credit sales are refused",
		changed.Number, changed.OldStatus, changed.NewStatus)

	n, err := notification.NewNotification(notification.CategoryCreditSuspended, title, message, dedupKey)
	if err != nil {
		return err
	}
	n.WithSourceID(changed.CustomerID.String())

	return h.notificationRepo.Create(ctx, n)
}

// Ensure CreditStatusHandler implements shared.EventHandler
var _ shared.EventHandler = (*CreditStatusHandler)(nil)
