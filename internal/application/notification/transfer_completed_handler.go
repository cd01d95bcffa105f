package notification

import (
	"context"
	"fmt"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/notification"
	"github.com/flourmill/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TransferCompletedHandler records executed warehouse transfers in the
// notification list so receiving staff see arrivals.
type TransferCompletedHandler struct {
	logger           *zap.Logger
	notificationRepo notification.NotificationRepository
}

// NewTransferCompletedHandler creates a new handler for completed transfers
func NewTransferCompletedHandler(logger *zap.Logger, notificationRepo notification.NotificationRepository) *TransferCompletedHandler {
	return &TransferCompletedHandler{
		logger:           logger,
		notificationRepo: notificationRepo,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *TransferCompletedHandler) EventTypes() []string {
	return []string{inventory.EventTypeTransferCompleted}
}

// Handle processes a TransferCompletedEvent
func (h *TransferCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*inventory.TransferCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeTransferCompleted, event.EventType())
	}

	h.logger.Info("warehouse transfer completed",
		zap.String("transfer_number", completed.TransferNumber),
		zap.String("product_code", completed.ProductCode),
		zap.String("quantity", completed.Quantity.String()),
	)

	// A transfer completes once, its number is the natural dedup key
	dedupKey := "transfer_completed:" + completed.TransferNumber

	title := "Transfer completed: " + completed.TransferNumber
	message := fmt.Sprintf("%s bags of %s arrived from the sending warehouse",
		completed.Quantity, completed.ProductCode)

	n, err := notification.NewNotification(notification.CategoryTransferCompleted, title, message, dedupKey)
	if err != nil {
		return err
	}
	n.WithSourceID(completed.TransferID.String())

	return h.notificationRepo.Create(ctx, n)
}

// Ensure TransferCompletedHandler implements shared.EventHandler
var _ shared.EventHandler = (*TransferCompletedHandler)(nil)
