package notification

import (
	"context"
	"fmt"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/notification"
	"github.com/flourmill/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockBelowThresholdHandler turns StockBelowThreshold events into
// in-app notifications. At most one unread notification exists per
// warehouse-product combination, so a level that keeps dropping does
// not flood the list.
type StockBelowThresholdHandler struct {
	logger           *zap.Logger
	notificationRepo notification.NotificationRepository
}

// NewStockBelowThresholdHandler creates a new handler for low-stock events
func NewStockBelowThresholdHandler(logger *zap.Logger, notificationRepo notification.NotificationRepository) *StockBelowThresholdHandler {
	return &StockBelowThresholdHandler{
		logger:           logger,
		notificationRepo: notificationRepo,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StockBelowThresholdHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold}
}

// Handle processes a StockBelowThresholdEvent
func (h *StockBelowThresholdHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	alert, ok := event.(*inventory.StockBelowThresholdEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowThreshold, event.EventType())
	}

	h.logger.Warn("stock below threshold",
		zap.String("warehouse_id", alert.WarehouseID.String()),
		zap.String("product_code", alert.ProductCode),
		zap.String("bag_size_kg", alert.BagSizeKg.String()),
		zap.String("quantity_on_hand", alert.QuantityOnHand.String()),
		zap.String("threshold", alert.Threshold.String()),
	)

	dedupKey := fmt.Sprintf("low_stock:%s:%s:%s",
		alert.WarehouseID, alert.ProductCode, alert.BagSizeKg)

	exists, err := h.notificationRepo.ExistsUnreadByDedupKey(ctx, dedupKey)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	title := fmt.Sprintf("Low stock: %s (%s kg bags)", alert.ProductName, alert.BagSizeKg)
	message := fmt.Sprintf("Stock fell to %s bags, at or below the threshold of %s",
		alert.QuantityOnHand, alert.Threshold)

	n, err := notification.NewNotification(notification.CategoryLowStock, title, message, dedupKey)
	if err != nil {
		return err
	}
	n.WithSourceID(alert.StockItemID.String())

	return h.notificationRepo.Create(ctx, n)
}

// Ensure StockBelowThresholdHandler implements shared.EventHandler
var _ shared.EventHandler = (*StockBelowThresholdHandler)(nil)
