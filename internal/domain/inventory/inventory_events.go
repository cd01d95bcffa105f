package inventory

import (
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants recorded on inventory events
const (
	AggregateTypeStockItem     = "StockItem"
	AggregateTypeTransferOrder = "TransferOrder"
)

// Event type constants
const (
	EventTypeStockBelowThreshold = "StockBelowThreshold"
	EventTypeTransferCompleted   = "TransferCompleted"
)

// StockBelowThresholdEvent is published when stock on hand falls to
// or below the low-stock threshold of an item
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	StockItemID    uuid.UUID       `json:"stock_item_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	ProductCode    string          `json:"product_code"`
	ProductName    string          `json:"product_name"`
	BagSizeKg      decimal.Decimal `json:"bag_size_kg"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	Threshold      decimal.Decimal `json:"threshold"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(item *StockItem) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		WarehouseID:     item.WarehouseID,
		ProductCode:     item.ProductCode,
		ProductName:     item.ProductName,
		BagSizeKg:       item.BagSizeKg,
		QuantityOnHand:  item.QuantityOnHand,
		Threshold:       item.LowStockThreshold,
	}
}

// TransferCompletedEvent is published when a warehouse transfer is executed
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	TransferID      uuid.UUID       `json:"transfer_id"`
	TransferNumber  string          `json:"transfer_number"`
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id"`
	ProductCode     string          `json:"product_code"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// NewTransferCompletedEvent creates a new TransferCompletedEvent
func NewTransferCompletedEvent(t *TransferOrder) *TransferCompletedEvent {
	return &TransferCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCompleted, AggregateTypeTransferOrder, t.ID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		ProductCode:     t.ProductCode,
		Quantity:        t.Quantity,
	}
}
