package trade

import (
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderConfirmedEvent is published when a purchase order is confirmed
type PurchaseOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	SupplierName string          `json:"supplier_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderConfirmedEvent creates a new PurchaseOrderConfirmedEvent
func NewPurchaseOrderConfirmedEvent(order *PurchaseOrder) *PurchaseOrderConfirmedEvent {
	return &PurchaseOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderConfirmed, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierName:    order.SupplierName,
		TotalAmount:     order.TotalAmount,
	}
}

// PurchaseOrderReceivedEvent is published when goods arrive at the warehouse
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		WarehouseID:     order.WarehouseID,
	}
}
