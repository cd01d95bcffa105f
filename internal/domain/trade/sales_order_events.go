package trade

import (
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeSalesOrder    = "SalesOrder"
	AggregateTypePurchaseOrder = "PurchaseOrder"
)

// Event type constants
const (
	EventTypeSalesOrderCreated      = "SalesOrderCreated"
	EventTypeSalesOrderConfirmed    = "SalesOrderConfirmed"
	EventTypeSalesOrderCancelled    = "SalesOrderCancelled"
	EventTypePurchaseOrderReceived  = "PurchaseOrderReceived"
	EventTypePurchaseOrderConfirmed = "PurchaseOrderConfirmed"
)

// SalesOrderCreatedEvent is published when a draft order is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(order *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
	}
}

// SalesOrderConfirmedEvent is published when an order is confirmed
type SalesOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
}

// NewSalesOrderConfirmedEvent creates a new SalesOrderConfirmedEvent
func NewSalesOrderConfirmedEvent(order *SalesOrder) *SalesOrderConfirmedEvent {
	return &SalesOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderConfirmed, AggregateTypeSalesOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		WarehouseID:     order.WarehouseID,
		PaymentMethod:   order.PaymentMethod,
		PayableAmount:   order.PayableAmount,
	}
}

// SalesOrderCancelledEvent is published when an order is cancelled
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
	WasConfirmed  bool            `json:"was_confirmed"`
	Reason        string          `json:"reason"`
}

// NewSalesOrderCancelledEvent creates a new SalesOrderCancelledEvent
func NewSalesOrderCancelledEvent(order *SalesOrder, wasConfirmed bool) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCancelled, AggregateTypeSalesOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		PaymentMethod:   order.PaymentMethod,
		PayableAmount:   order.PayableAmount,
		WasConfirmed:    wasConfirmed,
		Reason:          order.CancelReason,
	}
}
