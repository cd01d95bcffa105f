package trade

import (
	"time"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusConfirmed PurchaseOrderStatus = "CONFIRMED"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	}
	return false
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductCode string
	ProductName string
	BagSizeKg   decimal.Decimal
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Amount      decimal.Decimal
	WeightKg    decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPurchaseOrderItem creates a new purchase order line
func NewPurchaseOrderItem(orderID uuid.UUID, productCode, productName string, bagSizeKg, quantity, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product code cannot be empty")
	}
	if bagSizeKg.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_BAG_SIZE", "Bag size must be positive")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductCode: productCode,
		ProductName: productName,
		BagSizeKg:   bagSizeKg,
		Quantity:    quantity,
		UnitCost:    unitCost,
		Amount:      quantity.Mul(unitCost),
		WeightKg:    quantity.Mul(bagSizeKg).Round(4),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PurchaseOrder tracks inbound goods from a supplier until they are
// received into a warehouse.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string
	SupplierName string
	WarehouseID  uuid.UUID
	Items        []PurchaseOrderItem
	TotalAmount  decimal.Decimal
	Status       PurchaseOrderStatus
	Remark       string
	ConfirmedAt  *time.Time
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string
}

// NewPurchaseOrder creates a new draft purchase order
func NewPurchaseOrder(orderNumber, supplierName string, warehouseID uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierName:      supplierName,
		WarehouseID:       warehouseID,
		Items:             make([]PurchaseOrderItem, 0),
		TotalAmount:       decimal.Zero,
		Status:            PurchaseOrderStatusDraft,
	}, nil
}

// AddItem adds a new line to a draft order
func (o *PurchaseOrder) AddItem(productCode, productName string, bagSizeKg, quantity, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}
	for _, item := range o.Items {
		if item.ProductCode == productCode && item.BagSizeKg.Equal(bagSizeKg) {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already on order")
		}
	}

	item, err := NewPurchaseOrderItem(o.ID, productCode, productName, bagSizeKg, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return item, nil
}

// Confirm moves the order from draft to confirmed
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be confirmed in its current status")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot confirm an order with no items")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderConfirmedEvent(o))

	return nil
}

// Receive marks the confirmed order as received into the warehouse
func (o *PurchaseOrder) Receive() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusReceived) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be received in its current status")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusReceived
	o.ReceivedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))

	return nil
}

// Cancel cancels the order with a reason
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled in its current status")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}
