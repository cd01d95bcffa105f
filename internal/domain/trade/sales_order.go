package trade

import (
	"time"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusCancelled
	}
	return false
}

// PaymentMethod represents how a sales order is settled
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOnCredit PaymentMethod = "on_credit"
)

// IsValid checks membership in the closed payment method set
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodOnCredit:
		return true
	}
	return false
}

// SalesOrderItem represents a line item in a sales order
type SalesOrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductCode  string
	ProductName  string
	BagSizeKg    decimal.Decimal // bag size in kilograms (25, 50)
	Quantity     decimal.Decimal // number of bags
	UnitPrice    decimal.Decimal // price per bag
	LineDiscount decimal.Decimal
	Amount       decimal.Decimal // Quantity*UnitPrice - LineDiscount
	WeightKg     decimal.Decimal // Quantity * BagSizeKg
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSalesOrderItem creates a new sales order line
func NewSalesOrderItem(orderID uuid.UUID, productCode, productName string, bagSizeKg, quantity, unitPrice, lineDiscount decimal.Decimal) (*SalesOrderItem, error) {
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product code cannot be empty")
	}
	if bagSizeKg.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_BAG_SIZE", "Bag size must be positive")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if lineDiscount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	gross := quantity.Mul(unitPrice)
	if lineDiscount.GreaterThan(gross) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed line amount")
	}

	now := time.Now()
	return &SalesOrderItem{
		ID:           uuid.New(),
		OrderID:      orderID,
		ProductCode:  productCode,
		ProductName:  productName,
		BagSizeKg:    bagSizeKg,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		LineDiscount: lineDiscount,
		Amount:       gross.Sub(lineDiscount),
		WeightKg:     quantity.Mul(bagSizeKg).Round(4),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SalesOrder is the invoice aggregate: a customer order from draft to
// confirmation, settled in cash, by transfer, or on credit.
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber    string
	CustomerID     uuid.UUID
	CustomerName   string
	WarehouseID    uuid.UUID
	PaymentMethod  PaymentMethod
	Items          []SalesOrderItem
	TotalAmount    decimal.Decimal // sum of line amounts
	DiscountAmount decimal.Decimal // order-level discount
	TaxRate        decimal.Decimal // e.g. 0.15
	TaxAmount      decimal.Decimal // (Total - Discount) * TaxRate
	PayableAmount  decimal.Decimal // Total - Discount + Tax
	Status         OrderStatus
	Remark         string
	ConfirmedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// NewSalesOrder creates a new draft sales order
func NewSalesOrder(orderNumber string, customerID uuid.UUID, customerName string, warehouseID uuid.UUID, paymentMethod PaymentMethod) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid payment method")
	}

	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		WarehouseID:       warehouseID,
		PaymentMethod:     paymentMethod,
		Items:             make([]SalesOrderItem, 0),
		TotalAmount:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxRate:           decimal.Zero,
		TaxAmount:         decimal.Zero,
		PayableAmount:     decimal.Zero,
		Status:            OrderStatusDraft,
	}

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))

	return order, nil
}

// IsOnCredit reports whether confirming this order requires the credit gate
func (o *SalesOrder) IsOnCredit() bool {
	return o.PaymentMethod == PaymentMethodOnCredit
}

// AddItem adds a new line to a draft order
func (o *SalesOrder) AddItem(productCode, productName string, bagSizeKg, quantity, unitPrice, lineDiscount decimal.Decimal) (*SalesOrderItem, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}
	for _, item := range o.Items {
		if item.ProductCode == productCode && item.BagSizeKg.Equal(bagSizeKg) {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already on order, update quantity instead")
		}
	}

	item, err := NewSalesOrderItem(o.ID, productCode, productName, bagSizeKg, quantity, unitPrice, lineDiscount)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// RemoveItem removes a line from a draft order
func (o *SalesOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}
	for i, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// UpdateItemQuantity updates the quantity of an existing line
func (o *SalesOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify items on a non-draft order")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			item := &o.Items[i]
			item.Quantity = quantity
			item.Amount = quantity.Mul(item.UnitPrice).Sub(item.LineDiscount)
			item.WeightKg = quantity.Mul(item.BagSizeKg).Round(4)
			item.UpdatedAt = time.Now()
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetDiscount sets the order-level discount
func (o *SalesOrder) SetDiscount(discount decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change discount on a non-draft order")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(o.TotalAmount) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed order total")
	}

	o.DiscountAmount = discount
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// SetTaxRate sets the tax rate applied to the discounted total
func (o *SalesOrder) SetTaxRate(rate decimal.Decimal) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change tax on a non-draft order")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}

	o.TaxRate = rate
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return nil
}

// Confirm moves the order from draft to confirmed
func (o *SalesOrder) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be confirmed in its current status")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot confirm an order with no items")
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewSalesOrderConfirmedEvent(o))

	return nil
}

// Cancel cancels the order with a reason
func (o *SalesOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled in its current status")
	}

	now := time.Now()
	wasConfirmed := o.Status == OrderStatusConfirmed
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewSalesOrderCancelledEvent(o, wasConfirmed))

	return nil
}

// SetRemark sets the free-form remark
func (o *SalesOrder) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
}

// TotalWeightKg returns the shipped weight across all lines
func (o *SalesOrder) TotalWeightKg() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.WeightKg)
	}
	return total
}

func (o *SalesOrder) recalculateTotals() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
	if o.DiscountAmount.GreaterThan(total) {
		o.DiscountAmount = total
	}
	net := total.Sub(o.DiscountAmount)
	o.TaxAmount = net.Mul(o.TaxRate).Round(4)
	o.PayableAmount = net.Add(o.TaxAmount)
}
