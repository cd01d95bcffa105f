package inventory

import (
	"time"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem tracks stock of one product (in one bag size) at one warehouse.
// The composite identifier is WarehouseID + ProductCode + BagSizeKg.
type StockItem struct {
	shared.BaseAggregateRoot
	WarehouseID       uuid.UUID
	ProductCode       string
	ProductName       string
	BagSizeKg         decimal.Decimal
	QuantityOnHand    decimal.Decimal // number of bags
	LowStockThreshold decimal.Decimal // alert when on-hand falls to or below this
}

// NewStockItem creates a stock record for a warehouse-product combination
func NewStockItem(warehouseID uuid.UUID, productCode, productName string, bagSizeKg decimal.Decimal) (*StockItem, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product code cannot be empty")
	}
	if bagSizeKg.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_BAG_SIZE", "Bag size must be positive")
	}

	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		ProductCode:       productCode,
		ProductName:       productName,
		BagSizeKg:         bagSizeKg,
		QuantityOnHand:    decimal.Zero,
		LowStockThreshold: decimal.Zero,
	}, nil
}

// WeightKg returns the stock on hand converted to kilograms
func (s *StockItem) WeightKg() decimal.Decimal {
	return s.QuantityOnHand.Mul(s.BagSizeKg)
}

// SetLowStockThreshold sets the alert threshold in bags
func (s *StockItem) SetLowStockThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}
	s.LowStockThreshold = threshold
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// IsBelowThreshold reports whether an alert should exist for this item
func (s *StockItem) IsBelowThreshold() bool {
	return s.LowStockThreshold.IsPositive() && s.QuantityOnHand.LessThanOrEqual(s.LowStockThreshold)
}

// Increase adds inbound stock
func (s *StockItem) Increase(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	s.QuantityOnHand = s.QuantityOnHand.Add(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Decrease removes outbound stock; quantity on hand never goes negative
func (s *StockItem) Decrease(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if s.QuantityOnHand.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	s.QuantityOnHand = s.QuantityOnHand.Sub(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	if s.IsBelowThreshold() {
		s.AddDomainEvent(NewStockBelowThresholdEvent(s))
	}

	return nil
}

// AdjustTo sets the quantity on hand to a counted value (stock taking)
func (s *StockItem) AdjustTo(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	s.QuantityOnHand = quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	if s.IsBelowThreshold() {
		s.AddDomainEvent(NewStockBelowThresholdEvent(s))
	}

	return nil
}
