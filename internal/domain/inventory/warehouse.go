package inventory

import (
	"strings"
	"time"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WarehouseStatus represents the status of a warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "active"
	WarehouseStatusInactive WarehouseStatus = "inactive"
)

// Warehouse is a physical storage location of the mill.
// Capacity is tracked in kilograms; utilization is derived from the
// weight of stock on hand, never stored.
type Warehouse struct {
	shared.BaseAggregateRoot
	Code        string
	Name        string
	Status      WarehouseStatus
	ManagerName string
	Phone       string
	Address     string
	CapacityKg  decimal.Decimal
	IsDefault   bool
	Notes       string
}

// NewWarehouse creates a new warehouse
func NewWarehouse(code, name string, capacityKg decimal.Decimal) (*Warehouse, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if capacityKg.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Capacity cannot be negative")
	}

	return &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            WarehouseStatusActive,
		CapacityKg:        capacityKg,
	}, nil
}

// UtilizationPercent returns how full the warehouse is for a given
// weight of stock on hand, as a percentage rounded to two places.
// Zero-capacity warehouses report zero rather than dividing.
func (w *Warehouse) UtilizationPercent(stockWeightKg decimal.Decimal) decimal.Decimal {
	if w.CapacityKg.IsZero() {
		return decimal.Zero
	}
	return stockWeightKg.Div(w.CapacityKg).Mul(decimal.NewFromInt(100)).Round(2)
}

// SetCapacity updates the storage capacity
func (w *Warehouse) SetCapacity(capacityKg decimal.Decimal) error {
	if capacityKg.IsNegative() {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity cannot be negative")
	}
	w.CapacityKg = capacityKg
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// SetContact updates the warehouse contact details
func (w *Warehouse) SetContact(managerName, phone, address string) {
	w.ManagerName = managerName
	w.Phone = phone
	w.Address = address
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// MarkDefault marks this warehouse as the default for operations
func (w *Warehouse) MarkDefault() {
	w.IsDefault = true
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Deactivate disables the warehouse for new movements
func (w *Warehouse) Deactivate() error {
	if w.Status == WarehouseStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Warehouse is already inactive")
	}
	w.Status = WarehouseStatusInactive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// IsActive returns true if the warehouse accepts movements
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}
