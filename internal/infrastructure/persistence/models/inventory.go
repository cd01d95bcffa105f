package models

import (
	"time"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarehouseModel is the persistence model for the Warehouse aggregate.
type WarehouseModel struct {
	AggregateModel
	Code        string                    `gorm:"type:varchar(50);not null;uniqueIndex:idx_warehouse_code"`
	Name        string                    `gorm:"type:varchar(200);not null"`
	Status      inventory.WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ManagerName string                    `gorm:"type:varchar(100)"`
	Phone       string                    `gorm:"type:varchar(50)"`
	Address     string                    `gorm:"type:text"`
	CapacityKg  decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	IsDefault   bool                      `gorm:"not null;default:false"`
	Notes       string                    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the persistence model to a domain Warehouse entity.
func (m *WarehouseModel) ToDomain() *inventory.Warehouse {
	return &inventory.Warehouse{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Code:        m.Code,
		Name:        m.Name,
		Status:      m.Status,
		ManagerName: m.ManagerName,
		Phone:       m.Phone,
		Address:     m.Address,
		CapacityKg:  m.CapacityKg,
		IsDefault:   m.IsDefault,
		Notes:       m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Warehouse entity.
func (m *WarehouseModel) FromDomain(w *inventory.Warehouse) {
	m.FromDomainAggregateRoot(w.BaseAggregateRoot)
	m.Code = w.Code
	m.Name = w.Name
	m.Status = w.Status
	m.ManagerName = w.ManagerName
	m.Phone = w.Phone
	m.Address = w.Address
	m.CapacityKg = w.CapacityKg
	m.IsDefault = w.IsDefault
	m.Notes = w.Notes
}

// WarehouseModelFromDomain creates a new persistence model from a domain Warehouse entity.
func WarehouseModelFromDomain(w *inventory.Warehouse) *WarehouseModel {
	m := &WarehouseModel{}
	m.FromDomain(w)
	return m
}

// StockItemModel is the persistence model for the StockItem aggregate.
// A warehouse holds at most one row per product-and-bag-size combination.
type StockItemModel struct {
	AggregateModel
	WarehouseID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_product,priority:1"`
	ProductCode       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_stock_item_product,priority:2"`
	ProductName       string          `gorm:"type:varchar(200);not null"`
	BagSizeKg         decimal.Decimal `gorm:"type:decimal(18,4);not null;uniqueIndex:idx_stock_item_product,priority:3"`
	QuantityOnHand    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem entity.
func (m *StockItemModel) ToDomain() *inventory.StockItem {
	return &inventory.StockItem{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		WarehouseID:       m.WarehouseID,
		ProductCode:       m.ProductCode,
		ProductName:       m.ProductName,
		BagSizeKg:         m.BagSizeKg,
		QuantityOnHand:    m.QuantityOnHand,
		LowStockThreshold: m.LowStockThreshold,
	}
}

// FromDomain populates the persistence model from a domain StockItem entity.
func (m *StockItemModel) FromDomain(s *inventory.StockItem) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.WarehouseID = s.WarehouseID
	m.ProductCode = s.ProductCode
	m.ProductName = s.ProductName
	m.BagSizeKg = s.BagSizeKg
	m.QuantityOnHand = s.QuantityOnHand
	m.LowStockThreshold = s.LowStockThreshold
}

// StockItemModelFromDomain creates a new persistence model from a domain StockItem entity.
func StockItemModelFromDomain(s *inventory.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(s)
	return m
}

// StockMovementModel is the persistence model for stock movement records.
// Movements are append-only, there is no update path.
type StockMovementModel struct {
	BaseModel
	StockItemID    uuid.UUID                    `gorm:"type:uuid;not null;index:idx_movement_item"`
	WarehouseID    uuid.UUID                    `gorm:"type:uuid;not null;index:idx_movement_warehouse"`
	ProductCode    string                       `gorm:"type:varchar(50);not null;index"`
	MovementType   inventory.MovementType       `gorm:"type:varchar(20);not null"`
	Quantity       decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	QuantityBefore decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	QuantityAfter  decimal.Decimal              `gorm:"type:decimal(18,4);not null"`
	SourceType     inventory.MovementSourceType `gorm:"type:varchar(30);not null"`
	SourceID       *string                      `gorm:"type:varchar(100);index"`
	Remark         string                       `gorm:"type:text"`
	OperatorID     *uuid.UUID                   `gorm:"type:uuid"`
	MovementDate   time.Time                    `gorm:"not null;index:idx_movement_date"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement entity.
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		StockItemID:    m.StockItemID,
		WarehouseID:    m.WarehouseID,
		ProductCode:    m.ProductCode,
		MovementType:   m.MovementType,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		SourceType:     m.SourceType,
		SourceID:       m.SourceID,
		Remark:         m.Remark,
		OperatorID:     m.OperatorID,
		MovementDate:   m.MovementDate,
	}
}

// StockMovementModelFromDomain creates a new persistence model from a domain entity.
func StockMovementModelFromDomain(mv *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{}
	m.FromDomainBaseEntity(mv.BaseEntity)
	m.StockItemID = mv.StockItemID
	m.WarehouseID = mv.WarehouseID
	m.ProductCode = mv.ProductCode
	m.MovementType = mv.MovementType
	m.Quantity = mv.Quantity
	m.QuantityBefore = mv.QuantityBefore
	m.QuantityAfter = mv.QuantityAfter
	m.SourceType = mv.SourceType
	m.SourceID = mv.SourceID
	m.Remark = mv.Remark
	m.OperatorID = mv.OperatorID
	m.MovementDate = mv.MovementDate
	return m
}

// TransferOrderModel is the persistence model for the TransferOrder aggregate.
type TransferOrderModel struct {
	AggregateModel
	TransferNumber  string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_transfer_number"`
	FromWarehouseID uuid.UUID                `gorm:"type:uuid;not null;index"`
	ToWarehouseID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	ProductCode     string                   `gorm:"type:varchar(50);not null"`
	BagSizeKg       decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Quantity        decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Status          inventory.TransferStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Remark          string                   `gorm:"type:text"`
	CompletedAt     *time.Time
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (TransferOrderModel) TableName() string {
	return "transfer_orders"
}

// ToDomain converts the persistence model to a domain TransferOrder entity.
func (m *TransferOrderModel) ToDomain() *inventory.TransferOrder {
	return &inventory.TransferOrder{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		TransferNumber:  m.TransferNumber,
		FromWarehouseID: m.FromWarehouseID,
		ToWarehouseID:   m.ToWarehouseID,
		ProductCode:     m.ProductCode,
		BagSizeKg:       m.BagSizeKg,
		Quantity:        m.Quantity,
		Status:          m.Status,
		Remark:          m.Remark,
		CompletedAt:     m.CompletedAt,
		CancelledAt:     m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain TransferOrder entity.
func (m *TransferOrderModel) FromDomain(t *inventory.TransferOrder) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TransferNumber = t.TransferNumber
	m.FromWarehouseID = t.FromWarehouseID
	m.ToWarehouseID = t.ToWarehouseID
	m.ProductCode = t.ProductCode
	m.BagSizeKg = t.BagSizeKg
	m.Quantity = t.Quantity
	m.Status = t.Status
	m.Remark = t.Remark
	m.CompletedAt = t.CompletedAt
	m.CancelledAt = t.CancelledAt
}

// TransferOrderModelFromDomain creates a new persistence model from a domain entity.
func TransferOrderModelFromDomain(t *inventory.TransferOrder) *TransferOrderModel {
	m := &TransferOrderModel{}
	m.FromDomain(t)
	return m
}
