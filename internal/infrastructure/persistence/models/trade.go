package models

import (
	"time"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderModel is the persistence model for the SalesOrder aggregate.
type SalesOrderModel struct {
	AggregateModel
	OrderNumber    string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_order_number"`
	CustomerID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerName   string                `gorm:"type:varchar(200);not null"`
	WarehouseID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	PaymentMethod  trade.PaymentMethod   `gorm:"type:varchar(20);not null"`
	Items          []SalesOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount    decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate        decimal.Decimal       `gorm:"type:decimal(18,6);not null;default:0"`
	TaxAmount      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	PayableAmount  decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status         trade.OrderStatus     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark         string                `gorm:"type:text"`
	ConfirmedAt    *time.Time            `gorm:"index"`
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder entity.
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	order := &trade.SalesOrder{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OrderNumber:    m.OrderNumber,
		CustomerID:     m.CustomerID,
		CustomerName:   m.CustomerName,
		WarehouseID:    m.WarehouseID,
		PaymentMethod:  m.PaymentMethod,
		TotalAmount:    m.TotalAmount,
		DiscountAmount: m.DiscountAmount,
		TaxRate:        m.TaxRate,
		TaxAmount:      m.TaxAmount,
		PayableAmount:  m.PayableAmount,
		Status:         m.Status,
		Remark:         m.Remark,
		ConfirmedAt:    m.ConfirmedAt,
		CancelledAt:    m.CancelledAt,
		CancelReason:   m.CancelReason,
		Items:          make([]trade.SalesOrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = *item.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain SalesOrder entity.
func (m *SalesOrderModel) FromDomain(o *trade.SalesOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.CustomerName = o.CustomerName
	m.WarehouseID = o.WarehouseID
	m.PaymentMethod = o.PaymentMethod
	m.TotalAmount = o.TotalAmount
	m.DiscountAmount = o.DiscountAmount
	m.TaxRate = o.TaxRate
	m.TaxAmount = o.TaxAmount
	m.PayableAmount = o.PayableAmount
	m.Status = o.Status
	m.Remark = o.Remark
	m.ConfirmedAt = o.ConfirmedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Items = make([]SalesOrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = *SalesOrderItemModelFromDomain(&item)
	}
}

// SalesOrderModelFromDomain creates a new persistence model from a domain SalesOrder entity.
func SalesOrderModelFromDomain(o *trade.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{}
	m.FromDomain(o)
	return m
}

// SalesOrderItemModel is the persistence model for the SalesOrderItem entity.
type SalesOrderItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode  string          `gorm:"type:varchar(50);not null"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	BagSizeKg    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineDiscount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	WeightKg     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// ToDomain converts the persistence model to a domain SalesOrderItem entity.
func (m *SalesOrderItemModel) ToDomain() *trade.SalesOrderItem {
	return &trade.SalesOrderItem{
		ID:           m.ID,
		OrderID:      m.OrderID,
		ProductCode:  m.ProductCode,
		ProductName:  m.ProductName,
		BagSizeKg:    m.BagSizeKg,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		LineDiscount: m.LineDiscount,
		Amount:       m.Amount,
		WeightKg:     m.WeightKg,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SalesOrderItem entity.
func (m *SalesOrderItemModel) FromDomain(i *trade.SalesOrderItem) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductCode = i.ProductCode
	m.ProductName = i.ProductName
	m.BagSizeKg = i.BagSizeKg
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice
	m.LineDiscount = i.LineDiscount
	m.Amount = i.Amount
	m.WeightKg = i.WeightKg
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// SalesOrderItemModelFromDomain creates a new persistence model from a domain SalesOrderItem entity.
func SalesOrderItemModelFromDomain(i *trade.SalesOrderItem) *SalesOrderItemModel {
	m := &SalesOrderItemModel{}
	m.FromDomain(i)
	return m
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate.
type PurchaseOrderModel struct {
	AggregateModel
	OrderNumber  string                    `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_number"`
	SupplierName string                    `gorm:"type:varchar(200);not null"`
	WarehouseID  uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Items        []PurchaseOrderItemModel  `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount  decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	Status       trade.PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark       string                    `gorm:"type:text"`
	ConfirmedAt  *time.Time                `gorm:"index"`
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	order := &trade.PurchaseOrder{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OrderNumber:  m.OrderNumber,
		SupplierName: m.SupplierName,
		WarehouseID:  m.WarehouseID,
		TotalAmount:  m.TotalAmount,
		Status:       m.Status,
		Remark:       m.Remark,
		ConfirmedAt:  m.ConfirmedAt,
		ReceivedAt:   m.ReceivedAt,
		CancelledAt:  m.CancelledAt,
		CancelReason: m.CancelReason,
		Items:        make([]trade.PurchaseOrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = *item.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(o *trade.PurchaseOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.SupplierName = o.SupplierName
	m.WarehouseID = o.WarehouseID
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.Remark = o.Remark
	m.ConfirmedAt = o.ConfirmedAt
	m.ReceivedAt = o.ReceivedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Items = make([]PurchaseOrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = *PurchaseOrderItemModelFromDomain(&item)
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder entity.
func PurchaseOrderModelFromDomain(o *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// PurchaseOrderItemModel is the persistence model for the PurchaseOrderItem entity.
type PurchaseOrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	BagSizeKg   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	WeightKg    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrderItem entity.
func (m *PurchaseOrderItemModel) ToDomain() *trade.PurchaseOrderItem {
	return &trade.PurchaseOrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductCode: m.ProductCode,
		ProductName: m.ProductName,
		BagSizeKg:   m.BagSizeKg,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		Amount:      m.Amount,
		WeightKg:    m.WeightKg,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain PurchaseOrderItem entity.
func (m *PurchaseOrderItemModel) FromDomain(i *trade.PurchaseOrderItem) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductCode = i.ProductCode
	m.ProductName = i.ProductName
	m.BagSizeKg = i.BagSizeKg
	m.Quantity = i.Quantity
	m.UnitCost = i.UnitCost
	m.Amount = i.Amount
	m.WeightKg = i.WeightKg
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// PurchaseOrderItemModelFromDomain creates a new persistence model from a domain PurchaseOrderItem entity.
func PurchaseOrderItemModelFromDomain(i *trade.PurchaseOrderItem) *PurchaseOrderItemModel {
	m := &PurchaseOrderItemModel{}
	m.FromDomain(i)
	return m
}
