package models

import (
	"time"

	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer aggregate.
type CustomerModel struct {
	AggregateModel
	Number       string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_customer_number"`
	Name         string                 `gorm:"type:varchar(200);not null"`
	Email        string                 `gorm:"type:varchar(200);not null;uniqueIndex:idx_customer_email"`
	Phone        string                 `gorm:"type:varchar(50);index"`
	NationalID   string                 `gorm:"type:varchar(50);index"`
	BusinessName string                 `gorm:"type:varchar(200)"`
	BusinessType partner.BusinessType   `gorm:"type:varchar(20);not null;default:'individual'"`
	Status       partner.CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`

	Street     string `gorm:"type:varchar(200)"`
	City       string `gorm:"type:varchar(100)"`
	Region     string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20)"`
	Country    string `gorm:"type:varchar(100)"`

	CreditLimit     decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance  decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	AvailableCredit decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	CreditTermsDays int                  `gorm:"not null;default:0"`
	CreditStatus    partner.CreditStatus `gorm:"type:varchar(20);not null;default:'active'"`

	TotalOrders       int             `gorm:"not null;default:0"`
	TotalSalesAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastPurchaseAt    *time.Time
	AverageOrderValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Notes string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Number:            m.Number,
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		NationalID:        m.NationalID,
		BusinessName:      m.BusinessName,
		BusinessType:      m.BusinessType,
		Status:            m.Status,
		Street:            m.Street,
		City:              m.City,
		Region:            m.Region,
		PostalCode:        m.PostalCode,
		Country:           m.Country,
		CreditLimit:       m.CreditLimit,
		CurrentBalance:    m.CurrentBalance,
		AvailableCredit:   m.AvailableCredit,
		CreditTermsDays:   m.CreditTermsDays,
		CreditStatus:      m.CreditStatus,
		TotalOrders:       m.TotalOrders,
		TotalSalesAmount:  m.TotalSalesAmount,
		LastPurchaseAt:    m.LastPurchaseAt,
		AverageOrderValue: m.AverageOrderValue,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Number = c.Number
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.NationalID = c.NationalID
	m.BusinessName = c.BusinessName
	m.BusinessType = c.BusinessType
	m.Status = c.Status
	m.Street = c.Street
	m.City = c.City
	m.Region = c.Region
	m.PostalCode = c.PostalCode
	m.Country = c.Country
	m.CreditLimit = c.CreditLimit
	m.CurrentBalance = c.CurrentBalance
	m.AvailableCredit = c.AvailableCredit
	m.CreditTermsDays = c.CreditTermsDays
	m.CreditStatus = c.CreditStatus
	m.TotalOrders = c.TotalOrders
	m.TotalSalesAmount = c.TotalSalesAmount
	m.LastPurchaseAt = c.LastPurchaseAt
	m.AverageOrderValue = c.AverageOrderValue
	m.Notes = c.Notes
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// CreditTransactionModel is the persistence model for credit ledger entries.
// Ledger rows are append-only, there is no update path.
type CreditTransactionModel struct {
	BaseModel
	CustomerID      uuid.UUID                     `gorm:"type:uuid;not null;index:idx_credit_tx_customer"`
	TransactionType partner.CreditTransactionType `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	SourceType      partner.CreditSourceType      `gorm:"type:varchar(30);not null"`
	SourceID        *string                       `gorm:"type:varchar(100);index"`
	Reference       string                        `gorm:"type:varchar(100)"`
	Remark          string                        `gorm:"type:text"`
	OperatorID      *uuid.UUID                    `gorm:"type:uuid"`
	TransactionDate time.Time                     `gorm:"not null;index:idx_credit_tx_date"`
}

// TableName returns the table name for GORM
func (CreditTransactionModel) TableName() string {
	return "credit_transactions"
}

// ToDomain converts the persistence model to a domain CreditTransaction entity.
func (m *CreditTransactionModel) ToDomain() *partner.CreditTransaction {
	return &partner.CreditTransaction{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		CustomerID:      m.CustomerID,
		TransactionType: m.TransactionType,
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		SourceType:      m.SourceType,
		SourceID:        m.SourceID,
		Reference:       m.Reference,
		Remark:          m.Remark,
		OperatorID:      m.OperatorID,
		TransactionDate: m.TransactionDate,
	}
}

// CreditTransactionModelFromDomain creates a new persistence model from a domain entity.
func CreditTransactionModelFromDomain(t *partner.CreditTransaction) *CreditTransactionModel {
	m := &CreditTransactionModel{}
	m.FromDomainBaseEntity(t.BaseEntity)
	m.CustomerID = t.CustomerID
	m.TransactionType = t.TransactionType
	m.Amount = t.Amount
	m.BalanceBefore = t.BalanceBefore
	m.BalanceAfter = t.BalanceAfter
	m.SourceType = t.SourceType
	m.SourceID = t.SourceID
	m.Reference = t.Reference
	m.Remark = t.Remark
	m.OperatorID = t.OperatorID
	m.TransactionDate = t.TransactionDate
	return m
}

// SequenceModel backs the atomic number allocator. The value is advanced
// with a single conditional UPDATE so concurrent callers never draw the
// same number.
type SequenceModel struct {
	Name      string    `gorm:"type:varchar(100);primary_key"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "sequences"
}
