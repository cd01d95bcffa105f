package partner

import (
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeCustomer is the aggregate type recorded on customer events
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerRegistered          = "CustomerRegistered"
	EventTypeCustomerBalanceChanged      = "CustomerBalanceChanged"
	EventTypeCustomerCreditStatusChanged = "CustomerCreditStatusChanged"
)

// CustomerRegisteredEvent is published when a new customer is registered
type CustomerRegisteredEvent struct {
	shared.BaseDomainEvent
	CustomerID   uuid.UUID    `json:"customer_id"`
	Number       string       `json:"number"`
	Name         string       `json:"name"`
	BusinessType BusinessType `json:"business_type"`
}

// NewCustomerRegisteredEvent creates a new CustomerRegisteredEvent
func NewCustomerRegisteredEvent(customer *Customer) *CustomerRegisteredEvent {
	return &CustomerRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerRegistered, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		Number:          customer.Number,
		Name:            customer.Name,
		BusinessType:    customer.BusinessType,
	}
}

// CustomerBalanceChangedEvent is published when the owed balance moves
type CustomerBalanceChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID      uuid.UUID       `json:"customer_id"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	Direction       string          `json:"direction"` // debit or credit
}

// NewCustomerBalanceChangedEvent creates a new CustomerBalanceChangedEvent
func NewCustomerBalanceChangedEvent(customer *Customer, before, after decimal.Decimal, direction string) *CustomerBalanceChangedEvent {
	return &CustomerBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerBalanceChanged, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		BalanceBefore:   before,
		BalanceAfter:    after,
		AvailableCredit: customer.AvailableCredit,
		Direction:       direction,
	}
}

// CustomerCreditStatusChangedEvent is published when the credit gate status changes
type CustomerCreditStatusChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID    `json:"customer_id"`
	Number     string       `json:"number"`
	OldStatus  CreditStatus `json:"old_status"`
	NewStatus  CreditStatus `json:"new_status"`
}

// NewCustomerCreditStatusChangedEvent creates a new CustomerCreditStatusChangedEvent
func NewCustomerCreditStatusChangedEvent(customer *Customer, oldStatus, newStatus CreditStatus) *CustomerCreditStatusChangedEvent {
	return &CustomerCreditStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreditStatusChanged, AggregateTypeCustomer, customer.ID),
		CustomerID:      customer.ID,
		Number:          customer.Number,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
