package partner

import (
	"time"

	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// RegisterCustomerRequest represents a request to register a new customer
type RegisterCustomerRequest struct {
	Name            string           `json:"name" binding:"required,min=1,max=200"`
	Email           string           `json:"email" binding:"required,email,max=200"`
	Phone           string           `json:"phone" binding:"max=50"`
	NationalID      string           `json:"national_id" binding:"max=50"`
	BusinessName    string           `json:"business_name" binding:"max=200"`
	BusinessType    string           `json:"business_type" binding:"required,oneof=retailer wholesaler distributor individual other"`
	Street          string           `json:"street" binding:"max=300"`
	City            string           `json:"city" binding:"max=100"`
	Region          string           `json:"region" binding:"max=100"`
	PostalCode      string           `json:"postal_code" binding:"max=20"`
	Country         string           `json:"country" binding:"max=100"`
	CreditLimit     *decimal.Decimal `json:"credit_limit"`
	CreditTermsDays *int             `json:"credit_terms_days" binding:"omitempty,min=0"`
	Notes           string           `json:"notes"`
	CreatedBy       *uuid.UUID       `json:"-"` // Set from JWT context, not from request body
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email        *string `json:"email" binding:"omitempty,email,max=200"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	NationalID   *string `json:"national_id" binding:"omitempty,max=50"`
	BusinessName *string `json:"business_name" binding:"omitempty,max=200"`
	Street       *string `json:"street" binding:"omitempty,max=300"`
	City         *string `json:"city" binding:"omitempty,max=100"`
	Region       *string `json:"region" binding:"omitempty,max=100"`
	PostalCode   *string `json:"postal_code" binding:"omitempty,max=20"`
	Country      *string `json:"country" binding:"omitempty,max=100"`
	Notes        *string `json:"notes"`
}

// UpdateCreditRequest represents a request to update a customer's credit terms
type UpdateCreditRequest struct {
	CreditLimit     *decimal.Decimal `json:"credit_limit"`
	CreditTermsDays *int             `json:"credit_terms_days" binding:"omitempty,min=0"`
	CreditStatus    *string          `json:"credit_status" binding:"omitempty,oneof=active suspended blocked"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                uuid.UUID       `json:"id"`
	Number            string          `json:"number"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	NationalID        string          `json:"national_id"`
	BusinessName      string          `json:"business_name"`
	BusinessType      string          `json:"business_type"`
	Status            string          `json:"status"`
	Street            string          `json:"street"`
	City              string          `json:"city"`
	Region            string          `json:"region"`
	PostalCode        string          `json:"postal_code"`
	Country           string          `json:"country"`
	FullAddress       string          `json:"full_address"`
	CreditLimit       decimal.Decimal `json:"credit_limit"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	AvailableCredit   decimal.Decimal `json:"available_credit"`
	CreditTermsDays   int             `json:"credit_terms_days"`
	CreditStatus      string          `json:"credit_status"`
	TotalOrders       int             `json:"total_orders"`
	TotalSalesAmount  decimal.Decimal `json:"total_sales_amount"`
	LastPurchaseAt    *time.Time      `json:"last_purchase_at"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// CustomerListResponse represents a list item for customers
type CustomerListResponse struct {
	ID              uuid.UUID       `json:"id"`
	Number          string          `json:"number"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	BusinessType    string          `json:"business_type"`
	Status          string          `json:"status"`
	City            string          `json:"city"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	CreditStatus    string          `json:"credit_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search       string `form:"search"`
	Status       string `form:"status" binding:"omitempty,oneof=active inactive suspended"`
	BusinessType string `form:"business_type" binding:"omitempty,oneof=retailer wholesaler distributor individual other"`
	CreditStatus string `form:"credit_status" binding:"omitempty,oneof=active suspended blocked"`
	City         string `form:"city"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                c.ID,
		Number:            c.Number,
		Name:              c.Name,
		Email:             c.Email,
		Phone:             c.Phone,
		NationalID:        c.NationalID,
		BusinessName:      c.BusinessName,
		BusinessType:      string(c.BusinessType),
		Status:            string(c.Status),
		Street:            c.Street,
		City:              c.City,
		Region:            c.Region,
		PostalCode:        c.PostalCode,
		Country:           c.Country,
		FullAddress:       c.FullAddress(),
		CreditLimit:       c.CreditLimit,
		CurrentBalance:    c.CurrentBalance,
		AvailableCredit:   c.AvailableCredit,
		CreditTermsDays:   c.CreditTermsDays,
		CreditStatus:      string(c.CreditStatus),
		TotalOrders:       c.TotalOrders,
		TotalSalesAmount:  c.TotalSalesAmount,
		LastPurchaseAt:    c.LastPurchaseAt,
		AverageOrderValue: c.AverageOrderValue,
		Notes:             c.Notes,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		Version:           c.Version,
	}
}

// ToCustomerListResponse converts a domain Customer to CustomerListResponse
func ToCustomerListResponse(c *partner.Customer) CustomerListResponse {
	return CustomerListResponse{
		ID:              c.ID,
		Number:          c.Number,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		BusinessType:    string(c.BusinessType),
		Status:          string(c.Status),
		City:            c.City,
		CreditLimit:     c.CreditLimit,
		CurrentBalance:  c.CurrentBalance,
		AvailableCredit: c.AvailableCredit,
		CreditStatus:    string(c.CreditStatus),
		CreatedAt:       c.CreatedAt,
	}
}

// ToCustomerListResponses converts a slice of domain Customers
func ToCustomerListResponses(customers []partner.Customer) []CustomerListResponse {
	responses := make([]CustomerListResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerListResponse(&customers[i])
	}
	return responses
}

// =============================================================================
// Credit DTOs
// =============================================================================

// CreditSummaryResponse is the server-authoritative credit availability view
type CreditSummaryResponse struct {
	CustomerID      uuid.UUID       `json:"customer_id"`
	Number          string          `json:"number"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	CreditTermsDays int             `json:"credit_terms_days"`
	CreditStatus    string          `json:"credit_status"`
	CanTransact     bool            `json:"can_transact"`
	AsOf            time.Time       `json:"as_of"`
}

// AuthorizeChargeRequest represents a credit gate check
type AuthorizeChargeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// AuthorizeChargeResponse reports the gate decision
type AuthorizeChargeResponse struct {
	Authorized      bool            `json:"authorized"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	Reason          string          `json:"reason,omitempty"`
}

// DebitRequest represents a request to charge a customer's credit account
type DebitRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	SourceType string          `json:"source_type" binding:"omitempty,oneof=SALES_ORDER MANUAL"`
	SourceID   *string         `json:"source_id"`
	Reference  string          `json:"reference" binding:"max=100"`
	Remark     string          `json:"remark" binding:"max=500"`
	OperatorID *uuid.UUID      `json:"-"`
}

// PaymentRequest represents a request to apply a payment against the balance
type PaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	SourceType string          `json:"source_type" binding:"omitempty,oneof=PAYMENT SALES_RETURN MANUAL"`
	SourceID   *string         `json:"source_id"`
	Reference  string          `json:"reference" binding:"max=100"`
	Remark     string          `json:"remark" binding:"max=500"`
	OperatorID *uuid.UUID      `json:"-"`
}

// PaymentResponse reports an applied payment, including any unapplied excess
type PaymentResponse struct {
	Transaction CreditTransactionResponse `json:"transaction"`
	Excess      decimal.Decimal           `json:"excess"`
}

// CreditTransactionResponse represents a ledger entry in API responses
type CreditTransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	SourceType      string          `json:"source_type"`
	SourceID        *string         `json:"source_id"`
	Reference       string          `json:"reference"`
	Remark          string          `json:"remark"`
	OperatorID      *uuid.UUID      `json:"operator_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CreditTransactionListFilter represents filter options for the ledger list
type CreditTransactionListFilter struct {
	TransactionType string `form:"transaction_type" binding:"omitempty,oneof=DEBIT CREDIT"`
	SourceType      string `form:"source_type" binding:"omitempty,oneof=SALES_ORDER SALES_RETURN PAYMENT MANUAL"`
	DateFrom        string `form:"date_from"`
	DateTo          string `form:"date_to"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToCreditTransactionResponse converts a domain CreditTransaction
func ToCreditTransactionResponse(t *partner.CreditTransaction) CreditTransactionResponse {
	return CreditTransactionResponse{
		ID:              t.ID,
		CustomerID:      t.CustomerID,
		TransactionType: string(t.TransactionType),
		Amount:          t.Amount,
		BalanceBefore:   t.BalanceBefore,
		BalanceAfter:    t.BalanceAfter,
		SourceType:      string(t.SourceType),
		SourceID:        t.SourceID,
		Reference:       t.Reference,
		Remark:          t.Remark,
		OperatorID:      t.OperatorID,
		TransactionDate: t.TransactionDate,
		CreatedAt:       t.CreatedAt,
	}
}

// ToCreditTransactionResponses converts a slice of ledger entries
func ToCreditTransactionResponses(transactions []*partner.CreditTransaction) []CreditTransactionResponse {
	responses := make([]CreditTransactionResponse, len(transactions))
	for i, t := range transactions {
		responses[i] = ToCreditTransactionResponse(t)
	}
	return responses
}

// ToCreditSummaryResponse builds the availability view from a customer
func ToCreditSummaryResponse(c *partner.Customer) CreditSummaryResponse {
	return CreditSummaryResponse{
		CustomerID:      c.ID,
		Number:          c.Number,
		CreditLimit:     c.CreditLimit,
		CurrentBalance:  c.CurrentBalance,
		AvailableCredit: c.AvailableCredit,
		CreditTermsDays: c.CreditTermsDays,
		CreditStatus:    string(c.CreditStatus),
		CanTransact:     c.CanTransactOnCredit(),
		AsOf:            time.Now(),
	}
}
