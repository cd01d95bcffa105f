package partner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the overall account status of a customer
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusInactive  CustomerStatus = "inactive"
	CustomerStatusSuspended CustomerStatus = "suspended"
)

// BusinessType classifies how the customer trades with the mill
type BusinessType string

const (
	BusinessTypeRetailer    BusinessType = "retailer"
	BusinessTypeWholesaler  BusinessType = "wholesaler"
	BusinessTypeDistributor BusinessType = "distributor"
	BusinessTypeIndividual  BusinessType = "individual"
	BusinessTypeOther       BusinessType = "other"
)

// CreditStatus gates credit-based transactions independently of the balance
type CreditStatus string

const (
	CreditStatusActive    CreditStatus = "active"
	CreditStatusSuspended CreditStatus = "suspended"
	CreditStatusBlocked   CreditStatus = "blocked"
)

// Credit errors surfaced by the authorization gate
var (
	ErrCustomerNotFound = shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
	ErrCreditInactive   = shared.NewDomainError("CREDIT_INACTIVE", "Customer credit is not active")
)

// NewInsufficientCreditError builds the gate rejection carrying the available amount
func NewInsufficientCreditError(available decimal.Decimal) *shared.DomainError {
	return shared.NewDomainError("INSUFFICIENT_CREDIT",
		fmt.Sprintf("Requested amount exceeds available credit (%s available)", available.StringFixed(2)))
}

// Customer is the aggregate root for the mill's customer ledger.
// The credit sub-record (limit, current balance, derived available credit)
// is the authoritative source for credit-sale authorization.
type Customer struct {
	shared.BaseAggregateRoot
	Number       string
	Name         string
	Email        string
	Phone        string
	NationalID   string
	BusinessName string
	BusinessType BusinessType
	Status       CustomerStatus

	// Address
	Street     string
	City       string
	Region     string
	PostalCode string
	Country    string

	// Credit sub-record
	CreditLimit     decimal.Decimal
	CurrentBalance  decimal.Decimal
	AvailableCredit decimal.Decimal // always max(0, limit - balance), recomputed on every mutation
	CreditTermsDays int
	CreditStatus    CreditStatus

	// Rolling sales summary, informational only
	TotalOrders       int
	TotalSalesAmount  decimal.Decimal
	LastPurchaseAt    *time.Time
	AverageOrderValue decimal.Decimal

	Notes string
}

// AvailableCreditOf computes the credit headroom: max(0, limit - balance).
// Pure and deterministic; stored state is always derived through it.
func AvailableCreditOf(creditLimit, currentBalance decimal.Decimal) decimal.Decimal {
	available := creditLimit.Sub(currentBalance)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// NewCustomer creates a new customer with an allocated number
func NewCustomer(number, name, email string, businessType BusinessType) (*Customer, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Customer number cannot be empty")
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateBusinessType(businessType); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Name:              name,
		Email:             strings.ToLower(email),
		BusinessType:      businessType,
		Status:            CustomerStatusActive,
		CreditLimit:       decimal.Zero,
		CurrentBalance:    decimal.Zero,
		AvailableCredit:   decimal.Zero,
		CreditTermsDays:   30,
		CreditStatus:      CreditStatusActive,
		TotalSalesAmount:  decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}

	customer.AddDomainEvent(NewCustomerRegisteredEvent(customer))

	return customer, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name, phone, businessName string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if len(businessName) > 200 {
		return shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot exceed 200 characters")
	}

	c.Name = name
	c.Phone = phone
	c.BusinessName = businessName
	c.touch()

	return nil
}

// SetEmail sets the customer's unique email address
func (c *Customer) SetEmail(email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	c.Email = strings.ToLower(email)
	c.touch()
	return nil
}

// SetNationalID sets the customer's national identification number
func (c *Customer) SetNationalID(nationalID string) error {
	if len(nationalID) > 50 {
		return shared.NewDomainError("INVALID_NATIONAL_ID", "National ID cannot exceed 50 characters")
	}
	c.NationalID = nationalID
	c.touch()
	return nil
}

// SetAddress sets the customer's postal address
func (c *Customer) SetAddress(street, city, region, postalCode, country string) error {
	for _, f := range []struct {
		value string
		max   int
		code  string
		name  string
	}{
		{street, 300, "INVALID_STREET", "Street"},
		{city, 100, "INVALID_CITY", "City"},
		{region, 100, "INVALID_REGION", "Region"},
		{postalCode, 20, "INVALID_POSTAL_CODE", "Postal code"},
		{country, 100, "INVALID_COUNTRY", "Country"},
	} {
		if len(f.value) > f.max {
			return shared.NewDomainError(f.code, fmt.Sprintf("%s cannot exceed %d characters", f.name, f.max))
		}
	}

	c.Street = street
	c.City = city
	c.Region = region
	c.PostalCode = postalCode
	c.Country = country
	c.touch()

	return nil
}

// SetCreditLimit sets the customer's credit limit and recomputes availability
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	c.CreditLimit = limit
	c.recalculateAvailableCredit()
	c.touch()

	return nil
}

// SetCreditTerms sets the payment due window in days (informational)
func (c *Customer) SetCreditTerms(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_CREDIT_TERMS", "Credit terms cannot be negative")
	}
	c.CreditTermsDays = days
	c.touch()
	return nil
}

// SetCreditStatus sets the credit gate status
func (c *Customer) SetCreditStatus(status CreditStatus) error {
	if err := ValidateCreditStatus(status); err != nil {
		return err
	}

	old := c.CreditStatus
	c.CreditStatus = status
	c.touch()

	if old != status {
		c.AddDomainEvent(NewCustomerCreditStatusChangedEvent(c, old, status))
	}

	return nil
}

// AuthorizeCharge checks whether a proposed credit sale may proceed.
// Read-only: callers apply the debit as a separate explicit step.
func (c *Customer) AuthorizeCharge(amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Charge amount must be positive")
	}
	if c.Status != CustomerStatusActive || c.CreditStatus != CreditStatusActive {
		return ErrCreditInactive
	}
	available := AvailableCreditOf(c.CreditLimit, c.CurrentBalance)
	if available.LessThan(amount) {
		return NewInsufficientCreditError(available)
	}
	return nil
}

// Debit increases the owed balance (new credit sale) and recomputes availability
func (c *Customer) Debit(amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}

	before := c.CurrentBalance
	c.CurrentBalance = c.CurrentBalance.Add(amount)
	c.recalculateAvailableCredit()
	c.touch()

	c.AddDomainEvent(NewCustomerBalanceChangedEvent(c, before, c.CurrentBalance, "debit"))

	return nil
}

// ApplyPayment decreases the owed balance (payment or return), floored at zero.
// Returns the excess that could not be applied; it is not carried as a
// customer-side credit.
func (c *Customer) ApplyPayment(amount decimal.Decimal) (excess decimal.Decimal, err error) {
	if amount.IsNegative() || amount.IsZero() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	before := c.CurrentBalance
	next := c.CurrentBalance.Sub(amount)
	if next.IsNegative() {
		excess = next.Neg()
		next = decimal.Zero
	}
	c.CurrentBalance = next
	c.recalculateAvailableCredit()
	c.touch()

	c.AddDomainEvent(NewCustomerBalanceChangedEvent(c, before, c.CurrentBalance, "credit"))

	return excess, nil
}

// RecordSale updates the rolling sales summary after a confirmed order
func (c *Customer) RecordSale(total decimal.Decimal, at time.Time) {
	c.TotalOrders++
	c.TotalSalesAmount = c.TotalSalesAmount.Add(total)
	c.LastPurchaseAt = &at
	c.AverageOrderValue = c.TotalSalesAmount.DivRound(decimal.NewFromInt(int64(c.TotalOrders)), 4)
	c.touch()
}

// SetNotes sets free-form notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.touch()
}

// Activate activates the customer account
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}
	c.Status = CustomerStatusActive
	c.touch()
	return nil
}

// Deactivate disables the account without deleting it
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}
	c.Status = CustomerStatusInactive
	c.touch()
	return nil
}

// Suspend suspends the account, typically over unsettled balances
func (c *Customer) Suspend() error {
	if c.Status == CustomerStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Customer is already suspended")
	}
	c.Status = CustomerStatusSuspended
	c.touch()
	return nil
}

// IsActive returns true if the customer account is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// CanTransactOnCredit returns true when the credit gate would not reject on status
func (c *Customer) CanTransactOnCredit() bool {
	return c.Status == CustomerStatusActive && c.CreditStatus == CreditStatusActive
}

// FullAddress returns the formatted postal address
func (c *Customer) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{c.Street, c.City, c.Region, c.PostalCode, c.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (c *Customer) recalculateAvailableCredit() {
	c.AvailableCredit = AvailableCreditOf(c.CreditLimit, c.CurrentBalance)
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Validation functions

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

// ValidateBusinessType rejects values outside the closed business type set
func ValidateBusinessType(t BusinessType) error {
	switch t {
	case BusinessTypeRetailer, BusinessTypeWholesaler, BusinessTypeDistributor, BusinessTypeIndividual, BusinessTypeOther:
		return nil
	default:
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid business type")
	}
}

// ValidateCreditStatus rejects values outside the closed credit status set
func ValidateCreditStatus(s CreditStatus) error {
	switch s {
	case CreditStatusActive, CreditStatusSuspended, CreditStatusBlocked:
		return nil
	default:
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid credit status")
	}
}

// ValidateCustomerStatus rejects values outside the closed account status set
func ValidateCustomerStatus(s CustomerStatus) error {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusSuspended:
		return nil
	default:
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid customer status")
	}
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
