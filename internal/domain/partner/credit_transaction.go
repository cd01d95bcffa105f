package partner

import (
	"time"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditTransactionType represents the ledger direction of an entry
type CreditTransactionType string

const (
	// CreditTransactionTypeDebit increases the owed balance (new credit sale)
	CreditTransactionTypeDebit CreditTransactionType = "DEBIT"
	// CreditTransactionTypeCredit decreases the owed balance (payment or return)
	CreditTransactionTypeCredit CreditTransactionType = "CREDIT"
)

// String returns the string representation of CreditTransactionType
func (t CreditTransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t CreditTransactionType) IsValid() bool {
	switch t {
	case CreditTransactionTypeDebit, CreditTransactionTypeCredit:
		return true
	}
	return false
}

// CreditSourceType identifies the document that caused a ledger entry
type CreditSourceType string

const (
	CreditSourceTypeSalesOrder  CreditSourceType = "SALES_ORDER"
	CreditSourceTypeSalesReturn CreditSourceType = "SALES_RETURN"
	CreditSourceTypePayment     CreditSourceType = "PAYMENT"
	CreditSourceTypeManual      CreditSourceType = "MANUAL"
)

// IsValid returns true if the source type is valid
func (s CreditSourceType) IsValid() bool {
	switch s {
	case CreditSourceTypeSalesOrder, CreditSourceTypeSalesReturn, CreditSourceTypePayment, CreditSourceTypeManual:
		return true
	}
	return false
}

// CreditTransaction is an immutable record of a customer balance change.
// Corrections are made with new entries, never by editing existing rows.
type CreditTransaction struct {
	shared.BaseEntity
	CustomerID      uuid.UUID
	TransactionType CreditTransactionType
	Amount          decimal.Decimal // always positive, direction determined by type
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	SourceType      CreditSourceType
	SourceID        *string
	Reference       string
	Remark          string
	OperatorID      *uuid.UUID
	TransactionDate time.Time
}

// NewCreditTransaction creates a new ledger entry
func NewCreditTransaction(
	customerID uuid.UUID,
	txType CreditTransactionType,
	amount, balanceBefore, balanceAfter decimal.Decimal,
	sourceType CreditSourceType,
) (*CreditTransaction, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid credit transaction type")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if balanceBefore.IsNegative() || balanceAfter.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance cannot be negative")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}

	return &CreditTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		CustomerID:      customerID,
		TransactionType: txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		SourceType:      sourceType,
		TransactionDate: time.Now(),
	}, nil
}

// WithSourceID sets the source document ID for the entry
func (t *CreditTransaction) WithSourceID(sourceID string) *CreditTransaction {
	t.SourceID = &sourceID
	return t
}

// WithReference sets the reference number for the entry
func (t *CreditTransaction) WithReference(reference string) *CreditTransaction {
	t.Reference = reference
	return t
}

// WithRemark sets the remark for the entry
func (t *CreditTransaction) WithRemark(remark string) *CreditTransaction {
	t.Remark = remark
	return t
}

// WithOperatorID sets the operator who performed the operation
func (t *CreditTransaction) WithOperatorID(operatorID uuid.UUID) *CreditTransaction {
	t.OperatorID = &operatorID
	return t
}

// SignedAmount returns the amount signed by ledger direction:
// positive for debits (balance up), negative for credits (balance down)
func (t *CreditTransaction) SignedAmount() decimal.Decimal {
	if t.TransactionType == CreditTransactionTypeCredit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// BalanceChange returns the net balance change recorded by the entry.
// For payments that overshoot zero this is smaller than the signed amount.
func (t *CreditTransaction) BalanceChange() decimal.Decimal {
	return t.BalanceAfter.Sub(t.BalanceBefore)
}
