package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CreditTransactionFilter contains filter options for listing ledger entries
type CreditTransactionFilter struct {
	TransactionType *CreditTransactionType
	SourceType      *CreditSourceType
	DateFrom        *time.Time
	DateTo          *time.Time
	Page            int
	PageSize        int
}

// CreditTransactionRepository defines the interface for ledger persistence
type CreditTransactionRepository interface {
	// Create creates a new ledger entry
	Create(ctx context.Context, transaction *CreditTransaction) error

	// FindByID finds a ledger entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CreditTransaction, error)

	// FindByCustomerID lists ledger entries for a customer, newest first
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, filter CreditTransactionFilter) ([]*CreditTransaction, int64, error)

	// FindBySourceID finds ledger entries by source document
	FindBySourceID(ctx context.Context, sourceType CreditSourceType, sourceID string) ([]*CreditTransaction, error)
}
