package partner

import (
	"context"

	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByNumber finds a customer by its customer number
	FindByNumber(ctx context.Context, number string) (*Customer, error)

	// FindByEmail finds a customer by email
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindAll finds all customers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// FindByStatus finds customers by account status
	FindByStatus(ctx context.Context, status CustomerStatus, filter shared.Filter) ([]Customer, error)

	// FindByBusinessType finds customers by business type
	FindByBusinessType(ctx context.Context, businessType BusinessType, filter shared.Filter) ([]Customer, error)

	// Search finds customers whose number, name or email matches the query
	Search(ctx context.Context, query string, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// SaveWithLock saves a customer with an optimistic version check.
	// Returns ErrConcurrencyConflict-class error when the stored version differs.
	SaveWithLock(ctx context.Context, customer *Customer) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByEmail checks if a customer with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByNationalID checks if a customer with the given national ID exists
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
}
