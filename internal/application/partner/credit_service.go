package partner

import (
	"context"
	"errors"
	"time"

	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxSaveAttempts bounds the reload-and-retry loop on version conflicts
const maxSaveAttempts = 3

// CreditSnapshotCache caches the credit availability view for the
// read-only preview endpoint. A miss or cache failure always falls
// back to the database; the stored customer record stays authoritative.
type CreditSnapshotCache interface {
	Get(ctx context.Context, customerID uuid.UUID) (*CreditSummaryResponse, error)
	Set(ctx context.Context, snapshot CreditSummaryResponse) error
	Invalidate(ctx context.Context, customerID uuid.UUID) error
}

// CreditService handles the customer credit ledger: the authorization
// gate, balance mutations with their immutable ledger entries, and the
// availability preview.
type CreditService struct {
	customerRepo   partner.CustomerRepository
	creditTxRepo   partner.CreditTransactionRepository
	snapshotCache  CreditSnapshotCache
	eventPublisher shared.EventPublisher
}

// NewCreditService creates a new CreditService
func NewCreditService(
	customerRepo partner.CustomerRepository,
	creditTxRepo partner.CreditTransactionRepository,
) *CreditService {
	return &CreditService{
		customerRepo: customerRepo,
		creditTxRepo: creditTxRepo,
	}
}

// SetSnapshotCache sets the cache for the availability preview
func (s *CreditService) SetSnapshotCache(cache CreditSnapshotCache) {
	s.snapshotCache = cache
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CreditService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CreditService) publishDomainEvents(ctx context.Context, customer *partner.Customer) {
	if s.eventPublisher == nil {
		return
	}
	events := customer.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	customer.ClearDomainEvents()
}

func (s *CreditService) refreshSnapshot(ctx context.Context, customer *partner.Customer) {
	if s.snapshotCache == nil {
		return
	}
	// Preview staleness is bounded by TTL; write failures are not fatal
	_ = s.snapshotCache.Set(ctx, ToCreditSummaryResponse(customer))
}

// Authorize runs the credit gate for a proposed charge without mutating
// anything. The decision is advisory: the balance can move before the
// caller commits, so confirmation re-runs the gate under the lock.
func (s *CreditService) Authorize(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (*AuthorizeChargeResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.AuthorizeCharge(amount); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			switch domainErr.Code {
			case "CREDIT_INACTIVE", "INSUFFICIENT_CREDIT":
				return &AuthorizeChargeResponse{
					Authorized:      false,
					AvailableCredit: customer.AvailableCredit,
					Reason:          domainErr.Message,
				}, nil
			}
		}
		return nil, err
	}

	return &AuthorizeChargeResponse{
		Authorized:      true,
		AvailableCredit: customer.AvailableCredit,
	}, nil
}

// Debit charges a customer's credit account and records the ledger entry.
// The gate is enforced on the freshly loaded customer inside the retry
// loop, so a concurrent debit cannot slip past the limit.
func (s *CreditService) Debit(ctx context.Context, customerID uuid.UUID, req DebitRequest) (*CreditTransactionResponse, error) {
	sourceType := partner.CreditSourceTypeManual
	if req.SourceType != "" {
		sourceType = partner.CreditSourceType(req.SourceType)
	}

	var transaction *partner.CreditTransaction

	for attempt := 1; ; attempt++ {
		customer, err := s.customerRepo.FindByID(ctx, customerID)
		if err != nil {
			return nil, err
		}

		if err := customer.AuthorizeCharge(req.Amount); err != nil {
			return nil, err
		}

		balanceBefore := customer.CurrentBalance
		if err := customer.Debit(req.Amount); err != nil {
			return nil, err
		}

		transaction, err = partner.NewCreditTransaction(
			customerID,
			partner.CreditTransactionTypeDebit,
			req.Amount,
			balanceBefore,
			customer.CurrentBalance,
			sourceType,
		)
		if err != nil {
			return nil, err
		}
		applyTransactionOptions(transaction, req.SourceID, req.Reference, req.Remark, req.OperatorID)

		err = s.customerRepo.SaveWithLock(ctx, customer)
		if err == nil {
			s.publishDomainEvents(ctx, customer)
			s.refreshSnapshot(ctx, customer)
			break
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= maxSaveAttempts {
			return nil, err
		}
	}

	if err := s.creditTxRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	response := ToCreditTransactionResponse(transaction)
	return &response, nil
}

// ApplyPayment reduces a customer's owed balance and records the ledger
// entry. Payments larger than the balance floor it at zero; the excess
// is reported to the caller and noted on the entry, never carried as a
// negative balance.
func (s *CreditService) ApplyPayment(ctx context.Context, customerID uuid.UUID, req PaymentRequest) (*PaymentResponse, error) {
	sourceType := partner.CreditSourceTypePayment
	if req.SourceType != "" {
		sourceType = partner.CreditSourceType(req.SourceType)
	}

	var (
		transaction *partner.CreditTransaction
		excess      decimal.Decimal
	)

	for attempt := 1; ; attempt++ {
		customer, err := s.customerRepo.FindByID(ctx, customerID)
		if err != nil {
			return nil, err
		}

		balanceBefore := customer.CurrentBalance
		excess, err = customer.ApplyPayment(req.Amount)
		if err != nil {
			return nil, err
		}

		transaction, err = partner.NewCreditTransaction(
			customerID,
			partner.CreditTransactionTypeCredit,
			req.Amount,
			balanceBefore,
			customer.CurrentBalance,
			sourceType,
		)
		if err != nil {
			return nil, err
		}
		applyTransactionOptions(transaction, req.SourceID, req.Reference, req.Remark, req.OperatorID)
		if excess.IsPositive() {
			remark := transaction.Remark
			if remark != "" {
				remark += "; "
			}
			transaction.WithRemark(remark + "unapplied excess " + excess.StringFixed(2))
		}

		err = s.customerRepo.SaveWithLock(ctx, customer)
		if err == nil {
			s.publishDomainEvents(ctx, customer)
			s.refreshSnapshot(ctx, customer)
			break
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= maxSaveAttempts {
			return nil, err
		}
	}

	if err := s.creditTxRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	return &PaymentResponse{
		Transaction: ToCreditTransactionResponse(transaction),
		Excess:      excess,
	}, nil
}

// GetCreditSummary returns the availability preview for a customer.
// Served from the snapshot cache when fresh, recomputed from the store
// on a miss.
func (s *CreditService) GetCreditSummary(ctx context.Context, customerID uuid.UUID) (*CreditSummaryResponse, error) {
	if s.snapshotCache != nil {
		if snapshot, err := s.snapshotCache.Get(ctx, customerID); err == nil && snapshot != nil {
			return snapshot, nil
		}
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	summary := ToCreditSummaryResponse(customer)
	if s.snapshotCache != nil {
		_ = s.snapshotCache.Set(ctx, summary)
	}

	return &summary, nil
}

// GetTransaction retrieves a ledger entry by ID
func (s *CreditService) GetTransaction(ctx context.Context, id uuid.UUID) (*CreditTransactionResponse, error) {
	transaction, err := s.creditTxRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCreditTransactionResponse(transaction)
	return &response, nil
}

// ListTransactions retrieves the ledger for a customer, newest first
func (s *CreditService) ListTransactions(ctx context.Context, customerID uuid.UUID, filter CreditTransactionListFilter) ([]CreditTransactionResponse, int64, error) {
	// Verify customer exists
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, 0, err
	}

	domainFilter := partner.CreditTransactionFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	if filter.TransactionType != "" {
		txType := partner.CreditTransactionType(filter.TransactionType)
		domainFilter.TransactionType = &txType
	}

	if filter.SourceType != "" {
		srcType := partner.CreditSourceType(filter.SourceType)
		domainFilter.SourceType = &srcType
	}

	if filter.DateFrom != "" {
		if t, err := time.Parse("2006-01-02", filter.DateFrom); err == nil {
			domainFilter.DateFrom = &t
		}
	}

	if filter.DateTo != "" {
		if t, err := time.Parse("2006-01-02", filter.DateTo); err == nil {
			// Add 1 day to include the end date
			t = t.Add(24 * time.Hour)
			domainFilter.DateTo = &t
		}
	}

	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}

	transactions, total, err := s.creditTxRepo.FindByCustomerID(ctx, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCreditTransactionResponses(transactions), total, nil
}

func applyTransactionOptions(t *partner.CreditTransaction, sourceID *string, reference, remark string, operatorID *uuid.UUID) {
	if sourceID != nil {
		t.WithSourceID(*sourceID)
	}
	if reference != "" {
		t.WithReference(reference)
	}
	if remark != "" {
		t.WithRemark(remark)
	}
	if operatorID != nil {
		t.WithOperatorID(*operatorID)
	}
}
