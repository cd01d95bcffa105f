package persistence

import (
	"context"
	"errors"

	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCreditTransactionRepository implements CreditTransactionRepository using GORM.
// Ledger entries are append-only; the repository exposes no update path.
type GormCreditTransactionRepository struct {
	db *gorm.DB
}

// NewGormCreditTransactionRepository creates a new GormCreditTransactionRepository
func NewGormCreditTransactionRepository(db *gorm.DB) *GormCreditTransactionRepository {
	return &GormCreditTransactionRepository{db: db}
}

// Create creates a new ledger entry
func (r *GormCreditTransactionRepository) Create(ctx context.Context, transaction *partner.CreditTransaction) error {
	model := models.CreditTransactionModelFromDomain(transaction)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a ledger entry by ID
func (r *GormCreditTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CreditTransaction, error) {
	var model models.CreditTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomerID lists ledger entries for a customer, newest first
func (r *GormCreditTransactionRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, filter partner.CreditTransactionFilter) ([]*partner.CreditTransaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CreditTransactionModel{}).
		Where("customer_id = ?", customerID)

	if filter.TransactionType != nil {
		query = query.Where("transaction_type = ?", *filter.TransactionType)
	}
	if filter.SourceType != nil {
		query = query.Where("source_type = ?", *filter.SourceType)
	}
	if filter.DateFrom != nil {
		query = query.Where("transaction_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("transaction_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var transactionModels []models.CreditTransactionModel
	if err := query.Order("transaction_date DESC, created_at DESC").Find(&transactionModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*partner.CreditTransaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToDomain()
	}
	return transactions, total, nil
}

// FindBySourceID finds ledger entries by source document
func (r *GormCreditTransactionRepository) FindBySourceID(ctx context.Context, sourceType partner.CreditSourceType, sourceID string) ([]*partner.CreditTransaction, error) {
	var transactionModels []models.CreditTransactionModel
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("transaction_date DESC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*partner.CreditTransaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToDomain()
	}
	return transactions, nil
}

// Ensure GormCreditTransactionRepository implements CreditTransactionRepository
var _ partner.CreditTransactionRepository = (*GormCreditTransactionRepository)(nil)
