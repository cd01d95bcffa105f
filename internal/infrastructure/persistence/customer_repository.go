package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/flourmill/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, partner.ErrCustomerNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a customer by its customer number
func (r *GormCustomerRepository) FindByNumber(ctx context.Context, number string) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("number = ?", strings.ToUpper(number)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, partner.ErrCustomerNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a customer by email
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, partner.ErrCustomerNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return toDomainCustomers(customerModels), nil
}

// FindByStatus finds customers by account status
func (r *GormCustomerRepository) FindByStatus(ctx context.Context, status partner.CustomerStatus, filter shared.Filter) ([]partner.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return toDomainCustomers(customerModels), nil
}

// FindByBusinessType finds customers by business type
func (r *GormCustomerRepository) FindByBusinessType(ctx context.Context, businessType partner.BusinessType, filter shared.Filter) ([]partner.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("business_type = ?", businessType),
		filter,
	)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return toDomainCustomers(customerModels), nil
}

// Search finds customers whose number, name or email matches the query
func (r *GormCustomerRepository) Search(ctx context.Context, search string, filter shared.Filter) ([]partner.Customer, error) {
	filter.Search = search
	return r.FindAll(ctx, filter)
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a customer guarded by its version. The UPDATE only
// matches the row when the stored version equals the version the aggregate
// was loaded with; zero rows affected means another writer got there first.
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", customer.ID, customer.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks if a customer with the given email exists
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByNationalID checks if a customer with the given national ID exists
func (r *GormCustomerRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	if nationalID == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("national_id = ?", nationalID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CustomerSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCustomerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR number ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "business_type":
			query = query.Where("business_type = ?", value)
		case "credit_status":
			query = query.Where("credit_status = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		case "has_balance":
			if value == true {
				query = query.Where("current_balance > 0")
			} else {
				query = query.Where("current_balance = 0")
			}
		}
	}

	return query
}

func toDomainCustomers(customerModels []models.CustomerModel) []partner.Customer {
	customers := make([]partner.Customer, len(customerModels))
	for i, model := range customerModels {
		customers[i] = *model.ToDomain()
	}
	return customers
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
