package partner

import (
	"context"

	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	sequenceRepo   partner.SequenceRepository
	eventPublisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	sequenceRepo partner.SequenceRepository,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		sequenceRepo: sequenceRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes and clears the customer's pending events
func (s *CustomerService) publishDomainEvents(ctx context.Context, customer *partner.Customer) {
	if s.eventPublisher == nil {
		return
	}
	events := customer.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	customer.ClearDomainEvents()
}

// Register registers a new customer with an allocated customer number
func (s *CustomerService) Register(ctx context.Context, req RegisterCustomerRequest) (*CustomerResponse, error) {
	// Check if email already exists
	exists, err := s.customerRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	// Check if national ID already exists (if provided)
	if req.NationalID != "" {
		exists, err = s.customerRepo.ExistsByNationalID(ctx, req.NationalID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this national ID already exists")
		}
	}

	// Allocate the customer number from the shared sequence
	seq, err := s.sequenceRepo.Next(ctx, partner.SequenceCustomer)
	if err != nil {
		return nil, err
	}
	number := partner.FormatCustomerNumber(seq)

	businessType := partner.BusinessType(req.BusinessType)
	customer, err := partner.NewCustomer(number, req.Name, req.Email, businessType)
	if err != nil {
		return nil, err
	}

	// Set optional fields
	if req.Phone != "" || req.BusinessName != "" {
		if err := customer.Update(req.Name, req.Phone, req.BusinessName); err != nil {
			return nil, err
		}
	}

	if req.NationalID != "" {
		if err := customer.SetNationalID(req.NationalID); err != nil {
			return nil, err
		}
	}

	if req.Street != "" || req.City != "" || req.Region != "" || req.PostalCode != "" || req.Country != "" {
		if err := customer.SetAddress(req.Street, req.City, req.Region, req.PostalCode, req.Country); err != nil {
			return nil, err
		}
	}

	if req.CreditLimit != nil && !req.CreditLimit.IsZero() {
		if err := customer.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}

	if req.CreditTermsDays != nil {
		if err := customer.SetCreditTerms(*req.CreditTermsDays); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByNumber retrieves a customer by its customer number
func (s *CustomerService) GetByNumber(ctx context.Context, number string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a list of customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerListResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.BusinessType != "" {
		domainFilter.Filters["business_type"] = filter.BusinessType
	}
	if filter.CreditStatus != "" {
		domainFilter.Filters["credit_status"] = filter.CreditStatus
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerListResponses(customers), total, nil
}

// Update updates a customer's profile
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Phone != nil || req.BusinessName != nil {
		name := customer.Name
		if req.Name != nil {
			name = *req.Name
		}
		phone := customer.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		businessName := customer.BusinessName
		if req.BusinessName != nil {
			businessName = *req.BusinessName
		}
		if err := customer.Update(name, phone, businessName); err != nil {
			return nil, err
		}
	}

	if req.Email != nil && *req.Email != customer.Email {
		exists, err := s.customerRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
		}
		if err := customer.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	if req.NationalID != nil {
		if err := customer.SetNationalID(*req.NationalID); err != nil {
			return nil, err
		}
	}

	if req.Street != nil || req.City != nil || req.Region != nil || req.PostalCode != nil || req.Country != nil {
		street := customer.Street
		if req.Street != nil {
			street = *req.Street
		}
		city := customer.City
		if req.City != nil {
			city = *req.City
		}
		region := customer.Region
		if req.Region != nil {
			region = *req.Region
		}
		postalCode := customer.PostalCode
		if req.PostalCode != nil {
			postalCode = *req.PostalCode
		}
		country := customer.Country
		if req.Country != nil {
			country = *req.Country
		}
		if err := customer.SetAddress(street, city, region, postalCode, country); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		customer.SetNotes(*req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// UpdateCredit updates a customer's credit limit, terms or gate status
func (s *CustomerService) UpdateCredit(ctx context.Context, customerID uuid.UUID, req UpdateCreditRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.CreditLimit != nil {
		if err := customer.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}

	if req.CreditTermsDays != nil {
		if err := customer.SetCreditTerms(*req.CreditTermsDays); err != nil {
			return nil, err
		}
	}

	if req.CreditStatus != nil {
		if err := customer.SetCreditStatus(partner.CreditStatus(*req.CreditStatus)); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Activate activates a customer account
func (s *CustomerService) Activate(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := customer.Activate(); err != nil {
		return err
	}

	return s.customerRepo.Save(ctx, customer)
}

// Deactivate deactivates a customer account
func (s *CustomerService) Deactivate(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := customer.Deactivate(); err != nil {
		return err
	}

	return s.customerRepo.Save(ctx, customer)
}

// Suspend suspends a customer account
func (s *CustomerService) Suspend(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := customer.Suspend(); err != nil {
		return err
	}

	return s.customerRepo.Save(ctx, customer)
}
