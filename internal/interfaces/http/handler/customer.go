package handler

import (
	partnerapp "github.com/flourmill/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer management endpoints.
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Register godoc
// @ID           registerCustomer
// @Summary      Register a new customer
// @Description  Registers a customer and assigns a sequential customer number
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.RegisterCustomerRequest true "Customer registration request"
// @Success      201 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers [post]
func (h *CustomerHandler) Register(c *gin.Context) {
	var req partnerapp.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// GetByNumber godoc
// @ID           getCustomerByNumber
// @Summary      Get customer by customer number
// @Tags         customers
// @Produce      json
// @Param        number path string true "Customer number" example(CUST-000042)
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/number/{number} [get]
func (h *CustomerHandler) GetByNumber(c *gin.Context) {
	customer, err := h.customerService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Lists customers with filtering, search, and pagination
// @Tags         customers
// @Produce      json
// @Param        search query string false "Search in name, number, email, business name"
// @Param        status query string false "Filter by status" Enums(active, inactive, suspended)
// @Param        business_type query string false "Filter by business type"
// @Param        credit_status query string false "Filter by credit status" Enums(active, suspended, blocked)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]partnerapp.CustomerListResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update customer details
// @Description  Updates profile fields; unset fields are left unchanged
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.UpdateCustomerRequest true "Customer update request"
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req partnerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// UpdateCredit godoc
// @ID           updateCustomerCredit
// @Summary      Update customer credit terms
// @Description  Changes credit limit, terms, or credit status
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.UpdateCreditRequest true "Credit update request"
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id}/credit [put]
func (h *CustomerHandler) UpdateCredit(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req partnerapp.UpdateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.UpdateCredit(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Activate godoc
// @ID           activateCustomer
// @Summary      Activate a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id}/activate [post]
func (h *CustomerHandler) Activate(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate godoc
// @ID           deactivateCustomer
// @Summary      Deactivate a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id}/deactivate [post]
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Suspend godoc
// @ID           suspendCustomer
// @Summary      Suspend a customer
// @Description  Suspends the customer account; credit operations are rejected while suspended
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id}/suspend [post]
func (h *CustomerHandler) Suspend(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Suspend(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
