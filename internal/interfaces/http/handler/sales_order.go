package handler

import (
	"errors"
	"io"

	tradeapp "github.com/flourmill/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SalesOrderHandler handles sales order endpoints.
type SalesOrderHandler struct {
	BaseHandler
	salesOrderService *tradeapp.SalesOrderService
}

// NewSalesOrderHandler creates a new SalesOrderHandler.
func NewSalesOrderHandler(salesOrderService *tradeapp.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{salesOrderService: salesOrderService}
}

// UpdateItemQuantityRequest changes the quantity of a draft order line
// @name HandlerUpdateItemQuantityRequest
type UpdateItemQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// Create godoc
// @ID           createSalesOrder
// @Summary      Create a sales order
// @Description  Creates a draft order with a sequential order number; nothing is shipped or charged until confirmation
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateSalesOrderRequest true "Sales order creation request"
// @Success      201 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders [post]
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.OperatorID = getOperatorID(c)

	order, err := h.salesOrderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID godoc
// @ID           getSalesOrderById
// @Summary      Get sales order by ID
// @Tags         sales-orders
// @Produce      json
// @Param        id path string true "Sales order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders/{id} [get]
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.salesOrderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByNumber godoc
// @ID           getSalesOrderByNumber
// @Summary      Get sales order by order number
// @Tags         sales-orders
// @Produce      json
// @Param        number path string true "Order number" example(SO-2026-000118)
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders/number/{number} [get]
func (h *SalesOrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.salesOrderService.GetByOrderNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @ID           listSalesOrders
// @Summary      List sales orders
// @Tags         sales-orders
// @Produce      json
// @Param        search query string false "Search in order number and customer name"
// @Param        status query string false "Filter by status" Enums(DRAFT, CONFIRMED, CANCELLED)
// @Param        payment_method query string false "Filter by payment method" Enums(cash, transfer, on_credit)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]tradeapp.SalesOrderListItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders [get]
func (h *SalesOrderHandler) List(c *gin.Context) {
	var filter tradeapp.SalesOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, total, err := h.salesOrderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// ListByCustomer godoc
// @ID           listCustomerSalesOrders
// @Summary      List a customer's sales orders
// @Tags         sales-orders
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        status query string false "Filter by status" Enums(DRAFT, CONFIRMED, CANCELLED)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]tradeapp.SalesOrderListItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id}/orders [get]
func (h *SalesOrderHandler) ListByCustomer(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var filter tradeapp.SalesOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, total, err := h.salesOrderService.ListByCustomer(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Confirm godoc
// @ID           confirmSalesOrder
// @Summary      Confirm a draft sales order
// @Description  Ships the items and, for on-credit orders, charges the customer's credit account
// @Tags         sales-orders
// @Produce      json
// @Param        id path string true "Sales order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders/{id}/confirm [post]
func (h *SalesOrderHandler) Confirm(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.salesOrderService.Confirm(c.Request.Context(), id, getOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelSalesOrder
// @Summary      Cancel a sales order
// @Description  Cancelling a confirmed order restores stock and reverses any credit charge
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Sales order ID" format(uuid)
// @Param        request body tradeapp.CancelOrderRequest false "Cancellation reason"
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders/{id}/cancel [post]
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	// The cancellation reason is optional, an empty body is fine.
	var req tradeapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return
	}

	order, err := h.salesOrderService.Cancel(c.Request.Context(), id, req, getOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateItemQuantity godoc
// @ID           updateSalesOrderItemQuantity
// @Summary      Change a line item quantity on a draft order
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Sales order ID" format(uuid)
// @Param        item_id path string true "Order item ID" format(uuid)
// @Param        request body UpdateItemQuantityRequest true "New quantity"
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders/{id}/items/{item_id} [put]
func (h *SalesOrderHandler) UpdateItemQuantity(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseIDParam(c, "item_id")
	if !ok {
		return
	}

	var req UpdateItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.salesOrderService.UpdateItemQuantity(c.Request.Context(), id, itemID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveItem godoc
// @ID           removeSalesOrderItem
// @Summary      Remove a line item from a draft order
// @Tags         sales-orders
// @Produce      json
// @Param        id path string true "Sales order ID" format(uuid)
// @Param        item_id path string true "Order item ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders/{id}/items/{item_id} [delete]
func (h *SalesOrderHandler) RemoveItem(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseIDParam(c, "item_id")
	if !ok {
		return
	}

	order, err := h.salesOrderService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
