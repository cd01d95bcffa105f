package handler

import (
	"errors"
	"io"

	tradeapp "github.com/flourmill/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler handles purchase order endpoints.
type PurchaseOrderHandler struct {
	BaseHandler
	purchaseOrderService *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler.
func NewPurchaseOrderHandler(purchaseOrderService *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{purchaseOrderService: purchaseOrderService}
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Create a purchase order
// @Description  Creates a draft purchase order with a sequential order number
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreatePurchaseOrderRequest true "Purchase order creation request"
// @Success      201 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.OperatorID = getOperatorID(c)

	order, err := h.purchaseOrderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID godoc
// @ID           getPurchaseOrderById
// @Summary      Get purchase order by ID
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.purchaseOrderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        search query string false "Search in order number and supplier name"
// @Param        status query string false "Filter by status" Enums(DRAFT, CONFIRMED, RECEIVED, CANCELLED)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]tradeapp.PurchaseOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter tradeapp.PurchaseOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, total, err := h.purchaseOrderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Confirm godoc
// @ID           confirmPurchaseOrder
// @Summary      Confirm a draft purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/purchase-orders/{id}/confirm [post]
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.purchaseOrderService.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Receive godoc
// @ID           receivePurchaseOrder
// @Summary      Receive a confirmed purchase order
// @Description  Books every line item into the destination warehouse as inbound stock
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.purchaseOrderService.Receive(c.Request.Context(), id, getOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelPurchaseOrder
// @Summary      Cancel a purchase order
// @Description  Draft and confirmed orders can be cancelled; received orders cannot
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase order ID" format(uuid)
// @Param        request body tradeapp.CancelOrderRequest false "Cancellation reason"
// @Success      200 {object} APIResponse[tradeapp.PurchaseOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
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

	order, err := h.purchaseOrderService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
