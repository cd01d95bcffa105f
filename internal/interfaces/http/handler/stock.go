package handler

import (
	inventoryapp "github.com/flourmill/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// StockHandler handles stock level and movement endpoints.
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Inbound godoc
// @ID           inboundStock
// @Summary      Record an inbound stock movement
// @Description  Increases stock for a product at a warehouse, creating the stock item on first receipt
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.InboundRequest true "Inbound request"
// @Success      200 {object} APIResponse[inventoryapp.StockItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/stock/inbound [post]
func (h *StockHandler) Inbound(c *gin.Context) {
	var req inventoryapp.InboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.OperatorID = getOperatorID(c)

	item, err := h.stockService.Inbound(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Outbound godoc
// @ID           outboundStock
// @Summary      Record an outbound stock movement
// @Description  Decreases stock; fails when insufficient quantity is on hand
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.OutboundRequest true "Outbound request"
// @Success      200 {object} APIResponse[inventoryapp.StockItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/stock/outbound [post]
func (h *StockHandler) Outbound(c *gin.Context) {
	var req inventoryapp.OutboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.OperatorID = getOperatorID(c)

	item, err := h.stockService.Outbound(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Adjust godoc
// @ID           adjustStock
// @Summary      Adjust a stock item to a counted quantity
// @Description  Sets the on-hand quantity after a physical count and records the delta as an adjustment
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id path string true "Stock item ID" format(uuid)
// @Param        request body inventoryapp.AdjustStockRequest true "Adjustment request"
// @Success      200 {object} APIResponse[inventoryapp.StockItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/stock/{id}/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.OperatorID = getOperatorID(c)

	item, err := h.stockService.Adjust(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// SetThreshold godoc
// @ID           setStockThreshold
// @Summary      Set the low-stock threshold for a stock item
// @Description  A zero threshold disables low-stock alerts for the item
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id path string true "Stock item ID" format(uuid)
// @Param        request body inventoryapp.SetThresholdRequest true "Threshold request"
// @Success      200 {object} APIResponse[inventoryapp.StockItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/stock/{id}/threshold [put]
func (h *StockHandler) SetThreshold(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.stockService.SetThreshold(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// GetStockItem godoc
// @ID           getStockItem
// @Summary      Get a stock item
// @Tags         stock
// @Produce      json
// @Param        id path string true "Stock item ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.StockItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/stock/{id} [get]
func (h *StockHandler) GetStockItem(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.stockService.GetStockItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// ListByWarehouse godoc
// @ID           listWarehouseStock
// @Summary      List stock items in a warehouse
// @Tags         stock
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        search query string false "Search in product code and name"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]inventoryapp.StockItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/warehouses/{id}/stock [get]
func (h *StockHandler) ListByWarehouse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var filter inventoryapp.StockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	items, total, err := h.stockService.ListByWarehouse(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListBelowThreshold godoc
// @ID           listLowStock
// @Summary      List stock items at or below their low-stock threshold
// @Tags         stock
// @Produce      json
// @Success      200 {object} APIResponse[[]inventoryapp.StockItemResponse]
// @Security     BearerAuth
// @Router       /inventory/stock/low [get]
func (h *StockHandler) ListBelowThreshold(c *gin.Context) {
	items, err := h.stockService.ListBelowThreshold(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// ListMovements godoc
// @ID           listStockMovements
// @Summary      List stock movements
// @Description  Returns the append-only movement log, newest first
// @Tags         stock
// @Produce      json
// @Param        warehouse_id query string false "Filter by warehouse" format(uuid)
// @Param        product_code query string false "Filter by product code"
// @Param        movement_type query string false "Filter by movement type" Enums(IN, OUT, ADJUST)
// @Param        source_type query string false "Filter by source type"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]inventoryapp.StockMovementResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/movements [get]
func (h *StockHandler) ListMovements(c *gin.Context) {
	var filter inventoryapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	movements, total, err := h.stockService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}
