package handler

import (
	inventoryapp "github.com/flourmill/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler handles warehouse management endpoints.
type WarehouseHandler struct {
	BaseHandler
	warehouseService *inventoryapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler.
func NewWarehouseHandler(warehouseService *inventoryapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// Create godoc
// @ID           createWarehouse
// @Summary      Create a new warehouse
// @Description  Creates a warehouse; the code is normalized to uppercase and must be unique
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateWarehouseRequest true "Warehouse creation request"
// @Success      201 {object} APIResponse[inventoryapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	warehouse, err := h.warehouseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, warehouse)
}

// GetByID godoc
// @ID           getWarehouseById
// @Summary      Get warehouse by ID
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.WarehouseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	warehouse, err := h.warehouseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// List godoc
// @ID           listWarehouses
// @Summary      List warehouses
// @Tags         warehouses
// @Produce      json
// @Param        search query string false "Search in name and code"
// @Param        status query string false "Filter by status" Enums(active, inactive)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]inventoryapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	var filter inventoryapp.WarehouseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	warehouses, total, err := h.warehouseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, warehouses, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateWarehouse
// @Summary      Update warehouse details
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        request body inventoryapp.UpdateWarehouseRequest true "Warehouse update request"
// @Success      200 {object} APIResponse[inventoryapp.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	warehouse, err := h.warehouseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// SetDefault godoc
// @ID           setDefaultWarehouse
// @Summary      Mark a warehouse as the default
// @Description  Clears the default flag from all other warehouses
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/warehouses/{id}/set-default [post]
func (h *WarehouseHandler) SetDefault(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.warehouseService.SetDefault(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate godoc
// @ID           deactivateWarehouse
// @Summary      Deactivate a warehouse
// @Description  Deactivated warehouses reject stock operations
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/warehouses/{id}/deactivate [post]
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.warehouseService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
