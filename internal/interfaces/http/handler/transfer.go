package handler

import (
	inventoryapp "github.com/flourmill/backend/internal/application/inventory"
	"github.com/flourmill/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// TransferHandler handles inter-warehouse transfer endpoints.
type TransferHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(stockService *inventoryapp.StockService) *TransferHandler {
	return &TransferHandler{stockService: stockService}
}

// Create godoc
// @ID           createTransfer
// @Summary      Create a transfer order
// @Description  Moves stock out of the source warehouse immediately; the transfer stays pending until completed at the destination
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateTransferRequest true "Transfer request"
// @Success      201 {object} APIResponse[inventoryapp.TransferOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/transfers [post]
func (h *TransferHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.OperatorID = getOperatorID(c)

	transfer, err := h.stockService.CreateTransfer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transfer)
}

// Complete godoc
// @ID           completeTransfer
// @Summary      Complete a pending transfer
// @Description  Receives the transferred quantity into the destination warehouse
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.TransferOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	transfer, err := h.stockService.CompleteTransfer(c.Request.Context(), id, getOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// Cancel godoc
// @ID           cancelTransfer
// @Summary      Cancel a pending transfer
// @Description  Returns the in-transit quantity to the source warehouse
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.TransferOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	transfer, err := h.stockService.CancelTransfer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// GetByID godoc
// @ID           getTransferById
// @Summary      Get a transfer order
// @Tags         transfers
// @Produce      json
// @Param        id path string true "Transfer ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.TransferOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	transfer, err := h.stockService.GetTransfer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transfer)
}

// List godoc
// @ID           listTransfers
// @Summary      List transfer orders
// @Tags         transfers
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]inventoryapp.TransferOrderResponse]
// @Security     BearerAuth
// @Router       /inventory/transfers [get]
func (h *TransferHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Normalize()

	transfers, total, err := h.stockService.ListTransfers(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, transfers, total, req.Page, req.PageSize)
}
