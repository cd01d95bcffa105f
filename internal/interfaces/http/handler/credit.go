package handler

import (
	partnerapp "github.com/flourmill/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CreditHandler handles the customer credit ledger endpoints.
type CreditHandler struct {
	BaseHandler
	creditService *partnerapp.CreditService
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(creditService *partnerapp.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// GetSummary godoc
// @ID           getCustomerCreditSummary
// @Summary      Get customer credit summary
// @Description  Returns credit limit, outstanding balance, and available credit
// @Tags         credit
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CreditSummaryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id}/credit [get]
func (h *CreditHandler) GetSummary(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.creditService.GetCreditSummary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Authorize godoc
// @ID           authorizeCustomerCharge
// @Summary      Authorize a credit charge
// @Description  Checks whether the customer can take on the given amount without recording anything
// @Tags         credit
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.AuthorizeChargeRequest true "Amount to authorize"
// @Success      200 {object} APIResponse[partnerapp.AuthorizeChargeResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id}/credit/authorize [post]
func (h *CreditHandler) Authorize(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req partnerapp.AuthorizeChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.creditService.Authorize(c.Request.Context(), id, req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Debit godoc
// @ID           debitCustomerCredit
// @Summary      Charge the customer's credit account
// @Description  Increases the outstanding balance and appends a debit transaction to the ledger
// @Tags         credit
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.DebitRequest true "Debit request"
// @Success      201 {object} APIResponse[partnerapp.CreditTransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id}/credit/debits [post]
func (h *CreditHandler) Debit(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req partnerapp.DebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.OperatorID = getOperatorID(c)

	tx, err := h.creditService.Debit(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// ApplyPayment godoc
// @ID           applyCustomerPayment
// @Summary      Apply a payment to the customer's balance
// @Description  Reduces the outstanding balance and appends a credit transaction to the ledger
// @Tags         credit
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.PaymentRequest true "Payment request"
// @Success      201 {object} APIResponse[partnerapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id}/credit/payments [post]
func (h *CreditHandler) ApplyPayment(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req partnerapp.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.OperatorID = getOperatorID(c)

	result, err := h.creditService.ApplyPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListTransactions godoc
// @ID           listCustomerCreditTransactions
// @Summary      List a customer's credit transactions
// @Description  Returns the append-only ledger, newest first
// @Tags         credit
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        transaction_type query string false "Filter by transaction type" Enums(DEBIT, CREDIT)
// @Param        source_type query string false "Filter by source type" Enums(SALES_ORDER, SALES_RETURN, PAYMENT, MANUAL)
// @Param        date_from query string false "Inclusive start date (RFC 3339)"
// @Param        date_to query string false "Inclusive end date (RFC 3339)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]partnerapp.CreditTransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id}/credit/transactions [get]
func (h *CreditHandler) ListTransactions(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var filter partnerapp.CreditTransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	transactions, total, err := h.creditService.ListTransactions(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}

// GetTransaction godoc
// @ID           getCreditTransaction
// @Summary      Get a single credit transaction
// @Tags         credit
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CreditTransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/credit-transactions/{id} [get]
func (h *CreditHandler) GetTransaction(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	tx, err := h.creditService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}
