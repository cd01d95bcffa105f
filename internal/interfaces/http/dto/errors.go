package dto

import (
	"net/http"
	"strings"
)

// Error codes returned by the API. Domain errors carry these codes
// directly; the handler layer only has to translate them to HTTP status.
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeCustomerNotFound    = "CUSTOMER_NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeInsufficientCredit  = "INSUFFICIENT_CREDIT"
	ErrCodeCreditInactive      = "CREDIT_INACTIVE"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeWarehouseInactive   = "WAREHOUSE_INACTIVE"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes.
// Business rule violations map to 422: the request was well formed but the
// aggregate's current state does not allow it.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeCustomerNotFound:    http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInvalidInput:        http.StatusBadRequest,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientCredit:  http.StatusUnprocessableEntity,
	ErrCodeCreditInactive:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodeWarehouseInactive:   http.StatusUnprocessableEntity,
	ErrCodeInternal:            http.StatusInternalServerError,

	"EMPTY_ORDER":       http.StatusUnprocessableEntity,
	"DUPLICATE_PRODUCT": http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":    http.StatusUnprocessableEntity,
	"ALREADY_INACTIVE":  http.StatusUnprocessableEntity,
	"ALREADY_SUSPENDED": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for an error code. Codes not in
// the table fall back on their shape: INVALID_* codes come from input
// validation in the domain constructors, everything else is treated as
// an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
