package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"number":             true,
	"name":               true,
	"business_type":      true,
	"status":             true,
	"credit_limit":       true,
	"current_balance":    true,
	"available_credit":   true,
	"total_sales_amount": true,
	"last_purchase_at":   true,
}

// WarehouseSortFields contains allowed sort fields for warehouses
var WarehouseSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"name":        true,
	"status":      true,
	"capacity_kg": true,
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"product_code":     true,
	"product_name":     true,
	"bag_size_kg":      true,
	"quantity_on_hand": true,
}

// OrderSortFields contains allowed sort fields for sales and purchase orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"status":         true,
	"total_amount":   true,
	"payable_amount": true,
	"confirmed_at":   true,
}

// TransferSortFields contains allowed sort fields for transfer orders
var TransferSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"transfer_number": true,
	"status":          true,
	"completed_at":    true,
}
