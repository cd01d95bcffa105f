package partner

import (
	"context"
	"fmt"
	"time"
)

// Sequence names used across the system
const (
	SequenceCustomer      = "customer"
	SequenceSalesOrder    = "sales_order"
	SequencePurchaseOrder = "purchase_order"
	SequenceTransferOrder = "transfer_order"
)

// SequenceRepository hands out strictly increasing numbers per sequence name.
// Implementations must serialize the increment (single conditional UPDATE or
// equivalent) so two concurrent registrations can never draw the same value.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

// FormatCustomerNumber formats a sequence value as a customer number,
// e.g. CUST-000042.
func FormatCustomerNumber(n int64) string {
	return fmt.Sprintf("CUST-%06d", n)
}

// FormatOrderNumber formats a sequence value as a yearly document number,
// e.g. SO-2026-00007.
func FormatOrderNumber(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, n)
}

// CurrentYear returns the year used for document numbering
func CurrentYear() int {
	return time.Now().Year()
}
