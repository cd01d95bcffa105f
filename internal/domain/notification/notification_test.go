package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	t.Run("valid notification", func(t *testing.T) {
		n, err := NewNotification(CategoryLowStock, "Low stock: Baladi Flour T55",
			"Stock at MAIN fell to 10 bags (threshold 10)", "low_stock:MAIN:FLOUR-T55:50")
		require.NoError(t, err)
		assert.False(t, n.IsRead)
		assert.Nil(t, n.ReadAt)
		assert.Equal(t, CategoryLowStock, n.Category)
	})

	t.Run("invalid category", func(t *testing.T) {
		_, err := NewNotification(Category("weather"), "t", "m", "k")
		assert.Error(t, err)
	})

	t.Run("empty dedup key", func(t *testing.T) {
		_, err := NewNotification(CategoryLowStock, "t", "m", "")
		assert.Error(t, err)
	})
}

func TestNotification_MarkRead(t *testing.T) {
	n, err := NewNotification(CategoryCreditSuspended, "Credit suspended",
		"Customer CUST-000042 credit suspended", "credit_suspended:CUST-000042")
	require.NoError(t, err)

	n.MarkRead()
	assert.True(t, n.IsRead)
	require.NotNil(t, n.ReadAt)

	firstReadAt := *n.ReadAt
	n.MarkRead()
	assert.Equal(t, firstReadAt, *n.ReadAt)
}
