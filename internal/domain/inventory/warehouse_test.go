package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWarehouse(t *testing.T) {
	t.Run("valid warehouse", func(t *testing.T) {
		w, err := NewWarehouse("main", "Main Silo", decimal.NewFromInt(500000))
		require.NoError(t, err)
		assert.Equal(t, "MAIN", w.Code)
		assert.Equal(t, WarehouseStatusActive, w.Status)
		assert.False(t, w.IsDefault)
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := NewWarehouse("", "Main Silo", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("negative capacity", func(t *testing.T) {
		_, err := NewWarehouse("MAIN", "Main Silo", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestWarehouse_UtilizationPercent(t *testing.T) {
	w, err := NewWarehouse("MAIN", "Main Silo", decimal.NewFromInt(200000))
	require.NoError(t, err)

	tests := []struct {
		name     string
		weightKg decimal.Decimal
		want     string
	}{
		{"empty", decimal.Zero, "0"},
		{"half full", decimal.NewFromInt(100000), "50"},
		{"full", decimal.NewFromInt(200000), "100"},
		{"over capacity", decimal.NewFromInt(250000), "125"},
		{"rounds to two places", decimal.NewFromInt(66667), "33.33"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.UtilizationPercent(tt.weightKg)
			assert.Equal(t, tt.want, got.String())
		})
	}

	t.Run("zero capacity reports zero", func(t *testing.T) {
		w2, err := NewWarehouse("TMP", "Overflow Tent", decimal.Zero)
		require.NoError(t, err)
		assert.True(t, w2.UtilizationPercent(decimal.NewFromInt(1000)).IsZero())
	})
}

func TestWarehouse_Lifecycle(t *testing.T) {
	w, err := NewWarehouse("MAIN", "Main Silo", decimal.NewFromInt(500000))
	require.NoError(t, err)

	w.MarkDefault()
	assert.True(t, w.IsDefault)

	require.NoError(t, w.Deactivate())
	assert.False(t, w.IsActive())
	assert.Error(t, w.Deactivate())
}

func TestTransferOrder(t *testing.T) {
	fromID := uuid.New()
	toID := uuid.New()

	newTransfer := func(t *testing.T) *TransferOrder {
		t.Helper()
		tr, err := NewTransferOrder("TR-2026-00001", fromID, toID, "FLOUR-T55",
			decimal.NewFromInt(50), decimal.NewFromInt(40))
		require.NoError(t, err)
		return tr
	}

	t.Run("same warehouse rejected", func(t *testing.T) {
		_, err := NewTransferOrder("TR-2026-00002", fromID, fromID, "FLOUR-T55",
			decimal.NewFromInt(50), decimal.NewFromInt(40))
		assert.Error(t, err)
	})

	t.Run("complete emits event", func(t *testing.T) {
		tr := newTransfer(t)
		require.NoError(t, tr.Complete())
		assert.Equal(t, TransferStatusCompleted, tr.Status)
		require.NotNil(t, tr.CompletedAt)

		events := tr.GetDomainEvents()
		require.Len(t, events, 1)
		done, ok := events[0].(*TransferCompletedEvent)
		require.True(t, ok)
		assert.Equal(t, "TR-2026-00001", done.TransferNumber)
	})

	t.Run("complete twice rejected", func(t *testing.T) {
		tr := newTransfer(t)
		require.NoError(t, tr.Complete())
		assert.Error(t, tr.Complete())
	})

	t.Run("cancel pending", func(t *testing.T) {
		tr := newTransfer(t)
		require.NoError(t, tr.Cancel())
		assert.Equal(t, TransferStatusCancelled, tr.Status)
		assert.Error(t, tr.Complete())
	})
}
