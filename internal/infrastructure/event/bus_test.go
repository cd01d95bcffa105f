package event

import (
	"context"
	"errors"
	"testing"

	"github.com/flourmill/backend/internal/domain/inventory"
	"github.com/flourmill/backend/internal/domain/partner"
	"github.com/flourmill/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     error
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.received = append(h.received, event)
	return h.fail
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func transferEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	transfer, err := inventory.NewTransferOrder("TR-2026-00001", uuid.New(), uuid.New(),
		"FLOUR-T55", decimal.NewFromInt(50), decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, transfer.Complete())
	return transfer.GetDomainEvents()[0]
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("routes events by type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		transfers := &recordingHandler{types: []string{inventory.EventTypeTransferCompleted}}
		credit := &recordingHandler{types: []string{partner.EventTypeCustomerCreditStatusChanged}}
		bus.Subscribe(transfers)
		bus.Subscribe(credit)

		require.NoError(t, bus.Publish(ctx, transferEvent(t)))

		assert.Len(t, transfers.received, 1)
		assert.Empty(t, credit.received)
	})

	t.Run("wildcard handler sees everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := &recordingHandler{}
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx, transferEvent(t), transferEvent(t)))

		assert.Len(t, all.received, 2)
	})

	t.Run("failing handler does not stop the rest", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		broken := &recordingHandler{types: []string{inventory.EventTypeTransferCompleted}, fail: errors.New("db down")}
		healthy := &recordingHandler{types: []string{inventory.EventTypeTransferCompleted}}
		bus.Subscribe(broken)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, transferEvent(t)))

		assert.Len(t, healthy.received, 1)
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicky := &recordingHandler{types: []string{inventory.EventTypeTransferCompleted}, panics: true}
		healthy := &recordingHandler{types: []string{inventory.EventTypeTransferCompleted}}
		bus.Subscribe(panicky)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, transferEvent(t)))

		assert.Len(t, healthy.received, 1)
	})
}
