package broker

import (
	"testing"
	"time"

	"github.com/rustyeddy/stocksim/internal/id"
	"github.com/rustyeddy/stocksim/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderStartsPending(t *testing.T) {
	t.Parallel()

	before := time.Now()
	o := NewBuyOrder("AAPL", 10, 150.50)

	assert.True(t, id.IsOrder(o.ID()))
	assert.Equal(t, market.Buy, o.Side())
	assert.Equal(t, "AAPL", o.Symbol())
	assert.Equal(t, 10, o.Quantity())
	assert.Equal(t, 150.50, o.Price())
	assert.InDelta(t, 1505.0, o.Total(), 1e-9)
	assert.Equal(t, Pending, o.Status())
	assert.False(t, o.CreatedAt().Before(before))
	assert.Empty(t, o.Reason())

	assert.Equal(t, market.Sell, NewSellOrder("AAPL", 1, 1).Side())
	assert.NotEqual(t, o.ID(), NewBuyOrder("AAPL", 10, 150.50).ID())
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		first  func(*Order) error
		want   Status
		reason string
	}{
		{name: "execute", first: (*Order).MarkExecuted, want: Executed},
		{
			name:   "cancel",
			first:  func(o *Order) error { return o.MarkCancelled("no funds") },
			want:   Cancelled,
			reason: "no funds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewSellOrder("MSFT", 1, 300)
			require.NoError(t, tt.first(o))
			assert.Equal(t, tt.want, o.Status())
			assert.True(t, o.Status().Terminal())
			assert.Equal(t, tt.reason, o.Reason())

			// terminal states never reopen
			assert.ErrorIs(t, o.MarkExecuted(), ErrTerminal)
			assert.ErrorIs(t, o.MarkCancelled("again"), ErrTerminal)
			assert.Equal(t, tt.want, o.Status())
			assert.Equal(t, tt.reason, o.Reason())
		})
	}
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PENDING", Pending.String())
	assert.Equal(t, "EXECUTED", Executed.String())
	assert.Equal(t, "CANCELLED", Cancelled.String())
	assert.Equal(t, "UNKNOWN", Status(9).String())
	assert.False(t, Pending.Terminal())
}
