package strategies

import (
	"testing"
	"time"

	"github.com/rustyeddy/stocksim/broker"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/portfolio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView map[string]portfolio.Position

func (v fakeView) Position(symbol string) (portfolio.Position, bool) {
	p, ok := v[symbol]
	return p, ok
}

func held(symbol string, qty int) fakeView {
	return fakeView{symbol: {Symbol: symbol, Quantity: qty, AveragePrice: 100}}
}

// inst builds an instrument whose current price is the last history sample.
func inst(symbol string, history ...float64) *market.Instrument {
	return market.RestoreInstrument(symbol, symbol, history[len(history)-1], history, time.Time{})
}

func series(from, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + step*float64(i)
	}
	return out
}

func flatThen(level float64, n int, last float64) []float64 {
	out := make([]float64, n-1, n)
	for i := range out {
		out[i] = level
	}
	return append(out, last)
}

func TestThresholdBuy(t *testing.T) {
	t.Parallel()

	s := ThresholdBuy{Threshold: 200, Quantity: 5}
	instruments := []*market.Instrument{
		inst("AAPL", 150.50),
		inst("GOOGL", 2800.75),
		inst("CHEAP", 199.99),
		inst("EDGE", 200),
	}

	// already holding does not suppress a repeat buy
	orders := s.GenerateSignals(instruments, held("AAPL", 50))
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, market.Buy, o.Side())
		assert.Equal(t, 5, o.Quantity())
		assert.Equal(t, broker.Pending, o.Status())
	}
	assert.Equal(t, "AAPL", orders[0].Symbol())
	assert.Equal(t, 150.50, orders[0].Price())
	assert.Equal(t, "CHEAP", orders[1].Symbol())

	again := s.GenerateSignals(instruments, nil)
	assert.Len(t, again, 2)
	assert.NotEqual(t, orders[0].ID(), again[0].ID())
}

func TestMACrossover(t *testing.T) {
	t.Parallel()

	s := MACrossover{ShortPeriod: 5, LongPeriod: 20, Quantity: 10}

	tests := []struct {
		name     string
		history  []float64
		view     fakeView
		wantSide market.Side
		wantQty  int
	}{
		{name: "rising and flat buys", history: series(1, 1, 20), view: fakeView{}, wantSide: market.Buy, wantQty: 10},
		{name: "rising and held holds", history: series(1, 1, 20), view: held("X", 7)},
		{name: "falling and held sells all", history: series(20, -1, 20), view: held("X", 7), wantSide: market.Sell, wantQty: 7},
		{name: "falling and flat holds", history: series(20, -1, 20), view: fakeView{}},
		{name: "equal averages hold", history: flatThen(50, 30, 50), view: held("X", 7)},
		{name: "short history never signals", history: series(1, 1, 19), view: fakeView{}},
		{name: "short history held never signals", history: series(19, -1, 19), view: held("X", 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := s.GenerateSignals([]*market.Instrument{inst("X", tt.history...)}, tt.view)
			if tt.wantQty == 0 {
				assert.Empty(t, orders)
				return
			}
			require.Len(t, orders, 1)
			assert.Equal(t, tt.wantSide, orders[0].Side())
			assert.Equal(t, tt.wantQty, orders[0].Quantity())
			assert.Equal(t, "X", orders[0].Symbol())
		})
	}
}

func TestMeanReversion(t *testing.T) {
	t.Parallel()

	s := MeanReversion{Period: 20, Threshold: 0.05, Quantity: 8}

	tests := []struct {
		name     string
		history  []float64
		view     fakeView
		wantSide market.Side
		wantQty  int
	}{
		// ma 99.5, deviation about -9.5%
		{name: "deep dip buys", history: flatThen(100, 20, 90), view: fakeView{}, wantSide: market.Buy, wantQty: 8},
		{name: "deep dip held holds", history: flatThen(100, 20, 90), view: held("X", 3)},
		// ma 100.5, deviation about +9.5%
		{name: "spike held sells all", history: flatThen(100, 20, 110), view: held("X", 3), wantSide: market.Sell, wantQty: 3},
		{name: "spike flat holds", history: flatThen(100, 20, 110), view: fakeView{}},
		{name: "inside band holds", history: flatThen(100, 20, 102), view: held("X", 3)},
		{name: "short history", history: flatThen(100, 19, 50), view: fakeView{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := s.GenerateSignals([]*market.Instrument{inst("X", tt.history...)}, tt.view)
			if tt.wantQty == 0 {
				assert.Empty(t, orders)
				return
			}
			require.Len(t, orders, 1)
			assert.Equal(t, tt.wantSide, orders[0].Side())
			assert.Equal(t, tt.wantQty, orders[0].Quantity())
		})
	}
}

func TestStrategiesDoNotMutateInputs(t *testing.T) {
	t.Parallel()

	x := inst("X", flatThen(100, 20, 90)...)
	before := x.History()

	for _, s := range Defaults() {
		_ = s.GenerateSignals([]*market.Instrument{x, nil}, nil)
	}
	assert.Equal(t, before, x.History())
	assert.Equal(t, 90.0, x.Price())
}

func TestSignalString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "HOLD", Hold.String())
	assert.Equal(t, "BUY", Buy.String())
	assert.Equal(t, "SELL", Sell.String())
}
