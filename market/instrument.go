package market

import (
	"time"

	"github.com/rustyeddy/stocksim/indicators"
)

// HistoryWindow is the number of price samples an instrument keeps.
const HistoryWindow = 100

// Instrument is a tradable symbol with its price history.
//
// Fields are unexported so that code outside this package (strategies in
// particular) only ever reads instruments. Prices change through
// Ledger.SetPrice.
type Instrument struct {
	symbol  string
	name    string
	price   float64
	history []float64
	updated time.Time
}

// NewInstrument creates an instrument whose history starts with its
// initial price.
func NewInstrument(symbol, name string, price float64) *Instrument {
	return &Instrument{
		symbol:  symbol,
		name:    name,
		price:   price,
		history: []float64{price},
		updated: time.Now(),
	}
}

// RestoreInstrument rebuilds an instrument from persisted state.
//
// History is trimmed to the newest HistoryWindow samples, and the current
// price is appended when the history does not already end with it.
func RestoreInstrument(symbol, name string, price float64, history []float64, updated time.Time) *Instrument {
	h := make([]float64, 0, len(history)+1)
	h = append(h, history...)
	if len(h) == 0 || h[len(h)-1] != price {
		h = append(h, price)
	}
	if len(h) > HistoryWindow {
		h = h[len(h)-HistoryWindow:]
	}
	if updated.IsZero() {
		updated = time.Now()
	}

	return &Instrument{
		symbol:  symbol,
		name:    name,
		price:   price,
		history: h,
		updated: updated,
	}
}

func (i *Instrument) Symbol() string        { return i.symbol }
func (i *Instrument) Name() string          { return i.name }
func (i *Instrument) Price() float64        { return i.price }
func (i *Instrument) LastUpdate() time.Time { return i.updated }
func (i *Instrument) HistoryLen() int       { return len(i.history) }

// History returns a copy of the price samples, oldest first.
func (i *Instrument) History() []float64 {
	out := make([]float64, len(i.history))
	copy(out, i.history)
	return out
}

// MovingAverage is the mean of the last min(period, HistoryLen()) samples.
func (i *Instrument) MovingAverage(period int) float64 {
	return indicators.SMA(i.history, period)
}

// PriceChange is the current price minus the previous sample.
func (i *Instrument) PriceChange() float64 {
	return indicators.Change(i.history)
}

// PriceChangePercent is PriceChange relative to the previous sample.
func (i *Instrument) PriceChangePercent() float64 {
	return indicators.ChangePercent(i.history)
}

func (i *Instrument) setPrice(price float64, at time.Time) {
	i.price = price
	i.updated = at
	i.history = append(i.history, price)
	if len(i.history) > HistoryWindow {
		// shift in place so the backing array does not grow without bound
		n := copy(i.history, i.history[len(i.history)-HistoryWindow:])
		i.history = i.history[:n]
	}
}
