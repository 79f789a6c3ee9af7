package market

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	ErrNotFound     = errors.New("instrument not found")
	ErrInvalidPrice = errors.New("price must be positive")
)

// Ledger owns the set of tradable instruments, keyed by symbol.
type Ledger struct {
	instruments map[string]*Instrument
	now         func() time.Time
}

type Option func(*Ledger)

// WithClock sets the time source used to stamp price updates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		instruments: make(map[string]*Instrument),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add inserts the instrument, replacing any existing one with the same symbol.
func (l *Ledger) Add(inst *Instrument) {
	if inst == nil {
		return
	}
	l.instruments[inst.symbol] = inst
}

// Remove deletes the instrument and reports whether it existed.
func (l *Ledger) Remove(symbol string) bool {
	if _, ok := l.instruments[symbol]; !ok {
		return false
	}
	delete(l.instruments, symbol)
	return true
}

func (l *Ledger) Get(symbol string) (*Instrument, error) {
	inst, ok := l.instruments[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, symbol)
	}
	return inst, nil
}

func (l *Ledger) Exists(symbol string) bool {
	_, ok := l.instruments[symbol]
	return ok
}

func (l *Ledger) Len() int { return len(l.instruments) }

// SetPrice records a new current price for symbol and appends it to the
// instrument's history, evicting the oldest sample beyond HistoryWindow.
func (l *Ledger) SetPrice(symbol string, price float64) error {
	inst, err := l.Get(symbol)
	if err != nil {
		return err
	}
	if !(price > 0) || math.IsInf(price, 1) {
		return fmt.Errorf("set price %s: %w (got %v)", symbol, ErrInvalidPrice, price)
	}
	inst.setPrice(price, l.now())
	return nil
}

func (l *Ledger) MovingAverage(symbol string, period int) (float64, error) {
	inst, err := l.Get(symbol)
	if err != nil {
		return 0, err
	}
	return inst.MovingAverage(period), nil
}

func (l *Ledger) PriceChange(symbol string) (float64, error) {
	inst, err := l.Get(symbol)
	if err != nil {
		return 0, err
	}
	return inst.PriceChange(), nil
}

func (l *Ledger) PriceChangePercent(symbol string) (float64, error) {
	inst, err := l.Get(symbol)
	if err != nil {
		return 0, err
	}
	return inst.PriceChangePercent(), nil
}

// Symbols returns every symbol in ascending order.
func (l *Ledger) Symbols() []string {
	out := make([]string, 0, len(l.instruments))
	for sym := range l.instruments {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Instruments returns every instrument ordered by symbol.
func (l *Ledger) Instruments() []*Instrument {
	syms := l.Symbols()
	out := make([]*Instrument, 0, len(syms))
	for _, sym := range syms {
		out = append(out, l.instruments[sym])
	}
	return out
}

// Prices maps each symbol to its current price.
func (l *Ledger) Prices() map[string]float64 {
	out := make(map[string]float64, len(l.instruments))
	for sym, inst := range l.instruments {
		out[sym] = inst.price
	}
	return out
}
