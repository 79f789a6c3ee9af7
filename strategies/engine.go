package strategies

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/stocksim/broker"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/portfolio"
	"go.uber.org/zap"
)

var ErrInvalidSelection = errors.New("invalid strategy selection")

// Defaults for the built-in strategies.
const (
	DefaultThreshold     = 200.0
	DefaultThresholdQty  = 5
	DefaultShortPeriod   = 5
	DefaultLongPeriod    = 20
	DefaultCrossoverQty  = 10
	DefaultRevertPeriod  = 20
	DefaultRevertPercent = 0.05
	DefaultRevertQty     = 8
)

// Defaults returns the three built-in strategies with their default
// parameters, in menu order.
func Defaults() []Strategy {
	return []Strategy{
		ThresholdBuy{Threshold: DefaultThreshold, Quantity: DefaultThresholdQty},
		MACrossover{ShortPeriod: DefaultShortPeriod, LongPeriod: DefaultLongPeriod, Quantity: DefaultCrossoverQty},
		MeanReversion{Period: DefaultRevertPeriod, Threshold: DefaultRevertPercent, Quantity: DefaultRevertQty},
	}
}

// Engine holds an ordered list of strategies addressed by zero-based index.
type Engine struct {
	strategies []Strategy
	logger     *zap.Logger
}

func NewEngine(logger *zap.Logger, strategies ...Strategy) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{logger: logger}
	for _, s := range strategies {
		e.Add(s)
	}
	return e
}

func NewDefaultEngine(logger *zap.Logger) *Engine {
	return NewEngine(logger, Defaults()...)
}

// Add appends s; nil is ignored.
func (e *Engine) Add(s Strategy) {
	if s == nil {
		return
	}
	e.strategies = append(e.strategies, s)
}

func (e *Engine) Len() int { return len(e.strategies) }

func (e *Engine) Strategies() []Strategy {
	out := make([]Strategy, len(e.strategies))
	copy(out, e.strategies)
	return out
}

func (e *Engine) Get(index int) (Strategy, error) {
	if index < 0 || index >= len(e.strategies) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrInvalidSelection, index, len(e.strategies))
	}
	return e.strategies[index], nil
}

// Lookup finds a strategy by case-insensitive name and returns its index.
func (e *Engine) Lookup(name string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, s := range e.strategies {
		if strings.ToLower(s.Name()) == want {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: unknown strategy %q", ErrInvalidSelection, name)
}

// Run generates signals from the strategy at index. An index out of range
// yields an empty slice and an error wrapping ErrInvalidSelection.
func (e *Engine) Run(index int, instruments []*market.Instrument, view portfolio.View) ([]*broker.Order, error) {
	s, err := e.Get(index)
	if err != nil {
		return []*broker.Order{}, err
	}

	orders := s.GenerateSignals(instruments, view)
	if orders == nil {
		orders = []*broker.Order{}
	}

	e.logger.Debug("strategy run",
		zap.String("strategy", s.Name()),
		zap.Int("instruments", len(instruments)),
		zap.Int("orders", len(orders)))
	for _, o := range orders {
		e.logger.Debug("signal",
			zap.String("strategy", s.Name()),
			zap.Stringer("side", o.Side()),
			zap.String("symbol", o.Symbol()),
			zap.Int("qty", o.Quantity()),
			zap.Float64("price", o.Price()))
	}
	return orders, nil
}
