// Package sim executes orders against the simulated market.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/stocksim/broker"
	"github.com/rustyeddy/stocksim/journal"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/portfolio"
	"github.com/rustyeddy/stocksim/risk"
	"go.uber.org/zap"
)

// OrderListener is told about every order the engine decides, after the
// engine lock is released. err is nil for executed orders.
type OrderListener interface {
	OnOrderDecided(o *broker.Order, err error)
}

// Engine fills orders at the live ledger price. It implements broker.Broker.
type Engine struct {
	mu       sync.Mutex
	market   *market.Ledger
	journal  journal.Journal
	logger   *zap.Logger
	listener OrderListener
	policy   risk.Policy
	now      func() time.Time
}

var _ broker.Broker = (*Engine)(nil)

func NewEngine(m *market.Ledger, j journal.Journal, logger *zap.Logger) *Engine {
	if j == nil {
		j = journal.Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		market:  m,
		journal: j,
		logger:  logger,
		now:     time.Now,
	}
}

func (e *Engine) Market() *market.Ledger { return e.market }

// SetOrderListener sets an optional listener for order outcomes.
func (e *Engine) SetOrderListener(l OrderListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// SetRiskPolicy sets pre-trade limits checked before every buy. The zero
// Policy disables the checks.
func (e *Engine) SetRiskPolicy(p risk.Policy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.policy = p
}

// Execute applies o to p using the instrument's current price, not the
// price captured when the order was proposed. The order ends Executed on
// success and Cancelled on any validation or ledger failure; the returned
// error says why. Orders already in a terminal state are rejected with
// broker.ErrTerminal and left untouched.
func (e *Engine) Execute(ctx context.Context, o *broker.Order, p *portfolio.Portfolio) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o == nil || p == nil {
		return errors.New("execute: nil order or portfolio")
	}

	e.mu.Lock()
	if o.Status().Terminal() {
		e.mu.Unlock()
		return fmt.Errorf("execute %s: %w", o.ID(), broker.ErrTerminal)
	}
	err := e.executeLocked(o, p)
	listener := e.listener
	e.mu.Unlock()

	if listener != nil {
		listener.OnOrderDecided(o, err)
	}
	return err
}

func (e *Engine) executeLocked(o *broker.Order, p *portfolio.Portfolio) error {
	var apply func(symbol string, qty int, price float64) error
	switch o.Side() {
	case market.Buy:
		apply = p.Buy
	case market.Sell:
		apply = p.Sell
	default:
		return e.cancelLocked(o, p, fmt.Errorf("execute %s: unknown side %s", o.ID(), o.Side()))
	}

	inst, err := e.market.Get(o.Symbol())
	if err != nil {
		return e.cancelLocked(o, p, fmt.Errorf("execute %s: unknown instrument: %w", o.ID(), err))
	}

	price := inst.Price()
	if e.policy.Enabled() {
		d := risk.Evaluate(e.policy, risk.TradeIntent{
			Side:     o.Side(),
			Symbol:   o.Symbol(),
			Quantity: o.Quantity(),
			Price:    price,
		}, e.snapshot(p, o.Symbol()))
		if err := d.Err(); err != nil {
			return e.cancelLocked(o, p, fmt.Errorf("execute %s: %w", o.ID(), err))
		}
	}

	if err := apply(o.Symbol(), o.Quantity(), price); err != nil {
		return e.cancelLocked(o, p, fmt.Errorf("execute %s: %w", o.ID(), err))
	}

	if err := o.MarkExecuted(); err != nil {
		return err
	}

	if txn, ok := p.LastTransaction(); ok {
		e.warn(e.journal.RecordTransaction(journal.TransactionRecord{
			Owner:    p.OwnerID(),
			Side:     txn.Side,
			Symbol:   txn.Symbol,
			Quantity: txn.Quantity,
			Price:    txn.Price,
			Time:     txn.Time,
		}), o)
	}
	e.recordOrderLocked(o, p, price)

	e.logger.Info("order executed",
		zap.String("id", o.ID()),
		zap.Stringer("side", o.Side()),
		zap.String("symbol", o.Symbol()),
		zap.Int("qty", o.Quantity()),
		zap.Float64("price", price),
		zap.Float64("cash", p.Cash()))
	return nil
}

func (e *Engine) snapshot(p *portfolio.Portfolio, symbol string) risk.AccountSnapshot {
	prices := e.market.Prices()
	snap := risk.AccountSnapshot{
		Cash:          p.Cash(),
		Equity:        p.TotalValue(prices),
		OpenPositions: len(p.Positions()),
	}
	if pos, ok := p.Position(symbol); ok {
		snap.Holds = true
		snap.PositionValue = float64(pos.Quantity) * prices[symbol]
	}
	return snap
}

func (e *Engine) cancelLocked(o *broker.Order, p *portfolio.Portfolio, cause error) error {
	if err := o.MarkCancelled(cause.Error()); err != nil {
		return err
	}
	e.recordOrderLocked(o, p, 0)

	e.logger.Info("order cancelled",
		zap.String("id", o.ID()),
		zap.Stringer("side", o.Side()),
		zap.String("symbol", o.Symbol()),
		zap.Int("qty", o.Quantity()),
		zap.Error(cause))
	return cause
}

func (e *Engine) recordOrderLocked(o *broker.Order, p *portfolio.Portfolio, fill float64) {
	e.warn(e.journal.RecordOrder(journal.OrderRecord{
		OrderID:    o.ID(),
		Owner:      p.OwnerID(),
		Side:       o.Side(),
		Symbol:     o.Symbol(),
		Quantity:   o.Quantity(),
		OrderPrice: o.Price(),
		FillPrice:  fill,
		Status:     o.Status().String(),
		Reason:     o.Reason(),
		Created:    o.CreatedAt(),
		Decided:    e.now(),
	}), o)
}

// The trade has already been applied when the journal is written, so a
// journal failure is reported but does not fail the order.
func (e *Engine) warn(err error, o *broker.Order) {
	if err != nil {
		e.logger.Warn("journal write failed", zap.String("id", o.ID()), zap.Error(err))
	}
}

// ExecuteAll executes orders in sequence and returns one error slot per
// order, nil where the order executed. Once ctx is done the remaining
// orders are left pending with ctx's error.
func (e *Engine) ExecuteAll(ctx context.Context, orders []*broker.Order, p *portfolio.Portfolio) []error {
	errs := make([]error, len(orders))
	for i, o := range orders {
		errs[i] = e.Execute(ctx, o, p)
	}
	return errs
}
