// Package strategies turns market and portfolio state into proposed orders.
// Strategies never touch the ledgers; the caller decides whether the
// orders they return are executed.
package strategies

import (
	"github.com/rustyeddy/stocksim/broker"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/portfolio"
)

type Strategy interface {
	Name() string
	Description() string
	GenerateSignals(instruments []*market.Instrument, view portfolio.View) []*broker.Order
}

type Signal int

const (
	Hold Signal = iota
	Buy
	Sell
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Decision is a strategy's verdict on one instrument.
type Decision struct {
	Signal   Signal
	Quantity int
	Reason   string
}

var hold = Decision{Signal: Hold}

type decideFunc func(inst *market.Instrument, pos portfolio.Position, held bool) Decision

// collect runs decide over every instrument and turns Buy and Sell
// decisions into pending orders at the instrument's current price.
func collect(instruments []*market.Instrument, view portfolio.View, decide decideFunc) []*broker.Order {
	var orders []*broker.Order
	for _, inst := range instruments {
		if inst == nil {
			continue
		}

		var (
			pos  portfolio.Position
			held bool
		)
		if view != nil {
			pos, held = view.Position(inst.Symbol())
			held = held && pos.Quantity > 0
		}

		d := decide(inst, pos, held)
		if d.Quantity <= 0 {
			continue
		}
		switch d.Signal {
		case Buy:
			orders = append(orders, broker.NewBuyOrder(inst.Symbol(), d.Quantity, inst.Price()))
		case Sell:
			orders = append(orders, broker.NewSellOrder(inst.Symbol(), d.Quantity, inst.Price()))
		}
	}
	return orders
}
