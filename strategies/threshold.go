package strategies

import (
	"fmt"

	"github.com/rustyeddy/stocksim/broker"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/portfolio"
)

// ThresholdBuy buys every instrument priced below Threshold. It does not
// remember earlier calls and proposes the same buys again while prices
// stay low, whether or not the position is already held.
type ThresholdBuy struct {
	Threshold float64
	Quantity  int
}

func (s ThresholdBuy) Name() string { return "Simple Threshold" }

func (s ThresholdBuy) Description() string {
	return fmt.Sprintf("Buy %d shares of any stock priced below $%.2f", s.Quantity, s.Threshold)
}

func (s ThresholdBuy) Decide(inst *market.Instrument) Decision {
	if inst.Price() < s.Threshold {
		return Decision{
			Signal:   Buy,
			Quantity: s.Quantity,
			Reason:   fmt.Sprintf("price %.2f below %.2f", inst.Price(), s.Threshold),
		}
	}
	return hold
}

func (s ThresholdBuy) GenerateSignals(instruments []*market.Instrument, view portfolio.View) []*broker.Order {
	return collect(instruments, view, func(inst *market.Instrument, _ portfolio.Position, _ bool) Decision {
		return s.Decide(inst)
	})
}
