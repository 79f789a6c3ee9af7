package strategies

import (
	"fmt"

	"github.com/rustyeddy/stocksim/broker"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/portfolio"
)

// MACrossover compares a short and a long simple moving average. It opens
// a position when the short average is above the long one and closes the
// whole position when it falls below. Instruments with fewer than
// LongPeriod samples are skipped.
type MACrossover struct {
	ShortPeriod int
	LongPeriod  int
	Quantity    int
}

func (s MACrossover) Name() string { return "Moving Average Crossover" }

func (s MACrossover) Description() string {
	return fmt.Sprintf("Buy when %d-period MA crosses above %d-period MA, sell on the opposite cross",
		s.ShortPeriod, s.LongPeriod)
}

func (s MACrossover) Decide(inst *market.Instrument, pos portfolio.Position, held bool) Decision {
	if s.LongPeriod <= 0 || inst.HistoryLen() < s.LongPeriod {
		return hold
	}

	short := inst.MovingAverage(s.ShortPeriod)
	long := inst.MovingAverage(s.LongPeriod)

	switch {
	case short > long && !held:
		return Decision{
			Signal:   Buy,
			Quantity: s.Quantity,
			Reason:   fmt.Sprintf("MA%d %.2f above MA%d %.2f", s.ShortPeriod, short, s.LongPeriod, long),
		}
	case short < long && held:
		return Decision{
			Signal:   Sell,
			Quantity: pos.Quantity,
			Reason:   fmt.Sprintf("MA%d %.2f below MA%d %.2f", s.ShortPeriod, short, s.LongPeriod, long),
		}
	}
	return hold
}

func (s MACrossover) GenerateSignals(instruments []*market.Instrument, view portfolio.View) []*broker.Order {
	return collect(instruments, view, s.Decide)
}
