package strategies

import (
	"fmt"

	"github.com/rustyeddy/stocksim/broker"
	"github.com/rustyeddy/stocksim/indicators"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/portfolio"
)

// MeanReversion buys when the price sits more than Threshold (a fraction,
// 0.05 is 5%) below its Period moving average and sells the whole position
// when it sits more than Threshold above.
type MeanReversion struct {
	Period    int
	Threshold float64
	Quantity  int
}

func (s MeanReversion) Name() string { return "Mean Reversion" }

func (s MeanReversion) Description() string {
	return fmt.Sprintf("Buy when price is %.1f%% below its %d-period MA, sell when %.1f%% above",
		s.Threshold*100, s.Period, s.Threshold*100)
}

func (s MeanReversion) Decide(inst *market.Instrument, pos portfolio.Position, held bool) Decision {
	if s.Period <= 0 || inst.HistoryLen() < s.Period {
		return hold
	}

	ma := inst.MovingAverage(s.Period)
	if ma == 0 {
		return hold
	}
	dev := indicators.Deviation(inst.Price(), ma)

	switch {
	case dev < -s.Threshold && !held:
		return Decision{
			Signal:   Buy,
			Quantity: s.Quantity,
			Reason:   fmt.Sprintf("%.2f%% below MA%d", -dev*100, s.Period),
		}
	case dev > s.Threshold && held:
		return Decision{
			Signal:   Sell,
			Quantity: pos.Quantity,
			Reason:   fmt.Sprintf("%.2f%% above MA%d", dev*100, s.Period),
		}
	}
	return hold
}

func (s MeanReversion) GenerateSignals(instruments []*market.Instrument, view portfolio.View) []*broker.Order {
	return collect(instruments, view, s.Decide)
}
