// Package risk holds optional pre-trade limits on buy orders.
package risk

import "github.com/rustyeddy/stocksim/market"

// Policy is a set of pre-trade limits. A zero field disables its check, so
// the zero Policy allows everything.
type Policy struct {
	// Exposure limits
	MaxOrderValue    float64 // largest single buy, in cash
	MaxPositionPct   float64 // largest position after the buy, as a fraction of equity (0.25)
	MaxOpenPositions int     // distinct symbols held after the buy

	// Keep at least this much cash after a buy.
	MinCashReserve float64
}

func (p Policy) Enabled() bool {
	return p.MaxOrderValue > 0 || p.MaxPositionPct > 0 || p.MaxOpenPositions > 0 || p.MinCashReserve > 0
}

type TradeIntent struct {
	Side     market.Side
	Symbol   string
	Quantity int
	Price    float64
}

// AccountSnapshot is the account as it stands before the trade.
type AccountSnapshot struct {
	Cash          float64
	Equity        float64 // cash plus positions marked at live prices
	PositionValue float64 // live value of the intent's symbol
	OpenPositions int
	Holds         bool // already holds the intent's symbol
}
