package portfolio

import (
	"time"

	"github.com/rustyeddy/stocksim/market"
)

// Position is a holding of one instrument.
//
// CurrentValue and ProfitLoss are a snapshot from the last Revalue call;
// they are not recomputed on read.
type Position struct {
	Symbol       string
	Quantity     int
	AveragePrice float64
	CurrentValue float64
	ProfitLoss   float64
}

// CostBasis is what the held quantity cost at the average price.
func (p Position) CostBasis() float64 {
	return float64(p.Quantity) * p.AveragePrice
}

// ProfitLossPercent is ProfitLoss relative to CostBasis.
func (p Position) ProfitLossPercent() float64 {
	basis := p.CostBasis()
	if basis <= 0 {
		return 0
	}
	return p.ProfitLoss / basis * 100.0
}

// UnrealizedPL is the profit or loss of the position marked at price.
func UnrealizedPL(p Position, price float64) float64 {
	return float64(p.Quantity) * (price - p.AveragePrice)
}

// Transaction is an immutable record of one applied trade.
type Transaction struct {
	Side     market.Side
	Symbol   string
	Quantity int
	Price    float64
	Time     time.Time
}

func (t Transaction) Total() float64 {
	return float64(t.Quantity) * t.Price
}

// View is the read-only slice of a portfolio that strategies consult.
type View interface {
	Position(symbol string) (Position, bool)
}
