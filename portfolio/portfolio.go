package portfolio

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/stocksim/market"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNoPosition         = errors.New("no position")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidPrice       = errors.New("price must be positive")
)

// Portfolio is one owner's cash, open positions and transaction log.
// It changes only through Buy and Sell.
type Portfolio struct {
	owner     string
	cash      float64
	positions map[string]*Position
	txns      []Transaction
	now       func() time.Time
}

type Option func(*Portfolio)

// WithClock sets the time source used to stamp transactions.
func WithClock(now func() time.Time) Option {
	return func(p *Portfolio) {
		p.now = now
	}
}

func New(owner string, cash float64, opts ...Option) *Portfolio {
	p := &Portfolio{
		owner:     owner,
		cash:      cash,
		positions: make(map[string]*Position),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Restore rebuilds a portfolio from persisted state.
func Restore(owner string, cash float64, positions []Position, txns []Transaction, opts ...Option) (*Portfolio, error) {
	if !(cash >= 0) || math.IsInf(cash, 1) {
		return nil, fmt.Errorf("restore %s: invalid cash %v", owner, cash)
	}

	p := New(owner, cash, opts...)
	for _, pos := range positions {
		if pos.Quantity <= 0 {
			return nil, fmt.Errorf("restore %s: position %s: %w", owner, pos.Symbol, ErrInvalidQuantity)
		}
		if !(pos.AveragePrice > 0) || math.IsInf(pos.AveragePrice, 1) {
			return nil, fmt.Errorf("restore %s: position %s: %w (got %v)", owner, pos.Symbol, ErrInvalidPrice, pos.AveragePrice)
		}
		if _, dup := p.positions[pos.Symbol]; dup {
			return nil, fmt.Errorf("restore %s: duplicate position %s", owner, pos.Symbol)
		}
		cp := pos
		p.positions[pos.Symbol] = &cp
	}
	p.txns = append(p.txns, txns...)
	return p, nil
}

func (p *Portfolio) OwnerID() string { return p.owner }
func (p *Portfolio) Cash() float64   { return p.cash }

// Position returns a copy of the holding for symbol.
func (p *Portfolio) Position(symbol string) (Position, bool) {
	pos, ok := p.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions returns copies of every open position ordered by symbol.
func (p *Portfolio) Positions() []Position {
	out := make([]Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, *pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Transactions returns a copy of the full log, oldest first.
func (p *Portfolio) Transactions() []Transaction {
	out := make([]Transaction, len(p.txns))
	copy(out, p.txns)
	return out
}

// RecentTransactions returns up to n transactions, newest first.
func (p *Portfolio) RecentTransactions(n int) []Transaction {
	if n <= 0 || len(p.txns) == 0 {
		return nil
	}
	n = min(n, len(p.txns))
	out := make([]Transaction, 0, n)
	for i := len(p.txns) - 1; i >= len(p.txns)-n; i-- {
		out = append(out, p.txns[i])
	}
	return out
}

func (p *Portfolio) LastTransaction() (Transaction, bool) {
	if len(p.txns) == 0 {
		return Transaction{}, false
	}
	return p.txns[len(p.txns)-1], true
}

func validate(qty int, price float64) error {
	if qty <= 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidQuantity, qty)
	}
	if !(price > 0) {
		return fmt.Errorf("%w (got %v)", ErrInvalidPrice, price)
	}
	return nil
}

// Buy debits qty*price and adds qty to the position, recomputing the
// weighted average cost. Nothing changes when funds are insufficient.
func (p *Portfolio) Buy(symbol string, qty int, price float64) error {
	if err := validate(qty, price); err != nil {
		return fmt.Errorf("buy %s: %w", symbol, err)
	}

	cost := float64(qty) * price
	if cost > p.cash {
		return fmt.Errorf("buy %s: %w: required %.2f, available %.2f",
			symbol, ErrInsufficientFunds, cost, p.cash)
	}

	p.cash -= cost

	if pos, ok := p.positions[symbol]; ok {
		pos.AveragePrice = (float64(pos.Quantity)*pos.AveragePrice + float64(qty)*price) /
			float64(pos.Quantity+qty)
		pos.Quantity += qty
	} else {
		p.positions[symbol] = &Position{
			Symbol:       symbol,
			Quantity:     qty,
			AveragePrice: price,
		}
	}

	p.txns = append(p.txns, Transaction{
		Side:     market.Buy,
		Symbol:   symbol,
		Quantity: qty,
		Price:    price,
		Time:     p.now(),
	})
	return nil
}

// Sell credits qty*price and reduces the position. The average cost is
// left unchanged and the position is removed once it reaches zero.
func (p *Portfolio) Sell(symbol string, qty int, price float64) error {
	if err := validate(qty, price); err != nil {
		return fmt.Errorf("sell %s: %w", symbol, err)
	}

	pos, ok := p.positions[symbol]
	if !ok {
		return fmt.Errorf("sell %s: %w", symbol, ErrNoPosition)
	}
	if qty > pos.Quantity {
		return fmt.Errorf("sell %s: %w: own %d, requested %d",
			symbol, ErrInsufficientShares, pos.Quantity, qty)
	}

	p.cash += float64(qty) * price
	pos.Quantity -= qty
	if pos.Quantity == 0 {
		delete(p.positions, symbol)
	}

	p.txns = append(p.txns, Transaction{
		Side:     market.Sell,
		Symbol:   symbol,
		Quantity: qty,
		Price:    price,
		Time:     p.now(),
	})
	return nil
}

// Revalue marks every position whose symbol appears in prices. Positions
// without a price keep their previous snapshot.
func (p *Portfolio) Revalue(prices map[string]float64) {
	for sym, pos := range p.positions {
		price, ok := prices[sym]
		if !ok {
			continue
		}
		pos.CurrentValue = float64(pos.Quantity) * price
		pos.ProfitLoss = pos.CurrentValue - pos.CostBasis()
	}
}

// TotalValue is cash plus the market value of positions priced in prices.
// A position whose symbol is missing from prices contributes nothing.
func (p *Portfolio) TotalValue(prices map[string]float64) float64 {
	total := p.cash
	for sym, pos := range p.positions {
		if price, ok := prices[sym]; ok {
			total += float64(pos.Quantity) * price
		}
	}
	return total
}

// TotalProfitLoss sums the ProfitLoss snapshots of all positions.
//
// It does not look at live prices: call Revalue with current prices first,
// otherwise the figures from the previous Revalue (or zero) are summed.
func (p *Portfolio) TotalProfitLoss() float64 {
	total := 0.0
	for _, pos := range p.positions {
		total += pos.ProfitLoss
	}
	return total
}
