package broker

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/stocksim/internal/id"
	"github.com/rustyeddy/stocksim/market"
)

// ErrTerminal is returned when an order that already executed or was
// cancelled is asked to change status again.
var ErrTerminal = errors.New("order already in a terminal state")

type Status int

const (
	Pending Status = iota
	Executed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Executed:
		return "EXECUTED"
	case Cancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

func (s Status) Terminal() bool {
	return s == Executed || s == Cancelled
}

// Order is a trade intent. Everything but the status is fixed at
// construction; Price is the quote seen when the order was proposed, not
// necessarily the price it fills at.
type Order struct {
	id       string
	side     market.Side
	symbol   string
	quantity int
	price    float64
	status   Status
	created  time.Time
	reason   string
}

func NewOrder(side market.Side, symbol string, qty int, price float64) *Order {
	return &Order{
		id:       id.NewOrder(),
		side:     side,
		symbol:   symbol,
		quantity: qty,
		price:    price,
		status:   Pending,
		created:  time.Now(),
	}
}

func NewBuyOrder(symbol string, qty int, price float64) *Order {
	return NewOrder(market.Buy, symbol, qty, price)
}

func NewSellOrder(symbol string, qty int, price float64) *Order {
	return NewOrder(market.Sell, symbol, qty, price)
}

func (o *Order) ID() string           { return o.id }
func (o *Order) Side() market.Side    { return o.side }
func (o *Order) Symbol() string       { return o.symbol }
func (o *Order) Quantity() int        { return o.quantity }
func (o *Order) Price() float64       { return o.price }
func (o *Order) Status() Status       { return o.status }
func (o *Order) CreatedAt() time.Time { return o.created }

// Reason explains a cancellation; empty otherwise.
func (o *Order) Reason() string { return o.reason }

// Total is quantity times the proposal price.
func (o *Order) Total() float64 {
	return float64(o.quantity) * o.price
}

func (o *Order) MarkExecuted() error {
	if o.status.Terminal() {
		return fmt.Errorf("execute %s: %w (%s)", o.id, ErrTerminal, o.status)
	}
	o.status = Executed
	return nil
}

func (o *Order) MarkCancelled(reason string) error {
	if o.status.Terminal() {
		return fmt.Errorf("cancel %s: %w (%s)", o.id, ErrTerminal, o.status)
	}
	o.status = Cancelled
	o.reason = reason
	return nil
}

func (o *Order) String() string {
	return fmt.Sprintf("%s %s %d %s @ %.2f [%s]",
		o.id, o.side, o.quantity, o.symbol, o.price, o.status)
}
