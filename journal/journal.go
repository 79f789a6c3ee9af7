// Package journal keeps an audit trail of executed trades and of every
// order decision, executed or cancelled.
package journal

import (
	"errors"
	"time"

	"github.com/rustyeddy/stocksim/market"
)

var ErrNotFound = errors.New("journal record not found")

// TransactionRecord is one applied trade.
type TransactionRecord struct {
	Owner    string
	Side     market.Side
	Symbol   string
	Quantity int
	Price    float64
	Time     time.Time
}

func (r TransactionRecord) Total() float64 {
	return float64(r.Quantity) * r.Price
}

// OrderRecord is the outcome of one order. FillPrice is the live price the
// order was applied at and is zero when it never reached the ledger.
type OrderRecord struct {
	OrderID    string
	Owner      string
	Side       market.Side
	Symbol     string
	Quantity   int
	OrderPrice float64
	FillPrice  float64
	Status     string
	Reason     string
	Created    time.Time
	Decided    time.Time
}

type Journal interface {
	RecordTransaction(TransactionRecord) error
	RecordOrder(OrderRecord) error
	Close() error
}

// Discard drops everything written to it.
type Discard struct{}

func (Discard) RecordTransaction(TransactionRecord) error { return nil }
func (Discard) RecordOrder(OrderRecord) error             { return nil }
func (Discard) Close() error                              { return nil }
