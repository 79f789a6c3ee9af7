package broker

import (
	"context"

	"github.com/rustyeddy/stocksim/portfolio"
)

// Broker applies orders against a portfolio. Implementations set the
// order's terminal status before returning, whatever the outcome.
type Broker interface {
	Execute(ctx context.Context, o *Order, p *portfolio.Portfolio) error
}
