package risk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/stocksim/market"
)

var ErrRejected = errors.New("rejected by risk policy")

type Violation struct {
	Code string
	Msg  string
}

type Decision struct {
	Allowed    bool
	Violations []Violation

	OrderValue  float64
	PositionPct float64
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Err is nil when the trade is allowed, otherwise ErrRejected wrapped with
// every violation message.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	msgs := make([]string, len(d.Violations))
	for i, v := range d.Violations {
		msgs[i] = v.Code + ": " + v.Msg
	}
	return fmt.Errorf("%w: %s", ErrRejected, strings.Join(msgs, "; "))
}

// Evaluate checks a buy against p. Sells only reduce exposure and are
// always allowed.
func Evaluate(p Policy, intent TradeIntent, acct AccountSnapshot) Decision {
	d := Decision{Allowed: true}
	if intent.Side != market.Buy {
		return d
	}

	d.OrderValue = OrderValue(intent.Quantity, intent.Price)
	// buying converts cash into stock, so equity is unchanged by the trade
	d.PositionPct = PositionPct(acct.PositionValue+d.OrderValue, acct.Equity)

	if p.MaxOrderValue > 0 && d.OrderValue > p.MaxOrderValue {
		d.add("ORDER_TOO_LARGE",
			fmt.Sprintf("order value %.2f exceeds max %.2f", d.OrderValue, p.MaxOrderValue))
	}
	if p.MaxPositionPct > 0 && d.PositionPct > p.MaxPositionPct {
		d.add("POSITION_TOO_LARGE",
			fmt.Sprintf("%s would be %.2f%% of equity, max %.2f%%",
				intent.Symbol, 100*d.PositionPct, 100*p.MaxPositionPct))
	}
	if p.MaxOpenPositions > 0 && !acct.Holds && acct.OpenPositions >= p.MaxOpenPositions {
		d.add("TOO_MANY_POSITIONS",
			fmt.Sprintf("open positions %d >= max %d", acct.OpenPositions, p.MaxOpenPositions))
	}
	if p.MinCashReserve > 0 && acct.Cash-d.OrderValue < p.MinCashReserve {
		d.add("CASH_RESERVE",
			fmt.Sprintf("cash after buy %.2f below reserve %.2f", acct.Cash-d.OrderValue, p.MinCashReserve))
	}

	return d
}
