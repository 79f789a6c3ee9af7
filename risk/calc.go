package risk

import "math"

// OrderValue is the cash a trade moves.
func OrderValue(qty int, price float64) float64 {
	return float64(qty) * price
}

// PositionPct is value as a fraction of equity.
func PositionPct(value, equity float64) float64 {
	if equity <= 0 {
		return math.Inf(1)
	}
	return value / equity
}
