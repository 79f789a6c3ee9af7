package pricing

import (
	"fmt"
	"strings"
)

// Regime is a named market condition that overrides the simulator's
// parameters for a single market-wide step.
type Regime int

const (
	Normal Regime = iota
	Bull
	Bear
	Volatile
)

// Parameter overrides applied by each regime.
const (
	BullDrift          = 0.03
	BearDrift          = -0.03
	VolatileVolatility = 0.05
)

func (r Regime) String() string {
	switch r {
	case Normal:
		return "normal"
	case Bull:
		return "bull"
	case Bear:
		return "bear"
	case Volatile:
		return "volatile"
	default:
		return fmt.Sprintf("regime(%d)", int(r))
	}
}

func ParseRegime(s string) (Regime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "bull":
		return Bull, nil
	case "bear":
		return Bear, nil
	case "volatile":
		return Volatile, nil
	default:
		return 0, fmt.Errorf("unknown regime %q (want normal, bull, bear or volatile)", s)
	}
}
