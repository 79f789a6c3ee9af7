package pricing

import (
	"fmt"
	"math/rand/v2"

	"github.com/rustyeddy/stocksim/market"
	"go.uber.org/zap"
)

const (
	DefaultVolatility = 0.02
	DefaultDrift      = 0.0001

	// PriceFloor is the lowest price a simulated step can produce.
	PriceFloor = 1.0
)

// Sampler draws from the standard normal distribution.
// *rand.Rand satisfies it.
type Sampler interface {
	NormFloat64() float64
}

// Move describes one simulated price step.
type Move struct {
	Symbol string
	Old    float64
	New    float64
}

func (m Move) Change() float64 { return m.New - m.Old }

func (m Move) ChangePercent() float64 {
	if m.Old == 0 {
		return 0
	}
	return m.Change() / m.Old * 100.0
}

// Simulator evolves instrument prices with normally distributed percentage
// steps: pct ~ N(drift, volatility).
type Simulator struct {
	drift      float64
	volatility float64
	rng        Sampler
	logger     *zap.Logger
}

// NewSimulator builds a simulator around an explicitly owned sampler.
func NewSimulator(volatility, drift float64, rng Sampler, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Simulator{
		drift:      drift,
		volatility: volatility,
		rng:        rng,
		logger:     logger,
	}
}

// NewSeeded returns a simulator whose price path is reproducible for a given seed.
func NewSeeded(volatility, drift float64, seed uint64, logger *zap.Logger) *Simulator {
	return NewSimulator(volatility, drift, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), logger)
}

func (s *Simulator) Drift() float64      { return s.drift }
func (s *Simulator) Volatility() float64 { return s.volatility }

func (s *Simulator) SetDrift(d float64)      { s.drift = d }
func (s *Simulator) SetVolatility(v float64) { s.volatility = v }

// Step draws one percentage change for symbol and applies it through the ledger.
// The resulting price never drops below PriceFloor.
func (s *Simulator) Step(l *market.Ledger, symbol string) (Move, error) {
	inst, err := l.Get(symbol)
	if err != nil {
		return Move{}, err
	}

	old := inst.Price()
	pct := s.drift + s.volatility*s.rng.NormFloat64()

	next := old * (1.0 + pct)
	if next < PriceFloor {
		next = PriceFloor
	}

	if err := l.SetPrice(symbol, next); err != nil {
		return Move{}, fmt.Errorf("step %s: %w", symbol, err)
	}

	s.logger.Debug("price step",
		zap.String("symbol", symbol),
		zap.Float64("old", old),
		zap.Float64("new", next),
		zap.Float64("pct", pct))

	return Move{Symbol: symbol, Old: old, New: next}, nil
}

// ApplyToMarket steps every instrument in the ledger once, in symbol order.
// It stops at the first failing step and returns the moves applied so far.
func (s *Simulator) ApplyToMarket(l *market.Ledger) ([]Move, error) {
	syms := l.Symbols()
	moves := make([]Move, 0, len(syms))
	for _, sym := range syms {
		m, err := s.Step(l, sym)
		if err != nil {
			return moves, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// ApplyRegime runs one market-wide step under the regime's parameters and
// then restores the simulator's previous drift and volatility, including
// when a step fails or panics.
func (s *Simulator) ApplyRegime(l *market.Ledger, r Regime) ([]Move, error) {
	prevDrift, prevVol := s.drift, s.volatility
	defer func() {
		s.drift, s.volatility = prevDrift, prevVol
	}()

	switch r {
	case Normal:
	case Bull:
		s.drift = BullDrift
	case Bear:
		s.drift = BearDrift
	case Volatile:
		s.volatility = VolatileVolatility
	default:
		return nil, fmt.Errorf("apply regime: unknown %s", r)
	}

	s.logger.Info("applying market regime",
		zap.Stringer("regime", r),
		zap.Float64("drift", s.drift),
		zap.Float64("volatility", s.volatility))

	return s.ApplyToMarket(l)
}
