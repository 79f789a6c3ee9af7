package market

// DefaultInstruments is the market a fresh simulation starts with when no
// saved instruments exist.
func DefaultInstruments() []*Instrument {
	return []*Instrument{
		NewInstrument("AAPL", "Apple Inc.", 150.50),
		NewInstrument("GOOGL", "Alphabet Inc.", 2800.75),
		NewInstrument("MSFT", "Microsoft Corp.", 310.25),
		NewInstrument("TSLA", "Tesla Inc.", 245.80),
		NewInstrument("AMZN", "Amazon.com Inc.", 135.40),
	}
}

// NewDefaultLedger returns a ledger seeded with DefaultInstruments.
func NewDefaultLedger(opts ...Option) *Ledger {
	l := NewLedger(opts...)
	for _, inst := range DefaultInstruments() {
		l.Add(inst)
	}
	return l
}
