package cmd

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/stocksim/config"
	"github.com/rustyeddy/stocksim/journal"
	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/portfolio"
	"github.com/rustyeddy/stocksim/pricing"
	"github.com/rustyeddy/stocksim/risk"
	"github.com/rustyeddy/stocksim/sim"
	"github.com/rustyeddy/stocksim/store"
	"github.com/rustyeddy/stocksim/strategies"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// session is the state one command works on: loaded from the data dir at
// start and written back by save.
type session struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      *store.FileStore
	market     *market.Ledger
	account    *portfolio.Portfolio
	journal    journal.Journal
	engine     *sim.Engine
	simulator  *pricing.Simulator
	strategies *strategies.Engine
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(cfgFile); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if ownerFlag != "" {
		cfg.Account.Owner = ownerFlag
	}
	if dataDirFlag != "" {
		cfg.Store.DataDir = dataDirFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return zc.Build()
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.JournalPath(cfg.Journal.TransactionsFile), cfg.JournalPath(cfg.Journal.OrdersFile))
	case "sqlite":
		return journal.NewSQLite(cfg.JournalPath(cfg.Journal.DBPath))
	default:
		return journal.Discard{}, nil
	}
}

func seedInstruments(cfg *config.Config) []*market.Instrument {
	if len(cfg.Market.Instruments) == 0 {
		return market.DefaultInstruments()
	}
	out := make([]*market.Instrument, 0, len(cfg.Market.Instruments))
	for _, ic := range cfg.Market.Instruments {
		name := ic.Name
		if name == "" {
			name = ic.Symbol
		}
		out = append(out, market.NewInstrument(ic.Symbol, name, ic.Price))
	}
	return out
}

func newStrategies(cfg config.StrategiesConfig, logger *zap.Logger) *strategies.Engine {
	return strategies.NewEngine(logger,
		strategies.ThresholdBuy{Threshold: cfg.Threshold.Price, Quantity: cfg.Threshold.Quantity},
		strategies.MACrossover{
			ShortPeriod: cfg.Crossover.ShortPeriod,
			LongPeriod:  cfg.Crossover.LongPeriod,
			Quantity:    cfg.Crossover.Quantity,
		},
		strategies.MeanReversion{
			Period:    cfg.MeanReversion.Period,
			Threshold: cfg.MeanReversion.Threshold,
			Quantity:  cfg.MeanReversion.Quantity,
		},
	)
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(debugFlag)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	st, err := store.NewFileStore(cfg.Store.DataDir)
	if err != nil {
		return nil, err
	}

	instruments, err := st.LoadInstruments()
	if err != nil {
		return nil, fmt.Errorf("load market: %w", err)
	}
	if instruments == nil {
		instruments = seedInstruments(cfg)
		logger.Info("seeded market", zap.Int("instruments", len(instruments)))
	}
	ledger := market.NewLedger()
	for _, inst := range instruments {
		ledger.Add(inst)
	}

	account, err := st.LoadAccount(cfg.Account.Owner)
	switch {
	case errors.Is(err, store.ErrNotFound):
		account = portfolio.New(cfg.Account.Owner, cfg.Account.StartingCash)
		logger.Info("opened new account",
			zap.String("owner", cfg.Account.Owner),
			zap.Float64("cash", cfg.Account.StartingCash))
	case err != nil:
		return nil, fmt.Errorf("load account: %w", err)
	}

	j, err := openJournal(cfg)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	var simulator *pricing.Simulator
	if cfg.Simulator.Seed != 0 {
		simulator = pricing.NewSeeded(cfg.Simulator.Volatility, cfg.Simulator.Drift, cfg.Simulator.Seed, logger)
	} else {
		simulator = pricing.NewSimulator(cfg.Simulator.Volatility, cfg.Simulator.Drift, nil, logger)
	}

	engine := sim.NewEngine(ledger, j, logger)
	engine.SetRiskPolicy(risk.Policy{
		MaxOrderValue:    cfg.Risk.MaxOrderValue,
		MaxPositionPct:   cfg.Risk.MaxPositionPct,
		MaxOpenPositions: cfg.Risk.MaxOpenPositions,
		MinCashReserve:   cfg.Risk.MinCashReserve,
	})

	return &session{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		market:     ledger,
		account:    account,
		journal:    j,
		engine:     engine,
		simulator:  simulator,
		strategies: newStrategies(cfg.Strategies, logger),
	}, nil
}

func (s *session) save() error {
	if err := s.store.SaveInstruments(s.market.Instruments()); err != nil {
		return fmt.Errorf("save market: %w", err)
	}
	if err := s.store.SaveAccount(s.account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (s *session) close() {
	if err := s.journal.Close(); err != nil {
		s.logger.Warn("close journal", zap.Error(err))
	}
	_ = s.logger.Sync()
}
