package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete simulator configuration.
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Market     MarketConfig     `json:"market" yaml:"market"`
	Simulator  SimulatorConfig  `json:"simulator" yaml:"simulator"`
	Strategies StrategiesConfig `json:"strategies" yaml:"strategies"`
	Risk       RiskConfig       `json:"risk" yaml:"risk"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}

// AccountConfig names the acting owner and the cash a new account starts with.
type AccountConfig struct {
	Owner        string  `json:"owner" yaml:"owner"`
	StartingCash float64 `json:"starting_cash" yaml:"starting_cash"`
}

// MarketConfig seeds the market when no saved instruments exist.
// An empty list means the built-in default market.
type MarketConfig struct {
	Instruments []InstrumentConfig `json:"instruments,omitempty" yaml:"instruments,omitempty"`
}

type InstrumentConfig struct {
	Symbol string  `json:"symbol" yaml:"symbol"`
	Name   string  `json:"name" yaml:"name"`
	Price  float64 `json:"price" yaml:"price"`
}

// SimulatorConfig holds the price model parameters. A zero seed means a
// random seed per run.
type SimulatorConfig struct {
	Drift      float64 `json:"drift" yaml:"drift"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
	Seed       uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`
}

type StrategiesConfig struct {
	Threshold     ThresholdConfig     `json:"threshold" yaml:"threshold"`
	Crossover     CrossoverConfig     `json:"crossover" yaml:"crossover"`
	MeanReversion MeanReversionConfig `json:"mean_reversion" yaml:"mean_reversion"`
}

type ThresholdConfig struct {
	Price    float64 `json:"price" yaml:"price"`
	Quantity int     `json:"quantity" yaml:"quantity"`
}

type CrossoverConfig struct {
	ShortPeriod int `json:"short_period" yaml:"short_period"`
	LongPeriod  int `json:"long_period" yaml:"long_period"`
	Quantity    int `json:"quantity" yaml:"quantity"`
}

type MeanReversionConfig struct {
	Period    int     `json:"period" yaml:"period"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Quantity  int     `json:"quantity" yaml:"quantity"`
}

// RiskConfig holds optional pre-trade limits on buys. Zero disables a limit.
type RiskConfig struct {
	MaxOrderValue    float64 `json:"max_order_value,omitempty" yaml:"max_order_value,omitempty"`
	MaxPositionPct   float64 `json:"max_position_pct,omitempty" yaml:"max_position_pct,omitempty"`
	MaxOpenPositions int     `json:"max_open_positions,omitempty" yaml:"max_open_positions,omitempty"`
	MinCashReserve   float64 `json:"min_cash_reserve,omitempty" yaml:"min_cash_reserve,omitempty"`
}

// JournalConfig selects the audit journal. Relative paths are taken
// relative to store.data_dir.
type JournalConfig struct {
	Type             string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TransactionsFile string `json:"transactions_file,omitempty" yaml:"transactions_file,omitempty"`
	OrdersFile       string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	DBPath           string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type StoreConfig struct {
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// JournalPath resolves a journal file name against the data dir.
func (c *Config) JournalPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Store.DataDir, name)
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// YAML is a superset of JSON, but keep JSON as a fallback for odd inputs
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = &Config{}
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// positive is false for NaN and +Inf as well as for x <= 0.
func positive(x float64) bool { return finite(x) && x > 0 }

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Account.Owner == "" {
		return fmt.Errorf("account.owner is required")
	}
	if strings.ContainsAny(c.Account.Owner, `|/\`) {
		return fmt.Errorf("account.owner must not contain '|', '/' or '\\'")
	}
	if !positive(c.Account.StartingCash) {
		return fmt.Errorf("account.starting_cash must be positive")
	}

	seen := map[string]bool{}
	for _, inst := range c.Market.Instruments {
		if inst.Symbol == "" {
			return fmt.Errorf("market.instruments: symbol is required")
		}
		if seen[inst.Symbol] {
			return fmt.Errorf("market.instruments: duplicate symbol %s", inst.Symbol)
		}
		seen[inst.Symbol] = true
		if !positive(inst.Price) {
			return fmt.Errorf("market.instruments: %s price must be positive", inst.Symbol)
		}
	}

	if !finite(c.Simulator.Volatility) || c.Simulator.Volatility < 0 {
		return fmt.Errorf("simulator.volatility must not be negative")
	}
	if !finite(c.Simulator.Drift) {
		return fmt.Errorf("simulator.drift must be a finite number")
	}

	s := c.Strategies
	if !positive(s.Threshold.Price) || s.Threshold.Quantity <= 0 {
		return fmt.Errorf("strategies.threshold price and quantity must be positive")
	}
	if s.Crossover.ShortPeriod <= 0 || s.Crossover.LongPeriod <= 0 || s.Crossover.Quantity <= 0 {
		return fmt.Errorf("strategies.crossover periods and quantity must be positive")
	}
	if s.Crossover.ShortPeriod >= s.Crossover.LongPeriod {
		return fmt.Errorf("strategies.crossover short_period must be less than long_period")
	}
	if s.MeanReversion.Period <= 0 || s.MeanReversion.Quantity <= 0 {
		return fmt.Errorf("strategies.mean_reversion period and quantity must be positive")
	}
	if !(s.MeanReversion.Threshold > 0 && s.MeanReversion.Threshold < 1) {
		return fmt.Errorf("strategies.mean_reversion threshold must be between 0 and 1")
	}

	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.TransactionsFile == "" || c.Journal.OrdersFile == "" {
			return fmt.Errorf("journal transactions_file and orders_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}

	if !(c.Risk.MaxOrderValue >= 0) || math.IsInf(c.Risk.MaxOrderValue, 1) ||
		c.Risk.MaxOpenPositions < 0 || !(c.Risk.MinCashReserve >= 0) || math.IsInf(c.Risk.MinCashReserve, 1) {
		return fmt.Errorf("risk limits cannot be negative")
	}
	if !(c.Risk.MaxPositionPct >= 0 && c.Risk.MaxPositionPct <= 1) {
		return fmt.Errorf("risk.max_position_pct must be between 0 and 1")
	}

	if c.Store.DataDir == "" {
		return fmt.Errorf("store.data_dir is required")
	}
	return nil
}

// Default returns the configuration a fresh simulator runs with.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Owner:        "trader",
			StartingCash: 100000,
		},
		Simulator: SimulatorConfig{
			Drift:      0.0001,
			Volatility: 0.02,
		},
		Strategies: StrategiesConfig{
			Threshold:     ThresholdConfig{Price: 200.0, Quantity: 5},
			Crossover:     CrossoverConfig{ShortPeriod: 5, LongPeriod: 20, Quantity: 10},
			MeanReversion: MeanReversionConfig{Period: 20, Threshold: 0.05, Quantity: 8},
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "journal.db",
		},
		Store: StoreConfig{
			DataDir: "./data",
		},
	}
}
