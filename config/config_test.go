package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, "trader", cfg.Account.Owner)
	assert.Equal(t, 100000.0, cfg.Account.StartingCash)
	assert.Equal(t, 0.02, cfg.Simulator.Volatility)
	assert.Equal(t, 0.0001, cfg.Simulator.Drift)
	assert.Equal(t, 200.0, cfg.Strategies.Threshold.Price)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{
			name:   "missing owner",
			mutate: func(c *Config) { c.Account.Owner = "" },
			errMsg: "account.owner is required",
		},
		{
			name:   "owner with separator",
			mutate: func(c *Config) { c.Account.Owner = "a|b" },
			errMsg: "account.owner must not contain",
		},
		{
			name:   "non-positive cash",
			mutate: func(c *Config) { c.Account.StartingCash = 0 },
			errMsg: "account.starting_cash must be positive",
		},
		{
			name: "duplicate instrument",
			mutate: func(c *Config) {
				c.Market.Instruments = []InstrumentConfig{{Symbol: "X", Price: 1}, {Symbol: "X", Price: 2}}
			},
			errMsg: "duplicate symbol X",
		},
		{
			name:   "instrument price",
			mutate: func(c *Config) { c.Market.Instruments = []InstrumentConfig{{Symbol: "X"}} },
			errMsg: "X price must be positive",
		},
		{
			name:   "negative volatility",
			mutate: func(c *Config) { c.Simulator.Volatility = -0.1 },
			errMsg: "simulator.volatility must not be negative",
		},
		{
			name:   "threshold quantity",
			mutate: func(c *Config) { c.Strategies.Threshold.Quantity = 0 },
			errMsg: "strategies.threshold",
		},
		{
			name:   "crossover periods inverted",
			mutate: func(c *Config) { c.Strategies.Crossover.ShortPeriod = 30 },
			errMsg: "short_period must be less than long_period",
		},
		{
			name:   "mean reversion threshold",
			mutate: func(c *Config) { c.Strategies.MeanReversion.Threshold = 1.5 },
			errMsg: "threshold must be between 0 and 1",
		},
		{
			name:   "negative risk limit",
			mutate: func(c *Config) { c.Risk.MaxOrderValue = -1 },
			errMsg: "risk limits cannot be negative",
		},
		{
			name:   "risk position pct",
			mutate: func(c *Config) { c.Risk.MaxPositionPct = 2 },
			errMsg: "risk.max_position_pct must be between 0 and 1",
		},
		{
			name:   "risk limits set",
			mutate: func(c *Config) { c.Risk = RiskConfig{MaxPositionPct: 0.25, MaxOpenPositions: 4} },
		},
		{
			name:   "NaN starting cash",
			mutate: func(c *Config) { c.Account.StartingCash = math.NaN() },
			errMsg: "account.starting_cash must be positive",
		},
		{
			name:   "infinite starting cash",
			mutate: func(c *Config) { c.Account.StartingCash = math.Inf(1) },
			errMsg: "account.starting_cash must be positive",
		},
		{
			name:   "NaN volatility",
			mutate: func(c *Config) { c.Simulator.Volatility = math.NaN() },
			errMsg: "simulator.volatility",
		},
		{
			name:   "infinite drift",
			mutate: func(c *Config) { c.Simulator.Drift = math.Inf(-1) },
			errMsg: "simulator.drift must be a finite number",
		},
		{
			name:   "NaN instrument price",
			mutate: func(c *Config) { c.Market.Instruments = []InstrumentConfig{{Symbol: "X", Price: math.NaN()}} },
			errMsg: "X price must be positive",
		},
		{
			name:   "NaN risk limit",
			mutate: func(c *Config) { c.Risk.MaxPositionPct = math.NaN() },
			errMsg: "risk.max_position_pct must be between 0 and 1",
		},
		{
			name:   "unknown journal",
			mutate: func(c *Config) { c.Journal.Type = "kafka" },
			errMsg: "journal.type must be",
		},
		{
			name:   "csv without files",
			mutate: func(c *Config) { c.Journal = JournalConfig{Type: "csv", OrdersFile: "o.csv"} },
			errMsg: "transactions_file and orders_file required",
		},
		{
			name:   "sqlite without path",
			mutate: func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} },
			errMsg: "db_path required",
		},
		{
			name:   "no journal is fine",
			mutate: func(c *Config) { c.Journal = JournalConfig{Type: "none"} },
		},
		{
			name:   "missing data dir",
			mutate: func(c *Config) { c.Store.DataDir = "" },
			errMsg: "store.data_dir is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.Account.Owner = "alice"
			cfg.Simulator.Seed = 42
			cfg.Market.Instruments = []InstrumentConfig{{Symbol: "NVDA", Name: "NVIDIA Corp.", Price: 875.5}}
			require.NoError(t, cfg.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestSaveToFileFormatByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "c.yaml")
	jsonPath := filepath.Join(dir, "c.json")
	require.NoError(t, Default().SaveToFile(yamlPath))
	require.NoError(t, Default().SaveToFile(jsonPath))

	y, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Contains(t, string(y), "starting_cash: 100000")

	j, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(j), `"starting_cash": 100000`)
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("account: [unclosed"), 0o644))
	_, err = LoadFromFile(bad)
	assert.ErrorContains(t, err, "parse config")

	for name, body := range map[string]string{
		"nan.yaml": "account:\n  owner: bob\n  starting_cash: .nan\nsimulator:\n  volatility: .nan\n",
		"inf.yaml": "account:\n  owner: bob\n  starting_cash: .inf\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err = LoadFromFile(path)
		assert.ErrorContains(t, err, "account.starting_cash must be positive", name)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("account:\n  owner: bob\n"), 0o644))
	_, err = LoadFromFile(invalid)
	assert.ErrorContains(t, err, "invalid config")
}

func TestJournalPath(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Store.DataDir = "/var/lib/stocksim"
	assert.Equal(t, "/var/lib/stocksim/journal.db", cfg.JournalPath(cfg.Journal.DBPath))
	assert.Equal(t, "/tmp/x.csv", cfg.JournalPath("/tmp/x.csv"))
	assert.Equal(t, "", cfg.JournalPath(""))
}
