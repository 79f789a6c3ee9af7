package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/strategies"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag in the tree back to its default so that one
// invocation cannot leak --execute or --limit into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command against dir with every flag reset first.
// Flags are package globals, so these tests do not run in parallel.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--data-dir", dir, "--owner", "tester"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestTradingSession(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "market")
	require.NoError(t, err)
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "150.50")

	out, err = run(t, dir, "buy", "aapl", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "EXECUTED  BUY 10 AAPL")
	assert.Contains(t, out, "Cash balance: $98495.00")

	out, err = run(t, dir, "sell", "AAPL", "20")
	require.Error(t, err)
	assert.Contains(t, out, "CANCELLED SELL 20 AAPL")

	_, err = run(t, dir, "buy", "NOPE", "1")
	require.Error(t, err)

	assert.FileExists(t, filepath.Join(dir, "stocks.txt"))
	assert.FileExists(t, filepath.Join(dir, "portfolio_tester.txt"))
	assert.FileExists(t, filepath.Join(dir, "journal.db"))

	out, err = run(t, dir, "portfolio")
	require.NoError(t, err)
	assert.Contains(t, out, "Account: tester")
	assert.Contains(t, out, "AAPL")

	out, err = run(t, dir, "history", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "BUY")

	out, err = run(t, dir, "journal", "orders", "-n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "EXECUTED")
	assert.Contains(t, out, "CANCELLED")

	out, err = run(t, dir, "journal", "transactions", "-n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "AAPL")

	out, err = run(t, dir, "report", "--recent", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "* ACCOUNT: tester")
	assert.Contains(t, out, ":EXECUTED:    1")
	assert.Contains(t, out, ":CANCELLED:   2")
}

func TestStrategyRunExecutes(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "strategy", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Simple Threshold")

	out, err = run(t, dir, "strategy", "run", "1", "--execute")
	require.NoError(t, err)
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "AMZN")

	out, err = run(t, dir, "portfolio")
	require.NoError(t, err)
	assert.Contains(t, out, "AMZN")

	_, err = run(t, dir, "strategy", "run", "9", "--execute=false")
	assert.Error(t, err)
}

func TestSimulatePersistsPrices(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "simulate", "--regime", "bull", "--steps", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 3 bull step(s)")

	data, err := os.ReadFile(filepath.Join(dir, "stocks.txt"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "|150.5|")

	_, err = run(t, dir, "simulate", "--regime", "sideways", "--steps", "1")
	assert.Error(t, err)
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stocksim.yaml")

	_, err := run(t, dir, "config", "init", "-o", path)
	require.NoError(t, err)

	out, err := run(t, dir, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
}

func TestDayBounds(t *testing.T) {
	start, end, err := dayBounds(time.UTC, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	_, _, err = dayBounds(time.UTC, "15/01/2024")
	assert.Error(t, err)
}

func TestStrategyIndex(t *testing.T) {
	e := strategies.NewDefaultEngine(nil)

	idx, err := strategyIndex(e, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = strategyIndex(e, "mean reversion")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = strategyIndex(e, "martingale")
	assert.ErrorIs(t, err, strategies.ErrInvalidSelection)
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "strategy", "run", "1", "--execute")
	require.NoError(t, err)
	require.True(t, strategyExecute)

	_, err = run(t, dir, "journal", "orders", "-n", "1")
	require.NoError(t, err)
	require.Equal(t, 1, journalLimit)

	out, err := run(t, dir, "strategy", "run", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Re-run with --execute")
	assert.False(t, strategyExecute)

	_, err = run(t, dir, "journal", "orders")
	require.NoError(t, err)
	assert.Equal(t, 10, journalLimit)
}

func TestMarketAddAndRemove(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "market", "add", "nvda", "NVIDIA Corp.", "875.50")
	require.NoError(t, err)
	assert.Contains(t, out, "Added NVDA (NVIDIA Corp.) at $875.50")

	out, err = run(t, dir, "market", "NVDA")
	require.NoError(t, err)
	assert.Contains(t, out, "NVIDIA Corp.")

	out, err = run(t, dir, "market", "add", "NVDA", "NVIDIA", "900")
	require.NoError(t, err)
	assert.Contains(t, out, "Replaced NVDA")

	for _, price := range []string{"0", "-5", "NaN", "+Inf", "abc"} {
		_, err = run(t, dir, "market", "add", "BAD", "Bad", price)
		assert.Error(t, err, price)
	}
	_, err = run(t, dir, "market", "add", "A|B", "Bad", "10")
	assert.Error(t, err)

	_, err = run(t, dir, "buy", "NVDA", "2")
	require.NoError(t, err)

	out, err = run(t, dir, "market", "remove", "nvda")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed NVDA")
	assert.Contains(t, out, "Still holding 2 NVDA")

	out, err = run(t, dir, "market")
	require.NoError(t, err)
	assert.NotContains(t, out, "NVDA")

	// the position survives delisting and is left out of the total
	out, err = run(t, dir, "portfolio")
	require.NoError(t, err)
	assert.Contains(t, out, "NVDA")
	assert.Contains(t, out, "Total value:    $98200.00")

	_, err = run(t, dir, "market", "remove", "NVDA")
	assert.ErrorIs(t, err, market.ErrNotFound)

	_, err = run(t, dir, "sell", "NVDA", "1")
	assert.Error(t, err)
}
