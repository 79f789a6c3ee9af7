package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stocksim",
	Short: "A single-operator stock trading simulator",
	Long: `Stocksim simulates a small stock market and one trader's account.

It provides tools for:
  - Evolving prices with a drift/volatility model and market regimes
  - Buying and selling at the live market price
  - Tracking cash, positions, average cost and unrealized P/L
  - Running built-in strategies that propose orders
  - Auditing every order and trade in a CSV or SQLite journal

State is kept in flat files under the data directory between runs.`,
	SilenceUsage: true,
}

var (
	cfgFile     string
	ownerFlag   string
	dataDirFlag string
	debugFlag   bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&ownerFlag, "owner", "", "account owner (overrides account.owner)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (overrides store.data_dir)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable development logging")
}
