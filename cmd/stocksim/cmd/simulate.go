package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rustyeddy/stocksim/pricing"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Advance market prices",
	Long: `Step every instrument's price one or more times.

A regime overrides the model for each step and is reverted afterwards:
  normal   - configured drift and volatility
  bull     - drift +3% per step
  bear     - drift -3% per step
  volatile - volatility 5% per step

Example:
  stocksim simulate --regime bull --steps 5`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

var (
	simulateRegime string
	simulateSteps  int
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVarP(&simulateRegime, "regime", "r", "normal", "market regime: normal, bull, bear or volatile")
	simulateCmd.Flags().IntVarP(&simulateSteps, "steps", "n", 1, "number of market-wide steps")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	regime, err := pricing.ParseRegime(simulateRegime)
	if err != nil {
		return err
	}
	if simulateSteps <= 0 {
		return fmt.Errorf("steps must be positive")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	start := s.market.Prices()

	var last []pricing.Move
	for i := 0; i < simulateSteps; i++ {
		last, err = s.simulator.ApplyRegime(s.market, regime)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Applied %d %s step(s)\n\n", simulateSteps, regime)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Symbol\tStart\tLast step\tNow\tTotal%\t")
	for _, m := range last {
		total := 0.0
		if p := start[m.Symbol]; p != 0 {
			total = (m.New - p) / p * 100.0
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%+.2f%%\t%.2f\t%+.2f%%\t\n", m.Symbol, start[m.Symbol], m.ChangePercent(), m.New, total)
	}
	_ = tw.Flush()

	return s.save()
}
