package cmd

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/rustyeddy/stocksim/strategies"
	"github.com/spf13/cobra"
)

var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "List or run the built-in trading strategies",
	Long: `Strategies read the market and your positions and propose orders.

Examples:
  stocksim strategy list
  stocksim strategy run 2
  stocksim strategy run "mean reversion" --execute`,
}

var strategyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List strategies with their index",
	Args:  cobra.NoArgs,
	RunE:  runStrategyList,
}

var strategyRunCmd = &cobra.Command{
	Use:   "run INDEX|NAME",
	Short: "Generate signals from one strategy",
	Args:  cobra.ExactArgs(1),
	RunE:  runStrategyRun,
}

var strategyExecute bool

func init() {
	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategyListCmd)
	strategyCmd.AddCommand(strategyRunCmd)
	strategyRunCmd.Flags().BoolVarP(&strategyExecute, "execute", "x", false, "execute the proposed orders")
}

func runStrategyList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tName\tDescription")
	for i, st := range s.strategies.Strategies() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, st.Name(), st.Description())
	}
	return tw.Flush()
}

// strategyIndex accepts a 1-based menu number or a strategy name.
func strategyIndex(e *strategies.Engine, arg string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		return n - 1, nil
	}
	return e.Lookup(arg)
}

func runStrategyRun(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	idx, err := strategyIndex(s.strategies, args[0])
	if err != nil {
		return err
	}
	orders, err := s.strategies.Run(idx, s.market.Instruments(), s.account)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st, _ := s.strategies.Get(idx)
	if len(orders) == 0 {
		fmt.Fprintf(out, "%s: no signals.\n", st.Name())
		return nil
	}

	fmt.Fprintf(out, "%s proposed %d order(s):\n", st.Name(), len(orders))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Side\tSymbol\tQty\tPrice\tTotal")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\n", o.Side(), o.Symbol(), o.Quantity(), o.Price(), o.Total())
	}
	_ = tw.Flush()

	if !strategyExecute {
		fmt.Fprintln(out, "\nRe-run with --execute to place them.")
		return nil
	}

	fmt.Fprintln(out)
	errs := s.engine.ExecuteAll(context.Background(), orders, s.account)
	executed := 0
	for i, o := range orders {
		printOrder(out, o)
		if errs[i] == nil {
			executed++
		}
	}
	fmt.Fprintf(out, "\n%d of %d executed. Cash balance: $%.2f\n", executed, len(orders), s.account.Cash())

	return s.save()
}
