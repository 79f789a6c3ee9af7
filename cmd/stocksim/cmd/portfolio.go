package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show cash, positions and unrealized P/L at current prices",
	Args:  cobra.NoArgs,
	RunE:  runPortfolio,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent transactions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of transactions to show")
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	prices := s.market.Prices()
	s.account.Revalue(prices)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account: %s\n", s.account.OwnerID())
	fmt.Fprintf(out, "Cash:    $%.2f\n\n", s.account.Cash())

	positions := s.account.Positions()
	if len(positions) == 0 {
		fmt.Fprintln(out, "No open positions.")
	} else {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Symbol\tQty\tAvg Cost\tPrice\tValue\tP/L\tP/L%\t")
		for _, p := range positions {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%+.2f\t%+.2f%%\t\n",
				p.Symbol, p.Quantity, p.AveragePrice, prices[p.Symbol],
				p.CurrentValue, p.ProfitLoss, p.ProfitLossPercent())
		}
		_ = tw.Flush()
	}

	fmt.Fprintf(out, "\nTotal value:    $%.2f\n", s.account.TotalValue(prices))
	fmt.Fprintf(out, "Unrealized P/L: $%+.2f\n", s.account.TotalProfitLoss())
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	txns := s.account.RecentTransactions(historyLimit)
	if len(txns) == 0 {
		fmt.Fprintln(out, "No transactions.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Time\tSide\tSymbol\tQty\tPrice\tTotal")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t%.2f\n",
			t.Time.Format("2006-01-02 15:04:05"), t.Side, t.Symbol, t.Quantity, t.Price, t.Total())
	}
	return tw.Flush()
}
