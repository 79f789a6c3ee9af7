package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/stocksim/journal"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an Org-mode summary of the account",
	Long: `Summarize cash, positions and return against the starting cash.

When the journal is SQLite the report also counts executed and cancelled
orders and lists the most recent ones.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var (
	reportOutput string
	reportRecent int
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to this .org file instead of stdout")
	reportCmd.Flags().IntVar(&reportRecent, "recent", 5, "number of recent orders to include")
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	prices := s.market.Prices()
	s.account.Revalue(prices)

	r := &journal.Report{
		Owner:           s.account.OwnerID(),
		Created:         time.Now(),
		StartingCash:    s.cfg.Account.StartingCash,
		Cash:            s.account.Cash(),
		TotalValue:      s.account.TotalValue(prices),
		TotalProfitLoss: s.account.TotalProfitLoss(),
		Transactions:    len(s.account.Transactions()),
		OrgPath:         reportOutput,
	}
	for _, p := range s.account.Positions() {
		r.Positions = append(r.Positions, journal.ReportPosition{
			Symbol:        p.Symbol,
			Quantity:      p.Quantity,
			AveragePrice:  p.AveragePrice,
			Price:         prices[p.Symbol],
			Value:         p.CurrentValue,
			ProfitLoss:    p.ProfitLoss,
			ProfitLossPct: p.ProfitLossPercent(),
		})
	}

	if db, ok := s.journal.(*journal.SQLite); ok {
		all, err := db.ListOrders(r.Owner, 0)
		if err != nil {
			return fmt.Errorf("query orders: %w", err)
		}
		r.CountOrders(all)
		r.Recent = all[:max(0, min(reportRecent, len(all)))]
	}

	if reportOutput == "" {
		return r.Render(cmd.OutOrStdout())
	}
	if err := r.WriteOrg(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", reportOutput)
	return nil
}
