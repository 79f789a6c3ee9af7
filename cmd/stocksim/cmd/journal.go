package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rustyeddy/stocksim/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the SQLite trade journal",
	Long: `Query order outcomes and transactions recorded in the SQLite journal.

Subcommands:
  orders        - List recent orders, executed and cancelled
  order         - Show one order by ID
  transactions  - List recent transactions
  day           - List transactions on a specific day

Examples:
  stocksim journal orders -n 20
  stocksim journal order ORD-01J9Z3K4X5W6V7T8S9R0QPNMKH
  stocksim journal day 2024-01-15`,
}

var journalOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List recent orders as Org entries",
	Args:  cobra.NoArgs,
	RunE:  runJournalOrders,
}

var journalOrderCmd = &cobra.Command{
	Use:   "order <order-id>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalOrder,
}

var journalTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List recent transactions",
	Args:  cobra.NoArgs,
	RunE:  runJournalTransactions,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List transactions made on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalLimit int

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalOrdersCmd)
	journalCmd.AddCommand(journalOrderCmd)
	journalCmd.AddCommand(journalTransactionsCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().IntVarP(&journalLimit, "limit", "n", 10, "maximum records to show (0 for all)")
}

// openJournalDB opens the configured SQLite journal for queries.
func openJournalDB() (*journal.SQLite, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	if cfg.Journal.Type != "sqlite" {
		return nil, "", fmt.Errorf("journal queries need journal.type sqlite (configured %q)", cfg.Journal.Type)
	}
	j, err := journal.NewSQLite(cfg.JournalPath(cfg.Journal.DBPath))
	if err != nil {
		return nil, "", fmt.Errorf("open db: %w", err)
	}
	return j, cfg.Account.Owner, nil
}

func runJournalOrders(cmd *cobra.Command, args []string) error {
	j, owner, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListOrders(owner, journalLimit)
	if err != nil {
		return fmt.Errorf("query orders: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No orders.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), journal.FormatOrdersOrg(recs))
	return nil
}

func runJournalOrder(cmd *cobra.Command, args []string) error {
	j, _, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetOrder(args[0])
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), journal.FormatOrderOrg(rec))
	return nil
}

func runJournalTransactions(cmd *cobra.Command, args []string) error {
	j, owner, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTransactions(owner, journalLimit)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}
	return printTransactionRecords(cmd, recs)
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	j, owner, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListTransactionsBetween(owner, start, end)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}
	return printTransactionRecords(cmd, recs)
}

func printTransactionRecords(cmd *cobra.Command, recs []journal.TransactionRecord) error {
	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "No transactions.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Time\tSide\tSymbol\tQty\tPrice\tTotal")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t%.2f\n",
			r.Time.Local().Format("2006-01-02 15:04:05"), r.Side, r.Symbol, r.Quantity, r.Price, r.Total())
	}
	return tw.Flush()
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
