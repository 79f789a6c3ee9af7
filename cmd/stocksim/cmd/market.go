package cmd

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rustyeddy/stocksim/market"
	"github.com/spf13/cobra"
)

var marketCmd = &cobra.Command{
	Use:   "market [symbol]",
	Short: "Show market prices, or one instrument in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMarket,
}

var marketAddCmd = &cobra.Command{
	Use:     "add SYMBOL NAME PRICE",
	Short:   "List a new instrument, replacing any with the same symbol",
	Example: `  stocksim market add NVDA "NVIDIA Corp." 875.50`,
	Args:    cobra.ExactArgs(3),
	RunE:    runMarketAdd,
}

var marketRemoveCmd = &cobra.Command{
	Use:   "remove SYMBOL",
	Short: "Delist an instrument",
	Long: `Delist an instrument. Positions in it stay in the account but are
not priced until the symbol is listed again.`,
	Args: cobra.ExactArgs(1),
	RunE: runMarketRemove,
}

var marketHistory int

func init() {
	rootCmd.AddCommand(marketCmd)
	marketCmd.AddCommand(marketAddCmd)
	marketCmd.AddCommand(marketRemoveCmd)
	marketCmd.Flags().IntVar(&marketHistory, "history", 10, "price samples to show for a single instrument")
}

func runMarket(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		printMarket(out, s.market.Instruments())
		return nil
	}

	inst, err := s.market.Get(strings.ToUpper(args[0]))
	if err != nil {
		return err
	}
	printInstrument(out, inst, marketHistory)
	return nil
}

func runMarketAdd(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(strings.TrimSpace(args[0]))
	if symbol == "" || strings.ContainsAny(symbol, "|,; ") {
		return fmt.Errorf("invalid symbol %q", args[0])
	}
	name := strings.TrimSpace(args[1])
	if name == "" {
		name = symbol
	}
	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil || !(price > 0) || math.IsInf(price, 1) {
		return fmt.Errorf("price must be a positive number, got %q", args[2])
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	replaced := s.market.Exists(symbol)
	s.market.Add(market.NewInstrument(symbol, name, price))
	if err := s.save(); err != nil {
		return err
	}

	if replaced {
		fmt.Fprintf(cmd.OutOrStdout(), "Replaced %s (%s) at $%.2f\n", symbol, name, price)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) at $%.2f\n", symbol, name, price)
	}
	return nil
}

func runMarketRemove(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(strings.TrimSpace(args[0]))

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if !s.market.Remove(symbol) {
		return fmt.Errorf("remove %s: %w", symbol, market.ErrNotFound)
	}
	if err := s.save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", symbol)
	if pos, ok := s.account.Position(symbol); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Still holding %d %s; it is unpriced until relisted.\n", pos.Quantity, symbol)
	}
	return nil
}

func printMarket(out io.Writer, instruments []*market.Instrument) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Symbol\tName\tPrice\tChange\tChange%\tMA5\tMA20\t")
	for _, inst := range instruments {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%+.2f\t%+.2f%%\t%.2f\t%.2f\t\n",
			inst.Symbol(), inst.Name(), inst.Price(),
			inst.PriceChange(), inst.PriceChangePercent(),
			inst.MovingAverage(5), inst.MovingAverage(20))
	}
	_ = tw.Flush()
}

func printInstrument(out io.Writer, inst *market.Instrument, n int) {
	fmt.Fprintf(out, "%s  %s\n", inst.Symbol(), inst.Name())
	fmt.Fprintf(out, "  Price:        $%.2f (%+.2f, %+.2f%%)\n", inst.Price(), inst.PriceChange(), inst.PriceChangePercent())
	fmt.Fprintf(out, "  MA5 / MA20:   %.2f / %.2f\n", inst.MovingAverage(5), inst.MovingAverage(20))
	fmt.Fprintf(out, "  Samples:      %d\n", inst.HistoryLen())
	fmt.Fprintf(out, "  Last update:  %s\n", inst.LastUpdate().Format("2006-01-02 15:04:05"))

	history := inst.History()
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	parts := make([]string, len(history))
	for i, h := range history {
		parts[i] = fmt.Sprintf("%.2f", h)
	}
	fmt.Fprintf(out, "  Recent:       %s\n", strings.Join(parts, " "))
}
