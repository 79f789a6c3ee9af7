package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustyeddy/stocksim/broker"
	"github.com/rustyeddy/stocksim/market"
	"github.com/spf13/cobra"
)

var buyCmd = &cobra.Command{
	Use:   "buy SYMBOL QTY",
	Short: "Buy shares at the current market price",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrade(cmd, market.Buy, args)
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell SYMBOL QTY",
	Short: "Sell shares at the current market price",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrade(cmd, market.Sell, args)
	},
}

func init() {
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(sellCmd)
}

func runTrade(cmd *cobra.Command, side market.Side, args []string) error {
	symbol := strings.ToUpper(args[0])
	qty, err := strconv.Atoi(args[1])
	if err != nil || qty <= 0 {
		return fmt.Errorf("quantity must be a positive integer, got %q", args[1])
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	// the proposal price is informational; execution re-reads the ledger
	quote := 0.0
	if inst, err := s.market.Get(symbol); err == nil {
		quote = inst.Price()
	}

	o := broker.NewOrder(side, symbol, qty, quote)
	execErr := s.engine.Execute(context.Background(), o, s.account)
	printOrder(cmd.OutOrStdout(), o)
	if execErr == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Cash balance: $%.2f\n", s.account.Cash())
	}

	if err := s.save(); err != nil {
		return err
	}
	return execErr
}

func printOrder(out io.Writer, o *broker.Order) {
	if o.Status() == broker.Cancelled {
		fmt.Fprintf(out, "%-9s %s %d %s: %s (%s)\n", o.Status(), o.Side(), o.Quantity(), o.Symbol(), o.Reason(), o.ID())
		return
	}
	fmt.Fprintf(out, "%-9s %s %d %s (%s)\n", o.Status(), o.Side(), o.Quantity(), o.Symbol(), o.ID())
}
