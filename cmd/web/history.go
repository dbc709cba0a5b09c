package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"orderdesk.io/app/internal/config"
	"orderdesk.io/app/internal/modules/orders"
	"orderdesk.io/app/pkg/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history <order-id>",
	Short: "Print the recorded status changes of an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		store, closeStore, err := openStore(cmd.Context(), cfg, logger.Nop())
		if err != nil {
			return err
		}
		defer closeStore()

		hs, ok := store.(orders.HistoryStore)
		if !ok {
			return fmt.Errorf("store driver %s keeps no status history", cfg.Store.Driver)
		}
		events, err := hs.StatusHistory(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("status history: %w", err)
		}
		return printHistory(cmd, events)
	},
}

func printHistory(cmd *cobra.Command, events []orders.StatusEvent) error {
	if len(events) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no status changes recorded")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "AT\tFROM\tTO")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ev.At.Format(time.RFC3339), ev.From.Label(), ev.To.Label())
	}
	return w.Flush()
}
