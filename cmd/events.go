package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var eventsLimit int

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the most recent competitor events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		events, err := store.ListRecentEvents(ctx, eventsLimit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PUBLISHED\tSOURCE\tTITLE\tURL")
		for _, ev := range events {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ev.PublishedAt.UTC().Format("2006-01-02 15:04"), ev.Source, ev.Title, ev.URL)
		}
		return tw.Flush()
	},
}

func init() {
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 20, "number of events to show (max 100)")
	rootCmd.AddCommand(eventsCmd)
}
