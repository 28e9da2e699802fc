package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var alertsLimit int

// alertsCmd groups alert subcommands.
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Dashboard alert utilities",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alerts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		alerts, err := store.ListAlerts(ctx, alertsLimit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tTYPE\tREAD\tMESSAGE")
		for _, a := range alerts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", a.ID, a.CreatedAt.UTC().Format("2006-01-02 15:04"), a.Type, a.Read, a.Message)
		}
		return tw.Flush()
	},
}

var alertsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark an alert as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.MarkAlertRead(ctx, args[0]); err != nil {
			return fmt.Errorf("mark alert %s read: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	alertsListCmd.Flags().IntVar(&alertsLimit, "limit", 20, "number of alerts to show (max 100)")
	alertsCmd.AddCommand(alertsListCmd, alertsReadCmd)
	rootCmd.AddCommand(alertsCmd)
}
