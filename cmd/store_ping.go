package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// pingCmd pings the configured storage backend.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping the configured store and print PONG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Ping(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PONG (%s)\n", cfg.Store.Backend)
		return nil
	},
}

func init() {
	storeCmd.AddCommand(pingCmd)
}
