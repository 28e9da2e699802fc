package cmd

import (
	"cofounder-radar/internal/feed"

	"github.com/spf13/cobra"
)

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Print the resolved feed registry as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := feed.Registry(GetConfig().Refresh)
		if err != nil {
			return err
		}
		b, err := feed.MarshalSources(sources)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

func init() {
	rootCmd.AddCommand(feedsCmd)
}
