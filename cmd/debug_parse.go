package cmd

import (
	"fmt"
	"os"
	"time"

	"cofounder-radar/internal/feed"

	"github.com/spf13/cobra"
)

var debugParser string

var debugParseCmd = &cobra.Command{
	Use:   "debug-parse <feed_path>",
	Short: "Debug: parse a saved RSS/Atom file and print the normalized items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		name := debugParser
		if name == "" {
			name = GetConfig().Refresh.Parser
		}
		p, err := feed.NewParser(name)
		if err != nil {
			return err
		}
		items, err := p.Parse(string(b), GetConfig().Refresh.MaxItems)
		if err != nil {
			return err
		}
		src := feed.Source{Name: "debug", URL: args[0]}
		now := time.Now()
		out := cmd.OutOrStdout()
		for i, it := range items {
			c := feed.Normalize(src, it, now)
			fmt.Fprintf(out, "%2d. %s\n    url: %s\n    published: %s (raw %q)\n", i+1, c.Title, c.URL, c.PublishedAt.Format(time.RFC3339), it.PublishedRaw)
			if c.Summary != "" {
				fmt.Fprintf(out, "    summary: %s\n", c.Summary)
			}
		}
		fmt.Fprintf(out, "items: %d (parser %s)\n", len(items), name)
		return nil
	},
}

func init() {
	debugParseCmd.Flags().StringVar(&debugParser, "parser", "", "pattern or gofeed (default refresh.parser)")
	rootCmd.AddCommand(debugParseCmd)
}
