package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cofounder-radar/internal/digest"

	"github.com/spf13/cobra"
)

var (
	digestLimit int
	digestOut   string
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Render a Markdown market digest from recent events",
	Long:  "Renders recent competitor events as Markdown. Uses OpenAI for the summary when openai.api_key is set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx := context.Background()
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		briefer, err := newBriefer(cfg.OpenAI)
		if err != nil {
			return err
		}
		limit := digestLimit
		if limit <= 0 {
			limit = cfg.Digest.TopN
		}
		events, err := store.ListRecentEvents(ctx, limit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return fmt.Errorf("no events stored yet, run refresh first")
		}
		d := digest.Compose(ctx, events, briefer, digest.Options{
			Title:      cfg.Digest.Title,
			Language:   cfg.OpenAI.Language,
			TopN:       limit,
			Preface:    cfg.Digest.Preface,
			Postscript: cfg.Digest.Postscript,
			Now:        time.Now(),
		})
		md, err := digest.Render(d)
		if err != nil {
			return err
		}
		if digestOut == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		}
		if err := os.MkdirAll(filepath.Dir(digestOut), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(digestOut, []byte(md), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", digestOut)
		return nil
	},
}

func init() {
	digestCmd.Flags().IntVar(&digestLimit, "limit", 0, "number of events to include (default digest.top_n)")
	digestCmd.Flags().StringVar(&digestOut, "out", "", "write to this file instead of stdout")
	rootCmd.AddCommand(digestCmd)
}
