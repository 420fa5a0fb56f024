package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/shopsim/internal/config"
	"github.com/Lumos-Labs-HQ/shopsim/internal/loader"
	"github.com/Lumos-Labs-HQ/shopsim/internal/logx"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Reset the store and load the CSV datasets",
	Long: `
Destroy and recreate the SQLite store from the fixed schema, then load the
five CSV datasets inside a single transaction with foreign keys enforced.
Any insertion failure rolls the whole load back. A provenance row is
recorded in the same transaction.

Examples:
  shopsim load`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}

		log := logx.New()
		ctx := context.Background()

		color.Cyan("📦 Loading datasets from %s into %s", cfg.DataDir, cfg.DatabasePath)

		summary, err := loader.New(log).Run(ctx, cfg.DataDir, cfg.DatabasePath)
		if err != nil {
			return err
		}

		total := 0
		for _, count := range summary.RowCounts {
			total += count
		}
		color.Green("✅ Load completed: %d rows across %d tables", total, len(summary.RowCounts))
		color.White("   load id: %s", summary.LoadID)
		color.White("   dataset sha1: %s", summary.DatasetSHA1)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
