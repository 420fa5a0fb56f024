package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/shopsim/internal/config"
	"github.com/Lumos-Labs-HQ/shopsim/internal/logx"
	"github.com/Lumos-Labs-HQ/shopsim/internal/report"
	"github.com/Lumos-Labs-HQ/shopsim/internal/store"
)

var (
	reportJSONPath string
	reportMDPath   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run integrity checks and write the data quality report",
	Long: `
Compute table row counts, integrity checks, top products, high-value
customers, payment anomalies and signup cohorts over the loaded store,
then write both the JSON and Markdown renderings.

Examples:
  shopsim report
  shopsim report --json out/report.json --md out/report.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		jsonPath := cfg.ReportJSON
		if cmd.Flags().Changed("json") {
			jsonPath = reportJSONPath
		}
		mdPath := cfg.ReportMD
		if cmd.Flags().Changed("md") {
			mdPath = reportMDPath
		}

		st, err := store.OpenExisting(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		log := logx.New()
		ctx := context.Background()

		rep, err := report.NewEngine(st, log).Build(ctx)
		if err != nil {
			return err
		}

		if err := rep.WriteJSON(jsonPath); err != nil {
			return err
		}
		if err := rep.WriteMarkdown(mdPath); err != nil {
			return err
		}

		for _, v := range rep.Validations {
			switch v.Status {
			case "pass":
				color.Green("  ✅ %s", v.Check)
			case "warn":
				color.Yellow("  ⚠️  %s (%d)", v.Check, v.Details)
			default:
				color.Red("  ❌ %s (%d)", v.Check, v.Details)
			}
		}
		fmt.Println()
		color.Green("✅ Report saved to %s and %s", mdPath, jsonPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportJSONPath, "json", "report.json", "Report JSON output path")
	reportCmd.Flags().StringVar(&reportMDPath, "md", "report.md", "Report Markdown output path")
}
