package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/shopsim/internal/config"
	"github.com/Lumos-Labs-HQ/shopsim/internal/logx"
	"github.com/Lumos-Labs-HQ/shopsim/internal/query"
	"github.com/Lumos-Labs-HQ/shopsim/internal/store"
)

var queryCmd = &cobra.Command{
	Use:   "query <name|file.sql>",
	Short: "Run a read-only analytical query against the loaded store",
	Long: `
Execute a query definition from the queries file, or a raw .sql file, and
write the result rows as CSV and JSON. The result columns come from the
query's own shape. Only read-only statements are accepted.

Examples:
  shopsim query cohort_clv
  shopsim query queries/join_query.sql`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		var def query.Definition
		if strings.HasSuffix(args[0], ".sql") {
			def, err = query.FromSQLFile(args[0])
		} else {
			def, err = query.Find(cfg.QueriesPath, args[0])
		}
		if err != nil {
			return err
		}

		st, err := store.OpenExisting(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		log := logx.New()
		ctx := context.Background()

		color.Cyan("⚡ Executing query: %s", def.Name)
		outcome, err := query.NewRunner(st, log).Run(ctx, def, cfg.ResultDir)
		if err != nil {
			return err
		}

		color.Green("✅ Query executed successfully")
		color.White("   %d row(s) returned", outcome.RowCount)
		color.White("   outputs: %s, %s", outcome.CSVPath, outcome.JSONPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
