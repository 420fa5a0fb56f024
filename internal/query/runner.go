package query

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/Lumos-Labs-HQ/shopsim/internal/store"
)

// Outcome names the files one query run produced.
type Outcome struct {
	CSVPath  string
	JSONPath string
	RowCount int
}

// Runner executes read-only definitions against a loaded store and writes
// the result rows as both a flat CSV and a structured JSON file. The
// column set comes from the query's own result shape.
type Runner struct {
	store *store.Store
	log   *logrus.Logger
}

func NewRunner(st *store.Store, log *logrus.Logger) *Runner {
	return &Runner{store: st, log: log}
}

func (r *Runner) Run(ctx context.Context, def Definition, outDir string) (*Outcome, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	result, err := r.store.ExecuteQuery(ctx, def.SQL)
	if err != nil {
		// Malformed queries surface to the caller verbatim.
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create result directory: %w", err)
	}

	csvPath := filepath.Join(outDir, def.Name+"_result.csv")
	if err := writeResultCSV(csvPath, result); err != nil {
		return nil, err
	}

	jsonPath := filepath.Join(outDir, def.Name+"_result.json")
	if err := writeResultJSON(jsonPath, result); err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"query": def.Name,
		"rows":  len(result.Rows),
	}).Info("query complete")

	return &Outcome{
		CSVPath:  csvPath,
		JSONPath: jsonPath,
		RowCount: len(result.Rows),
	}, nil
}

func writeResultCSV(path string, result *store.QueryResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create result CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(result.Columns); err != nil {
		return fmt.Errorf("failed to write result header: %w", err)
	}
	for _, row := range result.Rows {
		record := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			record[i] = formatValue(row[col])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write result row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeResultJSON(path string, result *store.QueryResult) error {
	rows := result.Rows
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result rows: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result JSON: %w", err)
	}
	return nil
}

func formatValue(val interface{}) string {
	if val == nil {
		return ""
	}
	return fmt.Sprintf("%v", val)
}
