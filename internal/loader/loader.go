package loader

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Lumos-Labs-HQ/shopsim/internal/gen"
	"github.com/Lumos-Labs-HQ/shopsim/internal/store"
)

const toolName = "shopsim"

// Summary describes one completed load run.
type Summary struct {
	LoadID      string
	RowCounts   map[string]int
	DatasetSHA1 string
}

// Loader performs the destructive reset-then-load of the CSV datasets into
// the SQLite store. The load itself is a single all-or-nothing transaction;
// the provenance row is part of it.
type Loader struct {
	log *logrus.Logger
}

func New(log *logrus.Logger) *Loader {
	return &Loader{log: log}
}

func tableFor(file string) string {
	return strings.TrimSuffix(file, ".csv")
}

// Run loads the datasets in dataDir into a fresh store at dbPath. Missing
// datasets are a precondition error and abort before the reset.
func (l *Loader) Run(ctx context.Context, dataDir, dbPath string) (*Summary, error) {
	datasets := make(map[string][][]string, len(gen.DataFiles))
	rowCounts := make(map[string]int, len(gen.DataFiles))
	for _, file := range gen.DataFiles {
		rows, err := gen.ReadDataset(dataDir, file)
		if err != nil {
			return nil, err
		}
		datasets[file] = rows
		rowCounts[file] = len(rows)
	}

	datasetHash, err := gen.HashDatasets(dataDir)
	if err != nil {
		return nil, err
	}

	l.log.WithField("db", dbPath).Info("resetting database")
	if err := store.Reset(dbPath); err != nil {
		return nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if err := st.ApplySchema(ctx); err != nil {
		return nil, err
	}
	l.log.Info("database schema applied")

	tx, err := st.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, file := range gen.DataFiles {
		if err := insertDataset(ctx, tx, st, tableFor(file), gen.Columns[file], datasets[file]); err != nil {
			l.log.WithError(err).Error("load failed; rolling back transaction")
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	loadID := uuid.NewString()
	if err := insertProvenance(ctx, tx, st, loadID, rowCounts, datasetHash); err != nil {
		l.log.WithError(err).Error("load failed; rolling back transaction")
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit load transaction: %w", err)
	}

	l.log.WithField("load_id", loadID).Info("load completed")
	return &Summary{
		LoadID:      loadID,
		RowCounts:   rowCounts,
		DatasetSHA1: datasetHash,
	}, nil
}

func insertDataset(ctx context.Context, tx *sql.Tx, st *store.Store, table string, columns []string, rows [][]string) error {
	placeholder := make([]interface{}, len(columns))
	query, _, err := st.Builder().
		Insert(table).
		Columns(columns...).
		Values(placeholder...).
		ToSql()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("table %s: row has %d fields, expected %d", table, len(row), len(columns))
		}
		args := make([]interface{}, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("table %s: %w", table, err)
		}
	}
	return nil
}

func insertProvenance(ctx context.Context, tx *sql.Tx, st *store.Store, loadID string, rowCounts map[string]int, datasetHash string) error {
	// encoding/json sorts map keys, so the stored counts are stable.
	countsJSON, err := json.Marshal(rowCounts)
	if err != nil {
		return fmt.Errorf("failed to encode row counts: %w", err)
	}

	query, args, err := st.Builder().
		Insert("submission_meta").
		Columns("load_id", "loaded_at", "row_counts_json", "dataset_sha1", "tool_used").
		Values(
			loadID,
			time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
			string(countsJSON),
			datasetHash,
			toolName,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record provenance: %w", err)
	}
	return nil
}
