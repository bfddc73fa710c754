// Package postgres persists analysis runs. Run metadata lives in columns,
// result tables and warnings as JSONB documents.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"goenrich/domain/core"
	"goenrich/domain/enrichment"
	"goenrich/domain/genes"
	"goenrich/ports"
)

const runSchema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id            TEXT PRIMARY KEY,
	fingerprint   TEXT NOT NULL,
	id_type       TEXT NOT NULL,
	options       JSONB NOT NULL,
	query_size    INT NOT NULL,
	universe_size INT NOT NULL,
	term_count    INT NOT NULL,
	tested_terms  INT NOT NULL,
	result_table  JSONB NOT NULL,
	warnings      JSONB,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_fingerprint ON analysis_runs (fingerprint);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs (created_at DESC);
`

// runRepository implements the ResultRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) ports.ResultRepository {
	return &runRepository{db: db}
}

// EnsureSchema creates the run tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, runSchema); err != nil {
		return fmt.Errorf("failed to ensure run schema: %w", err)
	}
	return nil
}

// SaveRun inserts a completed analysis run.
func (r *runRepository) SaveRun(ctx context.Context, run *enrichment.Run) error {
	optionsJSON, err := json.Marshal(run.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}
	tableJSON, err := json.Marshal(run.Outcome.Table)
	if err != nil {
		return fmt.Errorf("failed to marshal result table: %w", err)
	}
	warningsJSON, err := json.Marshal(run.Outcome.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	query := `INSERT INTO analysis_runs (
		id, fingerprint, id_type, options, query_size, universe_size,
		term_count, tested_terms, result_table, warnings, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, string(run.Fingerprint), string(run.IDType), optionsJSON,
		run.QuerySize, run.UniverseSize, run.TermCount, run.TestedTerms,
		tableJSON, warningsJSON, run.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by its ID.
func (r *runRepository) GetRun(ctx context.Context, id core.RunID) (*enrichment.Run, error) {
	query := `SELECT
		id, fingerprint, id_type, options, query_size, universe_size,
		term_count, tested_terms, result_table, COALESCE(warnings, 'null'::jsonb), created_at
	FROM analysis_runs WHERE id = $1`

	run, err := scanRun(r.db.QueryRowxContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves recent runs, newest first.
func (r *runRepository) ListRuns(ctx context.Context, filters ports.RunFilters) ([]enrichment.Run, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT
		id, fingerprint, id_type, options, query_size, universe_size,
		term_count, tested_terms, result_table, COALESCE(warnings, 'null'::jsonb), created_at
	FROM analysis_runs
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryxContext(ctx, query, limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []enrichment.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*enrichment.Run, error) {
	var run enrichment.Run
	var fingerprint, idType string
	var optionsJSON, tableJSON, warningsJSON []byte
	var createdAt sql.NullTime

	err := row.Scan(
		&run.ID, &fingerprint, &idType, &optionsJSON,
		&run.QuerySize, &run.UniverseSize, &run.TermCount, &run.TestedTerms,
		&tableJSON, &warningsJSON, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	run.Fingerprint = core.Fingerprint(fingerprint)
	run.IDType = genes.IdentifierType(idType)
	if createdAt.Valid {
		run.CreatedAt = core.NewTimestamp(createdAt.Time)
	}

	if err := json.Unmarshal(optionsJSON, &run.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	if err := json.Unmarshal(tableJSON, &run.Outcome.Table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result table: %w", err)
	}
	if len(warningsJSON) > 0 && string(warningsJSON) != "null" {
		if err := json.Unmarshal(warningsJSON, &run.Outcome.Warnings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
		}
	}
	run.Outcome.TestedTerms = run.TestedTerms
	return &run, nil
}
