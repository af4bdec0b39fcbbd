package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// ImportRun records one import of a CSV file
type ImportRun struct {
	ID              uuid.UUID  `json:"id"`
	Filename        string     `json:"filename"`
	Status          string     `json:"status"`
	TotalRows       int        `json:"total_rows"`
	SuccessfulRows  int        `json:"successful_rows"`
	SkippedRows     int        `json:"skipped_rows"`
	DuplicatesFound int        `json:"duplicates_found"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// CreateImportRun creates a new import run record and returns its ID
func (db *DB) CreateImportRun(ctx context.Context, filename string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO import_runs (filename, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		filename,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create import run: %w", err)
	}
	return id, nil
}

// CompleteImportRun marks an import run as finished and stores its counts
func (db *DB) CompleteImportRun(ctx context.Context, runID uuid.UUID, status string, summary types.ImportSummary) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE import_runs
		 SET status = $1, total_rows = $2, successful_rows = $3, skipped_rows = $4,
		     duplicates_found = $5, completed_at = NOW()
		 WHERE id = $6`,
		status, summary.TotalRows, summary.SuccessfulRows, summary.SkippedRows,
		summary.DuplicatesFound, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete import run: %w", err)
	}
	return nil
}

// GetImportRun retrieves an import run by ID, or nil when not found
func (db *DB) GetImportRun(ctx context.Context, runID uuid.UUID) (*ImportRun, error) {
	var run ImportRun
	err := db.pool.QueryRow(ctx,
		`SELECT id, filename, status, total_rows, successful_rows, skipped_rows, duplicates_found, created_at, completed_at
		 FROM import_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Filename, &run.Status, &run.TotalRows, &run.SuccessfulRows,
		&run.SkippedRows, &run.DuplicatesFound, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get import run: %w", err)
	}
	return &run, nil
}

// ListImportRuns retrieves recent import runs, newest first
func (db *DB) ListImportRuns(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, filename, status, total_rows, successful_rows, skipped_rows, duplicates_found, created_at, completed_at
		 FROM import_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var run ImportRun
		if err := rows.Scan(&run.ID, &run.Filename, &run.Status, &run.TotalRows, &run.SuccessfulRows,
			&run.SkippedRows, &run.DuplicatesFound, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
