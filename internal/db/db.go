// Package db provides PostgreSQL storage for applications and import history.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the tables the tracker needs if they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS applications (
			id TEXT PRIMARY KEY,
			company TEXT NOT NULL,
			position TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			job_type TEXT NOT NULL DEFAULT '',
			salary TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT '',
			applied_date TIMESTAMPTZ,
			response_date TIMESTAMPTZ,
			interview_date TIMESTAMPTZ,
			notes TEXT NOT NULL DEFAULT '',
			contact_person TEXT NOT NULL DEFAULT '',
			contact_email TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			job_url TEXT NOT NULL DEFAULT '',
			job_description TEXT NOT NULL DEFAULT '',
			company_website TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			requirements TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS import_runs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			filename TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'running',
			total_rows INT NOT NULL DEFAULT 0,
			successful_rows INT NOT NULL DEFAULT 0,
			skipped_rows INT NOT NULL DEFAULT 0,
			duplicates_found INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_company ON applications (company)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_status ON applications (status)`,
	}
	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
