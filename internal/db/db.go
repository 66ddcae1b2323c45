// Package db provides PostgreSQL storage for job-description analyses.
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

// EnsureSchema creates the analyses table if it does not exist yet.
// Deployments with managed migrations can skip this.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analyses (
			id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			job_url             TEXT,
			roles               JSONB NOT NULL DEFAULT '[]',
			skills_data         JSONB NOT NULL DEFAULT '{}',
			raw_response        TEXT NOT NULL DEFAULT '',
			selection_threshold DOUBLE PRECISION NOT NULL,
			rejection_threshold DOUBLE PRECISION NOT NULL,
			suggested_prompts   JSONB NOT NULL DEFAULT '[]',
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
