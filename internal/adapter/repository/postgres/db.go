package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=stockwise sslmode=disable"
func NewDB(ctx context.Context, connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// schema is applied on startup; every statement is idempotent
const schema = `
CREATE TABLE IF NOT EXISTS simulations (
	id                 UUID PRIMARY KEY,
	created_at         TIMESTAMPTZ NOT NULL,
	initial_principal  DOUBLE PRECISION NOT NULL,
	monthly_deposit    DOUBLE PRECISION NOT NULL,
	annual_yield_rate  DOUBLE PRECISION NOT NULL,
	annual_growth_rate DOUBLE PRECISION NOT NULL,
	years              INTEGER NOT NULL,
	result             JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS simulations_created_at_idx ON simulations (created_at DESC);

CREATE SEQUENCE IF NOT EXISTS blog_posts_seq;

CREATE TABLE IF NOT EXISTS blog_posts (
	link    TEXT PRIMARY KEY,
	date    TEXT NOT NULL,
	title   TEXT NOT NULL,
	summary TEXT NOT NULL,
	seq     BIGINT NOT NULL DEFAULT nextval('blog_posts_seq')
);
`

// EnsureSchema creates the tables used by the repositories if they are missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
