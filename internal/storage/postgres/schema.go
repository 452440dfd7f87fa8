package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements create the projects table and keep updated_at current.
// Every statement is idempotent.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS projects (
		id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		name           text NOT NULL CHECK (btrim(name) <> ''),
		location       text NOT NULL CHECK (btrim(location) <> ''),
		area           double precision NOT NULL CHECK (area > 0),
		progress       double precision NOT NULL CHECK (progress >= 0 AND progress <= 100),
		description    text NOT NULL CHECK (btrim(description) <> ''),
		current_status text,
		notes          text,
		image_url      text,
		pdf_url        text,
		created_at     timestamptz NOT NULL DEFAULT now(),
		updated_at     timestamptz NOT NULL DEFAULT now(),
		user_id        text NOT NULL,
		CHECK (created_at <= updated_at)
	)`,
	`CREATE INDEX IF NOT EXISTS projects_created_at_idx ON projects (created_at DESC)`,
	`CREATE OR REPLACE FUNCTION projects_touch_updated_at() RETURNS trigger AS $$
	BEGIN
		NEW.updated_at := greatest(now(), NEW.created_at);
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS projects_touch_updated_at ON projects`,
	`CREATE TRIGGER projects_touch_updated_at
		BEFORE UPDATE ON projects
		FOR EACH ROW EXECUTE FUNCTION projects_touch_updated_at()`,
}

// EnsureSchema applies the projects schema inside one transaction.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
