package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Store is the remote data store holding the projects table.
type Store interface {
	// SelectAll returns every row, most recently created first.
	SelectAll(ctx context.Context) ([]Row, error)
	// Insert stores a row and returns the identifier the store assigned.
	Insert(ctx context.Context, row Row) (string, error)
	// Update writes the given columns on the row matched by id and reports
	// how many rows were affected.
	Update(ctx context.Context, id string, set []Assignment) (int64, error)
	// Delete removes the row matched by id and reports how many rows were affected.
	Delete(ctx context.Context, id string) (int64, error)
}

const projectColumns = `id, name, location, area, progress, description, current_status, notes, image_url, pdf_url, created_at, updated_at, user_id`

var updatableColumns = map[string]bool{
	"name":           true,
	"location":       true,
	"area":           true,
	"progress":       true,
	"description":    true,
	"current_status": true,
	"notes":          true,
	"image_url":      true,
	"pdf_url":        true,
}

// PostgresStore is the Store backed by the projects table in PostgreSQL.
type PostgresStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgresStore creates a store over db. A zero timeout leaves each call
// bounded only by the caller's context.
func NewPostgresStore(db *sql.DB, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

func (s *PostgresStore) SelectAll(ctx context.Context) ([]Row, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	q := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, describe(err)
	}
	defer rows.Close()

	out := make([]Row, 0, 16)
	for rows.Next() {
		var r Row
		if err := rows.Scan(
			&r.ID, &r.Name, &r.Location, &r.Area, &r.Progress, &r.Description,
			&r.CurrentStatus, &r.Notes, &r.ImageURL, &r.PDFURL,
			&r.CreatedAt, &r.UpdatedAt, &r.UserID,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, describe(err)
	}
	return out, nil
}

func (s *PostgresStore) Insert(ctx context.Context, row Row) (string, error) {
	if row.UserID == "" {
		return "", fmt.Errorf("user id required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	const q = `
INSERT INTO projects (name, location, area, progress, description, current_status, notes, image_url, pdf_url, user_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id;
`
	var id string
	err := s.db.QueryRowContext(ctx, q,
		row.Name, row.Location, row.Area, row.Progress, row.Description,
		row.CurrentStatus, row.Notes, row.ImageURL, row.PDFURL, row.UserID,
	).Scan(&id)
	if err != nil {
		return "", describe(err)
	}
	return id, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, set []Assignment) (int64, error) {
	if len(set) == 0 {
		return 0, fmt.Errorf("no columns to update")
	}

	clauses := make([]string, 0, len(set)+1)
	args := make([]any, 0, len(set)+1)
	args = append(args, id)
	for _, a := range set {
		if !updatableColumns[a.Column] {
			return 0, fmt.Errorf("column %q is not updatable", a.Column)
		}
		args = append(args, a.Value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", a.Column, len(args)))
	}
	clauses = append(clauses, "updated_at = now()")

	q := `UPDATE projects SET ` + strings.Join(clauses, ", ") + ` WHERE id = $1`

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, describe(err)
	}
	return result.RowsAffected()
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return 0, describe(err)
	}
	return result.RowsAffected()
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// describe keeps the Postgres error code in the message so logs show which
// constraint rejected a write.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("postgres %s (%s): %w", pqErr.Code, pqErr.Code.Name(), err)
	}
	return err
}
