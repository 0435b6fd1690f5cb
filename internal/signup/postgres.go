package signup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresStore persists signups in the early_access table.
type PostgresStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewPostgresStore wraps an open sqlx handle.
func NewPostgresStore(db *sqlx.DB, timeout time.Duration) *PostgresStore {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &PostgresStore{db: db, timeout: timeout}
}

// Schema creates the early_access table if needed.
const Schema = `
CREATE TABLE IF NOT EXISTS early_access (
	id         BIGSERIAL PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	source     TEXT NOT NULL DEFAULT '',
	ip         TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migrate applies the schema.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate early_access: %w", err)
	}
	return nil
}

// Save inserts the signup; a duplicate email is not an error, it just
// reports created=false.
func (p *PostgresStore) Save(ctx context.Context, s Signup) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		INSERT INTO early_access (email, source, ip)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := p.db.QueryRowxContext(ctx, query,
		strings.ToLower(s.Email), s.Source, s.IP).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return false, nil
		}
		return false, fmt.Errorf("insert signup: %w", err)
	}
	return true, nil
}

// Count returns the number of stored signups.
func (p *PostgresStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var n int
	if err := p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM early_access`); err != nil {
		return 0, fmt.Errorf("count signups: %w", err)
	}
	return n, nil
}
