package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/followup/internal/domain"
)

// LookupEmail resolves a person's name: a case-insensitive exact match first,
// then the shortest name containing it.
func (s *Store) LookupEmail(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("lookup email: empty name: %w", domain.ErrNotFound)
	}

	var email string
	err := s.pool.QueryRow(ctx, `SELECT email FROM directory WHERE lower(name) = lower($1)`, name).Scan(&email)
	if err == nil {
		return email, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("lookup email %s: %w", name, err)
	}

	err = s.pool.QueryRow(ctx,
		`SELECT email FROM directory WHERE name ILIKE '%' || $1 || '%' ORDER BY length(name), name LIMIT 1`,
		likeEscape(name)).Scan(&email)
	if err != nil {
		return "", notFoundWrap(err, "lookup email %s", name)
	}
	return email, nil
}

// UpsertContact adds or updates a directory entry.
func (s *Store) UpsertContact(ctx context.Context, name, email string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO directory (name, email) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET email = EXCLUDED.email, updated_at = now()`, name, email)
	if err != nil {
		return fmt.Errorf("upsert contact %s: %w", name, err)
	}
	return nil
}
