package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Directory resolves identity records.
type Directory interface {
	Email(ctx context.Context, userID string) (string, error)
}

type DirectoryFunc func(ctx context.Context, userID string) (string, error)

func (f DirectoryFunc) Email(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const emailQuery = `SELECT COALESCE(email, '') FROM users WHERE id = $1 AND NOT disabled`

// PostgresDirectory reads users from the users table.
type PostgresDirectory struct {
	db Querier
}

func NewPostgresDirectory(db Querier) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) Email(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}

	var email string
	if err := d.db.QueryRow(ctx, emailQuery, userID).Scan(&email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrDirectory, err)
	}
	return email, nil
}
