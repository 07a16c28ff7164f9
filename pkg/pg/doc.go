// Package pg connects to PostgreSQL through a pgx pool and applies goose
// migrations. The identity directory (user ID to email) lives there.
package pg
