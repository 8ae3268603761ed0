// Package postgres implements store.StateStore on PostgreSQL through
// database/sql and the pgx driver, and owns the schema migrations for it.
package postgres
