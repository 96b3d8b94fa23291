// Package dbx holds the minimal database/sql abstraction shared by storage
// code.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the database tier.
// Both *sql.DB and *sql.Tx satisfy this interface, so tier code works
// unchanged inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
