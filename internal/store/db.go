package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql methods the user and task stores need.
// Both *sql.DB and *sql.Tx satisfy it, so a store constructed over the pool
// and one rebound via WithTx run the same queries; the service layer decides
// which by wrapping mutations in RunInTransaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
