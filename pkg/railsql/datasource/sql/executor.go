package sql

import (
	"context"
	"database/sql"
)

// Executor captures the query operations shared by DB and Tx. Code written
// against it runs unchanged inside or outside a transaction, which is what
// lets chain steps reuse the query, command and pagination helpers.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Select(ctx context.Context, data any, query string, args ...any) error
}

var (
	_ Executor = (*DB)(nil)
	_ Executor = (*Tx)(nil)
)
