// Package sql wraps database/sql with query logging, metrics recording and
// failure-aware helpers for queries, commands and pagination. The DB and Tx
// wrappers share the Executor surface, so every helper runs the same inside
// or outside a transaction.
package sql

import (
	"context"
	"database/sql"
	"time"

	"github.com/sllt/railsql/pkg/railsql/datasource"
)

// DB wraps a sql.DB connection pool and instruments every operation.
type DB struct {
	*sql.DB
	config  *DBConfig
	logger  datasource.Logger
	metrics Metrics
}

// NewDB wraps an existing connection pool. Open is the usual entry point;
// NewDB exists for pools constructed elsewhere, tests included. logger and
// metrics may be nil.
func NewDB(db *sql.DB, cfg *DBConfig, logger datasource.Logger, metrics Metrics) *DB {
	return &DB{DB: db, config: cfg, logger: logger, metrics: metrics}
}

// Dialect returns the configured dialect name.
func (d *DB) Dialect() string {
	return d.config.Dialect
}

func (d *DB) Query(query string, args ...any) (*sql.Rows, error) {
	defer d.sendOperationStats(time.Now(), "Query", query, args...)
	return d.DB.QueryContext(context.Background(), query, args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	defer d.sendOperationStats(time.Now(), "QueryContext", query, args...)
	return d.DB.QueryContext(ctx, query, args...)
}

func (d *DB) QueryRow(query string, args ...any) *sql.Row {
	defer d.sendOperationStats(time.Now(), "QueryRow", query, args...)
	return d.DB.QueryRowContext(context.Background(), query, args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	defer d.sendOperationStats(time.Now(), "QueryRowContext", query, args...)
	return d.DB.QueryRowContext(ctx, query, args...)
}

func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	defer d.sendOperationStats(time.Now(), "Exec", query, args...)
	return d.DB.ExecContext(context.Background(), query, args...)
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	defer d.sendOperationStats(time.Now(), "ExecContext", query, args...)
	return d.DB.ExecContext(ctx, query, args...)
}

func (d *DB) Prepare(query string) (*sql.Stmt, error) {
	defer d.sendOperationStats(time.Now(), "Prepare", query)
	return d.DB.PrepareContext(context.Background(), query)
}

// Begin starts a transaction with default options.
func (d *DB) Begin() (*Tx, error) {
	return d.BeginTx(context.Background(), nil)
}

// BeginTx starts a transaction bound to ctx. Cancelling ctx rolls the
// transaction back.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	defer d.sendOperationStats(time.Now(), "BeginTx", "BEGIN")

	tx, err := d.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &Tx{Tx: tx, config: d.config, logger: d.logger, metrics: d.metrics}, nil
}

// BindNamed expands {{name}} placeholders using the connection's dialect.
func (d *DB) BindNamed(query string, data map[string]any) (string, []any, error) {
	dialect, err := NormalizeDialect(d.config.Dialect)
	if err != nil {
		return "", nil, err
	}

	return BindNamed(dialect, query, data)
}

func (d *DB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}

	return nil
}

// Tx wraps a sql.Tx with the same instrumentation as DB.
type Tx struct {
	*sql.Tx
	config  *DBConfig
	logger  datasource.Logger
	metrics Metrics
}

// Dialect returns the configured dialect name.
func (t *Tx) Dialect() string {
	return t.config.Dialect
}

func (t *Tx) Query(query string, args ...any) (*sql.Rows, error) {
	defer t.sendOperationStats(time.Now(), "TxQuery", query, args...)
	return t.Tx.QueryContext(context.Background(), query, args...)
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	defer t.sendOperationStats(time.Now(), "TxQueryContext", query, args...)
	return t.Tx.QueryContext(ctx, query, args...)
}

func (t *Tx) QueryRow(query string, args ...any) *sql.Row {
	defer t.sendOperationStats(time.Now(), "TxQueryRow", query, args...)
	return t.Tx.QueryRowContext(context.Background(), query, args...)
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	defer t.sendOperationStats(time.Now(), "TxQueryRowContext", query, args...)
	return t.Tx.QueryRowContext(ctx, query, args...)
}

func (t *Tx) Exec(query string, args ...any) (sql.Result, error) {
	defer t.sendOperationStats(time.Now(), "TxExec", query, args...)
	return t.Tx.ExecContext(context.Background(), query, args...)
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	defer t.sendOperationStats(time.Now(), "TxExecContext", query, args...)
	return t.Tx.ExecContext(ctx, query, args...)
}

func (t *Tx) Prepare(query string) (*sql.Stmt, error) {
	defer t.sendOperationStats(time.Now(), "TxPrepare", query)
	return t.Tx.PrepareContext(context.Background(), query)
}

// BindNamed expands {{name}} placeholders using the transaction's dialect.
func (t *Tx) BindNamed(query string, data map[string]any) (string, []any, error) {
	dialect, err := NormalizeDialect(t.config.Dialect)
	if err != nil {
		return "", nil, err
	}

	return BindNamed(dialect, query, data)
}

func (t *Tx) Commit() error {
	defer t.sendOperationStats(time.Now(), "TxCommit", "COMMIT")
	return t.Tx.Commit()
}

func (t *Tx) Rollback() error {
	defer t.sendOperationStats(time.Now(), "TxRollback", "ROLLBACK")
	return t.Tx.Rollback()
}
