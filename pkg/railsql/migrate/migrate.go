// Package migrate applies versioned schema migrations, each inside its own
// transaction that also records the applied version. A failed migration
// rolls back completely and stops the run, so the version table never claims
// work that was not committed.
package migrate

import (
	"context"
	"errors"
	"sort"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/sllt/railsql/pkg/railsql/chain"
	railsql "github.com/sllt/railsql/pkg/railsql/datasource/sql"
	"github.com/sllt/railsql/pkg/railsql/result"
)

const (
	createMigrationsTable = `CREATE TABLE IF NOT EXISTS railsql_migrations (
    version BIGINT not null ,
    method VARCHAR(4) not null ,
    start_time TIMESTAMP not null ,
    duration BIGINT,
    constraint primary_key primary key (version, method)
);`

	lastMigrationQuery = `SELECT COALESCE(MAX(version), 0) FROM railsql_migrations;`

	insertMigrationRecord = `INSERT INTO railsql_migrations (version, method, start_time, duration) ` +
		`VALUES ({{version}}, {{method}}, {{start_time}}, {{duration}});`
)

var errNilDatabase = errors.New("migrations require a database")

// Migrate is one schema change. UP runs inside a transaction committed
// together with the version record, so either both land or neither does.
type Migrate struct {
	UP func(ctx context.Context, tx *railsql.Tx) error
}

// Logger is the slice of the application logger the runner needs.
type Logger interface {
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// noopLogger stands in when Run is handed a nil logger.
type noopLogger struct{}

func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Errorf(string, ...any) {}

// Run applies every migration newer than the last recorded version, in
// ascending order. Versions at or below the recorded one are skipped, so
// re-running with the same map is a no-op.
func Run(ctx context.Context, db *railsql.DB, logger Logger, migrations map[int64]Migrate) error {
	if db == nil {
		return errNilDatabase
	}

	if logger == nil {
		logger = noopLogger{}
	}

	versions, err := sortedVersions(migrations)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return pkgerrors.Wrap(err, "create migrations table")
	}

	last, err := railsql.QueryScalar[int64](ctx, db, lastMigrationQuery)
	if err != nil {
		return pkgerrors.Wrap(err, "read last migration")
	}

	logger.Debugf("last applied migration is %v", last)

	for _, version := range versions {
		if version <= last {
			logger.Debugf("skipping migration %v", version)
			continue
		}

		if err := apply(ctx, db, version, migrations[version]); err != nil {
			logger.Errorf("migration %v failed and rolled back: %v", version, err)

			return err
		}

		logger.Infof("migration %v ran successfully", version)
	}

	return nil
}

func sortedVersions(migrations map[int64]Migrate) ([]int64, error) {
	versions := make([]int64, 0, len(migrations))

	for version, m := range migrations {
		if m.UP == nil {
			return nil, pkgerrors.Errorf("migration %d has no UP function", version)
		}

		versions = append(versions, version)
	}

	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

	return versions, nil
}

func apply(ctx context.Context, db *railsql.DB, version int64, m Migrate) error {
	start := time.Now()

	ch := chain.Begin(ctx, db)
	defer ch.Close()

	ran := ch.Do(func(ctx context.Context, tx *railsql.Tx, _ result.Unit) (result.Result[result.Unit], error) {
		if err := m.UP(ctx, tx); err != nil {
			return result.Result[result.Unit]{}, err
		}

		return result.Done(), nil
	})

	recorded := ran.Do(func(ctx context.Context, tx *railsql.Tx, _ result.Unit) (result.Result[result.Unit], error) {
		query, args, err := tx.BindNamed(insertMigrationRecord, map[string]any{
			"version":    version,
			"method":     "UP",
			"start_time": start,
			"duration":   time.Since(start).Milliseconds(),
		})
		if err != nil {
			return result.Result[result.Unit]{}, err
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return result.Result[result.Unit]{}, pkgerrors.Wrapf(err, "record migration %d", version)
		}

		return result.Done(), nil
	})

	res, err := recorded.Finish()
	if err != nil {
		return err
	}

	// Migration steps speak the error channel only; a failure here means a
	// step misused the result channel.
	if res.Failed() {
		return pkgerrors.Errorf("migration %d failed: %s", version, res.Failure().String())
	}

	return nil
}
