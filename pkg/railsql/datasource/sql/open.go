package sql

import (
	"context"
	"errors"
	"time"

	"github.com/XSAM/otelsql"
	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	// Drivers registered for the supported dialects.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/sllt/railsql/pkg/railsql/datasource"
)

const pingTimeout = 5 * time.Second

var errNilConfig = errors.New("database config is nil")

// Open validates cfg, opens a traced connection pool via otelsql and
// verifies it with a bounded ping. Pool statistics are exported as
// OpenTelemetry metrics through the globally installed meter provider.
func Open(cfg *DBConfig, logger datasource.Logger, metrics Metrics) (*DB, error) {
	if cfg == nil {
		return nil, errNilConfig
	}

	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid database config")
	}

	dialect, err := NormalizeDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	// Work on a canonicalized copy so aliases such as "mariadb" do not leak
	// into logs and metric labels.
	conf := *cfg
	conf.Dialect = string(dialect)

	attrs := []attribute.KeyValue{
		attribute.String("db.system", string(dialect)),
		attribute.String("db.name", conf.Database),
	}

	db, err := otelsql.Open(driverName(dialect), conf.dsn(dialect), otelsql.WithAttributes(attrs...))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open database")
	}

	// The stats registration stays alive for the lifetime of the pool.
	if _, err := otelsql.RegisterDBStatsMetrics(db, otelsql.WithAttributes(attrs...)); err != nil && logger != nil {
		logger.Errorf("could not register db stats metrics: %v", err)
	}

	if conf.MaxIdleConn > 0 {
		db.SetMaxIdleConns(conf.MaxIdleConn)
	}

	if conf.MaxOpenConn > 0 {
		db.SetMaxOpenConns(conf.MaxOpenConn)
	}

	if conf.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(conf.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, pkgerrors.Wrapf(err, "ping %s database %s", dialect, conf.Database)
	}

	if logger != nil {
		logger.Logf("connected to %s database %s", dialect, conf.Database)
	}

	if metrics != nil {
		metrics.NewHistogram(metricSQLStats, "duration of sql operations in milliseconds", sqlStatsBuckets...)
	}

	return NewDB(db, &conf, logger, metrics), nil
}
