package sql

import "context"

const metricSQLStats = "app_sql_stats"

// sqlStatsBuckets are the histogram boundaries for app_sql_stats, in
// milliseconds.
var sqlStatsBuckets = []float64{.1, .5, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// Metrics is the subset of the application's metrics manager the SQL layer
// records to. metrics.Manager satisfies it.
type Metrics interface {
	NewHistogram(name, desc string, buckets ...float64)
	RecordHistogram(ctx context.Context, name string, value float64, labels ...string)
}
