package sql

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/sllt/railsql/pkg/railsql/datasource"
)

// Log is the payload emitted at DEBUG for every database operation. Duration
// is in microseconds.
type Log struct {
	Type     string `json:"type"`
	Query    string `json:"query"`
	Duration int64  `json:"duration"`
	Args     []any  `json:"args,omitempty"`
}

// PrettyPrint renders the log entry on a terminal.
func (l *Log) PrettyPrint(writer io.Writer) {
	fmt.Fprintf(writer, "\u001B[38;5;8m%-32s \u001B[38;5;24m%-6s\u001B[0m %8d\u001B[38;5;8mµs\u001B[0m %s\n",
		l.Type, "SQL", l.Duration, clean(l.Query))
}

func clean(query string) string {
	query = regexp.MustCompile(`\s+`).ReplaceAllString(query, " ")
	query = strings.TrimSpace(query)

	return query
}

func sendStats(logger datasource.Logger, metrics Metrics, cfg *DBConfig, start time.Time, queryType, query string, args ...any) {
	duration := time.Since(start).Microseconds()

	if logger != nil {
		logger.Debug(&Log{
			Type:     queryType,
			Query:    query,
			Duration: duration,
			Args:     args,
		})
	}

	if metrics != nil {
		metrics.RecordHistogram(context.Background(), metricSQLStats, float64(duration)/1000.0,
			"hostname", cfg.HostName,
			"database", cfg.Database,
			"type", getOperationType(query))
	}
}

func (d *DB) sendOperationStats(start time.Time, queryType, query string, args ...any) {
	sendStats(d.logger, d.metrics, d.config, start, queryType, query, args...)
}

func (t *Tx) sendOperationStats(start time.Time, queryType, query string, args ...any) {
	sendStats(t.logger, t.metrics, t.config, start, queryType, query, args...)
}

func getOperationType(query string) string {
	query = strings.TrimSpace(query)
	words := strings.Split(query, " ")

	return strings.ToUpper(words[0])
}
