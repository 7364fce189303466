package sql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavor a connection speaks. It decides the DSN
// layout, the registered driver and the placeholder format.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var errUnsupportedDialect = errors.New("unsupported dialect")

// NormalizeDialect maps user-facing dialect names, aliases included, to the
// canonical Dialect. The empty string defaults to mysql.
//
// Supported values:
//   - mysql, mariadb
//   - postgres, postgresql, supabase, cockroachdb
//   - sqlite, sqlite3
func NormalizeDialect(dialect string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "", string(DialectMySQL), "mariadb":
		return DialectMySQL, nil
	case string(DialectPostgres), "postgresql", "supabase", "cockroachdb":
		return DialectPostgres, nil
	case string(DialectSQLite), "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedDialect, dialect)
	}
}

// rebindQuery rewrites ? placeholders into the numbered form postgres
// expects. Other dialects pass through untouched.
func rebindQuery(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}

	var (
		counter = 1
		out     strings.Builder
	)

	out.Grow(len(query) + 8)

	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			out.WriteByte(query[i])
			continue
		}

		out.WriteByte('$')
		out.WriteString(strconv.Itoa(counter))
		counter++
	}

	return out.String()
}

func driverName(dialect Dialect) string {
	switch dialect {
	case DialectPostgres:
		return "postgres"
	case DialectSQLite:
		return "sqlite"
	default:
		return "mysql"
	}
}
