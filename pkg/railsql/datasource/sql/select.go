package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/sllt/railsql/pkg/railsql/datasource"
)

var (
	errSelectDataNotPointer = errors.New("select destination is not a pointer")
	errSelectUnsupported    = errors.New("unsupported select destination type")
)

// Select runs query and binds the rows into data, which must be a pointer to
// a slice or a struct. Columns map to struct fields through the `db` tag,
// falling back to the snake_case form of the field name; unmatched columns
// are discarded.
//
//	type user struct {
//		ID    int
//		Name  string
//		Image string `db:"image_url"`
//	}
//
//	var users []user
//	err := db.Select(ctx, &users, "SELECT id, name, image_url FROM users")
//
// Slices of scalars work too:
//
//	var ids []int
//	err := db.Select(ctx, &ids, "SELECT id FROM users")
func (d *DB) Select(ctx context.Context, data any, query string, args ...any) error {
	return selectData(ctx, d.logger, d.QueryContext, data, query, args...)
}

// Select executes query within the transaction and binds rows into data.
func (t *Tx) Select(ctx context.Context, data any, query string, args ...any) error {
	return selectData(ctx, t.logger, t.QueryContext, data, query, args...)
}

type queryFunc func(ctx context.Context, query string, args ...any) (*sql.Rows, error)

func selectData(ctx context.Context, logger datasource.Logger, queryContext queryFunc, data any, query string, args ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// The destination must be settable for scanned rows to be visible to the
	// caller.
	rvo := reflect.ValueOf(data)
	if !rvo.IsValid() || rvo.Kind() != reflect.Ptr || rvo.IsNil() {
		if logger != nil {
			logger.Error("select destination is not settable, pass a non-nil pointer")
		}

		return errSelectDataNotPointer
	}

	rv := rvo.Elem()

	switch rv.Kind() {
	case reflect.Slice:
		return selectSlice(ctx, logger, queryContext, query, args, rvo, rv)
	case reflect.Struct:
		return selectStruct(ctx, logger, queryContext, query, args, rv)
	default:
		if logger != nil {
			logger.Debugf("cannot bind rows into a pointer to %v", rv.Kind())
		}

		return fmt.Errorf("%w: %s", errSelectUnsupported, rv.Kind())
	}
}

func selectSlice(ctx context.Context, logger datasource.Logger, queryContext queryFunc, query string, args []any, rvo, rv reflect.Value) error {
	rows, err := queryContext(ctx, query, args...)
	if err != nil {
		if logger != nil {
			logger.Errorf("error running query: %v", err)
		}

		return err
	}

	defer rows.Close()

	for rows.Next() {
		val := reflect.New(rv.Type().Elem())

		if rv.Type().Elem().Kind() == reflect.Struct {
			if err := rowsToStruct(rows, val); err != nil {
				return err
			}
		} else if err := rows.Scan(val.Interface()); err != nil {
			return err
		}

		rv = reflect.Append(rv, val.Elem())
	}

	if err := rows.Err(); err != nil {
		if logger != nil {
			logger.Errorf("error reading rows: %v", err)
		}

		return err
	}

	if rvo.Elem().CanSet() {
		rvo.Elem().Set(rv)
	}

	return nil
}

func selectStruct(ctx context.Context, logger datasource.Logger, queryContext queryFunc, query string, args []any, rv reflect.Value) error {
	rows, err := queryContext(ctx, query, args...)
	if err != nil {
		if logger != nil {
			logger.Errorf("error running query: %v", err)
		}

		return err
	}

	defer rows.Close()

	rowFound := false

	for rows.Next() {
		rowFound = true

		if err := rowsToStruct(rows, rv); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		if logger != nil {
			logger.Errorf("error reading rows: %v", err)
		}

		return err
	}

	if !rowFound {
		return sql.ErrNoRows
	}

	return nil
}

func rowsToStruct(rows *sql.Rows, vo reflect.Value) error {
	v := vo
	if vo.Kind() == reflect.Ptr {
		v = vo.Elem()
	}

	// Field indexes keyed by their column name.
	fieldNameIndex := map[string]int{}

	for i := 0; i < v.Type().NumField(); i++ {
		var name string

		f := v.Type().Field(i)
		if tag := f.Tag.Get("db"); tag != "" {
			name = tag
		} else {
			name = ToSnakeCase(f.Name)
		}

		fieldNameIndex[name] = i
	}

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	fields := []any{}

	for _, c := range columns {
		if i, ok := fieldNameIndex[c]; ok {
			fields = append(fields, v.Field(i).Addr().Interface())
		} else {
			var discard any

			fields = append(fields, &discard)
		}
	}

	if err := rows.Scan(fields...); err != nil {
		return err
	}

	if vo.CanSet() {
		vo.Set(v)
	}

	return nil
}

var (
	matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// ToSnakeCase converts a Go field name to its snake_case column form.
func ToSnakeCase(str string) string {
	snake := matchFirstCap.ReplaceAllString(str, "${1}_${2}")
	snake = matchAllCap.ReplaceAllString(snake, "${1}_${2}")

	return strings.ToLower(snake)
}
