package sql

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

const paramPlaceholder = "?"

var (
	namedHandle = regexp.MustCompile(`{{\S+?}}`)

	errMissingParam = errors.New("named parameter not found")
)

// BindNamed expands {{name}} placeholders in query with values from data and
// renders driver placeholders for the dialect. Slice values fan out into a
// parenthesized placeholder list, so an IN clause takes a single parameter;
// []byte stays a single blob parameter. A placeholder with no matching key
// is an error.
//
//	query, args, err := BindNamed(DialectPostgres,
//		"SELECT id FROM users WHERE status = {{status}} AND team_id IN {{teams}}",
//		map[string]any{"status": "active", "teams": []int{1, 2}})
//	// "SELECT id FROM users WHERE status = $1 AND team_id IN ($2,$3)"
func BindNamed(dialect Dialect, query string, data map[string]any) (string, []any, error) {
	expanded, args, err := expandNamed(query, data)
	if err != nil {
		return "", nil, err
	}

	return rebindQuery(dialect, expanded), args, nil
}

func expandNamed(query string, data map[string]any) (string, []any, error) {
	if len(data) == 0 {
		return query, nil, nil
	}

	args := make([]any, 0, len(data))

	var err error

	expanded := namedHandle.ReplaceAllStringFunc(query, func(param string) string {
		name := strings.TrimRight(strings.TrimLeft(param, "{"), "}")

		val, ok := data[name]
		if !ok {
			err = fmt.Errorf("%w: %s", errMissingParam, name)
			return ""
		}

		v := reflect.ValueOf(val)
		if v.Kind() != reflect.Slice || v.Type() == reflect.TypeOf([]byte(nil)) {
			args = append(args, val)
			return paramPlaceholder
		}

		for i := 0; i < v.Len(); i++ {
			args = append(args, v.Index(i).Interface())
		}

		return multiPlaceholders(v.Len())
	})
	if err != nil {
		return "", nil, err
	}

	return expanded, args, nil
}

func multiPlaceholders(num int) string {
	if num == 0 {
		return ""
	}

	var out strings.Builder

	out.Grow(2*num + 1)
	out.WriteByte('(')

	for i := 0; i < num; i++ {
		if i > 0 {
			out.WriteByte(',')
		}

		out.WriteByte('?')
	}

	out.WriteByte(')')

	return out.String()
}
