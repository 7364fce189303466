package sql

import (
	"context"

	"github.com/sllt/railsql/pkg/railsql/result"
)

// QuerySingle runs a statement expected to match zero rows or one. Zero rows
// with a non-nil key yield a NotFound failure carrying that key. Calling it
// with a nil key is a contract violation reserved for lookups that cannot
// miss, so zero rows there surface as Unexpected; more than one row is
// always Unexpected. Driver faults and cancellation return on the error
// channel, never as a failure.
func QuerySingle[T any](ctx context.Context, ex Executor, key any, query string, args ...any) (result.Result[T], error) {
	items, err := collect[T](ctx, ex, query, args...)
	if err != nil {
		return result.Result[T]{}, err
	}

	switch len(items) {
	case 0:
		if key != nil {
			return result.Fail[T](result.NotFound("record not found", key)), nil
		}

		return result.Fail[T](result.Unexpected("required record is missing")), nil
	case 1:
		return result.Ok(items[0]), nil
	default:
		return result.Fail[T](result.Unexpectedf("query matched %d rows, want one", len(items))), nil
	}
}

// QueryAny runs a statement and returns every matching row. No rows is a
// valid outcome: the result is Ok with an empty slice.
func QueryAny[T any](ctx context.Context, ex Executor, query string, args ...any) (result.Result[[]T], error) {
	items, err := collect[T](ctx, ex, query, args...)
	if err != nil {
		return result.Result[[]T]{}, err
	}

	return result.Ok(items), nil
}

// QueryScalar runs a statement returning a single value, counts typically.
// There is no failure channel here: a count that cannot be computed is an
// infrastructure fault, not a domain outcome.
func QueryScalar[T any](ctx context.Context, ex Executor, query string, args ...any) (T, error) {
	var value T

	if err := ctx.Err(); err != nil {
		return value, err
	}

	if err := ex.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		return value, err
	}

	return value, nil
}

func collect[T any](ctx context.Context, ex Executor, query string, args ...any) ([]T, error) {
	items := make([]T, 0)

	if err := ex.Select(ctx, &items, query, args...); err != nil {
		return nil, err
	}

	return items, nil
}
