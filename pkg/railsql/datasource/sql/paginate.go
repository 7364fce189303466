package sql

import (
	"context"

	"github.com/sllt/railsql/pkg/railsql/paging"
	"github.com/sllt/railsql/pkg/railsql/result"
)

// Paged runs offset pagination: a count statement followed by a page
// statement the caller has already scoped with LIMIT/OFFSET. The two run as
// separate round trips, so totals may observe a different snapshot than the
// page under concurrent writes. Non-positive page inputs fail with
// BadRequest before anything touches the database.
func Paged[T any](ctx context.Context, ex Executor, pageNumber, pageSize int, countQuery string, countArgs []any, pageQuery string, pageArgs ...any) (result.Result[paging.Page[T]], error) {
	if pageNumber < 1 || pageSize < 1 {
		return result.Fail[paging.Page[T]](result.BadRequest("page number and page size must be positive")), nil
	}

	total, err := QueryScalar[int64](ctx, ex, countQuery, countArgs...)
	if err != nil {
		return result.Result[paging.Page[T]]{}, err
	}

	items, err := collect[T](ctx, ex, pageQuery, pageArgs...)
	if err != nil {
		return result.Result[paging.Page[T]]{}, err
	}

	return result.Ok(paging.NewPage(items, total, pageNumber, pageSize)), nil
}

// Seek runs keyset pagination. The statement must be ordered by a composite
// key, filtered by a strict inequality on the previous cursor, and limited
// to pageSize rows. cursorOf extracts the resume position from a row; it is
// consulted only for the last row of a full page. A full page means "may
// have more", a short page is final.
func Seek[T any](ctx context.Context, ex Executor, pageSize int, cursorOf func(T) paging.Cursor, query string, args ...any) (result.Result[paging.CursorPage[T]], error) {
	if pageSize < 1 {
		return result.Fail[paging.CursorPage[T]](result.BadRequest("page size must be positive")), nil
	}

	items, err := collect[T](ctx, ex, query, args...)
	if err != nil {
		return result.Result[paging.CursorPage[T]]{}, err
	}

	var next paging.Cursor
	if len(items) >= pageSize {
		next = cursorOf(items[len(items)-1])
	}

	return result.Ok(paging.NewCursorPage(items, pageSize, next)), nil
}

// SlicePage answers "is there more" without totals or cursors. The statement
// must fetch pageSize+1 rows; the extra row, when present, only proves
// another page exists and is dropped from the result.
func SlicePage[T any](ctx context.Context, ex Executor, pageSize int, query string, args ...any) (result.Result[paging.Slice[T]], error) {
	if pageSize < 1 {
		return result.Fail[paging.Slice[T]](result.BadRequest("page size must be positive")), nil
	}

	items, err := collect[T](ctx, ex, query, args...)
	if err != nil {
		return result.Result[paging.Slice[T]]{}, err
	}

	return result.Ok(paging.NewSlice(items, pageSize)), nil
}
