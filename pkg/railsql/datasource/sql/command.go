package sql

import (
	"context"

	"github.com/sllt/railsql/pkg/railsql/result"
	"github.com/sllt/railsql/pkg/railsql/sqlerr"
)

// ConstraintMessages carries the caller-facing texts attached to constraint
// failures. The kind decides control flow; these only decide wording.
type ConstraintMessages struct {
	// Unique describes the duplicate, e.g. "a user with this email already
	// exists".
	Unique string
	// ForeignKey describes the missing reference, e.g. "customer does not
	// exist".
	ForeignKey string
}

// Insert executes an INSERT statement. A unique violation becomes
// AlreadyExists and a foreign-key violation BadRequest, both with the
// supplied messages; any other fault returns on the error channel untouched.
func Insert(ctx context.Context, ex Executor, msgs ConstraintMessages, query string, args ...any) (result.Result[result.Unit], error) {
	return InsertReturning(ctx, ex, unit, msgs, query, args...)
}

// InsertReturning is Insert with a selector producing the success value,
// typically a pre-generated identifier.
func InsertReturning[T any](ctx context.Context, ex Executor, sel func() T, msgs ConstraintMessages, query string, args ...any) (result.Result[T], error) {
	if err := ctx.Err(); err != nil {
		return result.Result[T]{}, err
	}

	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		switch sqlerr.Classify(err) {
		case sqlerr.ViolationUnique:
			return result.Fail[T](result.AlreadyExists(msgs.Unique)), nil
		case sqlerr.ViolationForeignKey:
			return result.Fail[T](result.BadRequest(msgs.ForeignKey)), nil
		default:
			return result.Result[T]{}, err
		}
	}

	return result.Ok(sel()), nil
}

// Update executes an UPDATE statement that must touch the record identified
// by key. Zero affected rows yield NotFound carrying key; constraint
// violations map exactly as for Insert.
func Update(ctx context.Context, ex Executor, key any, msgs ConstraintMessages, query string, args ...any) (result.Result[result.Unit], error) {
	return UpdateReturning(ctx, ex, key, unit, msgs, query, args...)
}

// UpdateReturning is Update with a selector producing the success value.
func UpdateReturning[T any](ctx context.Context, ex Executor, key any, sel func() T, msgs ConstraintMessages, query string, args ...any) (result.Result[T], error) {
	if err := ctx.Err(); err != nil {
		return result.Result[T]{}, err
	}

	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		switch sqlerr.Classify(err) {
		case sqlerr.ViolationUnique:
			return result.Fail[T](result.AlreadyExists(msgs.Unique)), nil
		case sqlerr.ViolationForeignKey:
			return result.Fail[T](result.BadRequest(msgs.ForeignKey)), nil
		default:
			return result.Result[T]{}, err
		}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return result.Result[T]{}, err
	}

	if affected == 0 {
		return result.Fail[T](result.NotFound("record not found", key)), nil
	}

	return result.Ok(sel()), nil
}

// Delete executes a DELETE statement for the record identified by key. Zero
// affected rows yield NotFound carrying key. A foreign-key violation means
// other rows still reference this one and becomes Conflict, the opposite
// causal direction of the insert and update case.
func Delete(ctx context.Context, ex Executor, key any, foreignKeyMessage string, query string, args ...any) (result.Result[result.Unit], error) {
	if err := ctx.Err(); err != nil {
		return result.Result[result.Unit]{}, err
	}

	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		if sqlerr.IsForeignKey(err) {
			return result.Fail[result.Unit](result.Conflict(foreignKeyMessage)), nil
		}

		return result.Result[result.Unit]{}, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return result.Result[result.Unit]{}, err
	}

	if affected == 0 {
		return result.Fail[result.Unit](result.NotFound("record not found", key)), nil
	}

	return result.Done(), nil
}

func unit() result.Unit {
	return result.Unit{}
}
