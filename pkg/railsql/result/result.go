// Package result carries the business outcomes of data-access operations
// separately from infrastructure errors. An operation that can fail for
// domain reasons returns a Result holding either a value or a Failure, while
// Go errors stay reserved for faults such as lost connections, malformed
// statements and cancelled contexts.
package result

import "fmt"

// Kind identifies the category of a Failure. Callers branch on the kind,
// never on the message.
type Kind uint8

const (
	// KindNotFound reports that a record expected to exist was absent.
	KindNotFound Kind = iota + 1

	// KindAlreadyExists reports a uniqueness violation while creating a record.
	KindAlreadyExists

	// KindBadRequest reports invalid input, such as a reference to a missing
	// parent record or a non-positive page number.
	KindBadRequest

	// KindConflict reports that current state blocks the operation, such as
	// deleting a record other rows still reference.
	KindConflict

	// KindUnexpected reports a broken invariant, such as a keyed lookup
	// matching more than one row.
	KindUnexpected
)

// String returns the kind name as used in logs.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindAlreadyExists:
		return "ALREADY_EXISTS"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindConflict:
		return "CONFLICT"
	case KindUnexpected:
		return "UNEXPECTED"
	default:
		return "UNKNOWN"
	}
}

// Failure describes why an operation could not produce a value. Failures are
// immutable once built; use the constructors below.
//
// Failure deliberately does not implement error. Returning one through the
// error channel would collapse the two channels back into one.
type Failure struct {
	kind    Kind
	message string
	key     any
}

// NotFound reports that the record identified by key was absent. The key is
// carried alongside the message for logging and caller-facing responses.
func NotFound(message string, key any) *Failure {
	return &Failure{kind: KindNotFound, message: message, key: key}
}

// AlreadyExists reports a uniqueness violation.
func AlreadyExists(message string) *Failure {
	return &Failure{kind: KindAlreadyExists, message: message}
}

// BadRequest reports invalid input.
func BadRequest(message string) *Failure {
	return &Failure{kind: KindBadRequest, message: message}
}

// Conflict reports that current state blocks the operation.
func Conflict(message string) *Failure {
	return &Failure{kind: KindConflict, message: message}
}

// Unexpected reports a broken invariant.
func Unexpected(message string) *Failure {
	return &Failure{kind: KindUnexpected, message: message}
}

// Unexpectedf is Unexpected with fmt.Sprintf formatting.
func Unexpectedf(format string, args ...any) *Failure {
	return &Failure{kind: KindUnexpected, message: fmt.Sprintf(format, args...)}
}

// Kind returns the failure category.
func (f *Failure) Kind() Kind { return f.kind }

// Message returns the human-readable description.
func (f *Failure) Message() string { return f.message }

// Key returns the identifier attached to a not-found failure, or nil when no
// key was recorded.
func (f *Failure) Key() any { return f.key }

// String renders the failure for logs.
func (f *Failure) String() string {
	if f.key != nil {
		return fmt.Sprintf("%s: %s (key %v)", f.kind, f.message, f.key)
	}

	return fmt.Sprintf("%s: %s", f.kind, f.message)
}

// Result holds either a value of type T or a Failure, never both. The zero
// Result is Ok carrying the zero value of T.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Ok returns a successful Result carrying v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail returns a failed Result carrying f. f must not be nil.
func Fail[T any](f *Failure) Result[T] {
	return Result[T]{failure: f}
}

// IsOk reports whether the result carries a value.
func (r Result[T]) IsOk() bool { return r.failure == nil }

// Failed reports whether the result carries a failure.
func (r Result[T]) Failed() bool { return r.failure != nil }

// Value returns the carried value. Failed results return the zero value of
// T; check IsOk first or use Unpack.
func (r Result[T]) Value() T { return r.value }

// Failure returns the carried failure, or nil for successful results.
func (r Result[T]) Failure() *Failure { return r.failure }

// Unpack returns the value and the failure in a single call.
func (r Result[T]) Unpack() (T, *Failure) { return r.value, r.failure }

// Map applies fn to the value of a successful result. Failures pass through
// unchanged.
func Map[A, B any](r Result[A], fn func(A) B) Result[B] {
	if r.failure != nil {
		return Result[B]{failure: r.failure}
	}

	return Ok(fn(r.value))
}

// Unit is the value of results that carry no data, such as inserts, updates
// and deletes.
type Unit struct{}

// Done returns the successful Unit result.
func Done() Result[Unit] {
	return Ok(Unit{})
}
