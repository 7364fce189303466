// Package sqlerr classifies driver errors caused by constraint violations.
// It recognizes the unique and foreign-key error codes of the postgres, mysql
// and sqlite drivers; anything else classifies as ViolationNone and must be
// passed on unchanged by the caller, wrapping included, so that errors.Is and
// errors.As keep working upstream.
package sqlerr

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// Violation is the category of a constraint violation.
type Violation uint8

const (
	// ViolationNone marks errors that are not a recognized constraint
	// violation.
	ViolationNone Violation = iota

	// ViolationUnique marks unique and primary-key violations.
	ViolationUnique

	// ViolationForeignKey marks foreign-key violations, on either side of
	// the reference.
	ViolationForeignKey
)

// String returns the violation name as used in logs.
func (v Violation) String() string {
	switch v {
	case ViolationUnique:
		return "UNIQUE"
	case ViolationForeignKey:
		return "FOREIGN_KEY"
	default:
		return "NONE"
	}
}

// postgres SQLSTATE codes, surfaced verbatim by lib/pq.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mysql server error numbers.
const (
	myDupEntry            = 1062 // ER_DUP_ENTRY
	myDupEntryWithKeyName = 1586 // ER_DUP_ENTRY_WITH_KEY_NAME
	myNoReferencedRow     = 1216 // ER_NO_REFERENCED_ROW
	myRowIsReferenced     = 1217 // ER_ROW_IS_REFERENCED
	myRowIsReferenced2    = 1451 // ER_ROW_IS_REFERENCED_2
	myNoReferencedRow2    = 1452 // ER_NO_REFERENCED_ROW_2
)

// sqlite extended result codes.
const (
	liteConstraintForeignKey = 787  // SQLITE_CONSTRAINT_FOREIGNKEY
	liteConstraintPrimaryKey = 1555 // SQLITE_CONSTRAINT_PRIMARYKEY
	liteConstraintUnique     = 2067 // SQLITE_CONSTRAINT_UNIQUE
)

// Classify reports which constraint category err belongs to. It unwraps err
// with errors.As, so decorated driver errors classify the same as bare ones.
// Classify never mutates or wraps err.
func Classify(err error) Violation {
	if err == nil {
		return ViolationNone
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ViolationUnique
		case pgForeignKeyViolation:
			return ViolationForeignKey
		}

		return ViolationNone
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case myDupEntry, myDupEntryWithKeyName:
			return ViolationUnique
		case myNoReferencedRow, myRowIsReferenced, myRowIsReferenced2, myNoReferencedRow2:
			return ViolationForeignKey
		}

		return ViolationNone
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case liteConstraintPrimaryKey, liteConstraintUnique:
			return ViolationUnique
		case liteConstraintForeignKey:
			return ViolationForeignKey
		}

		return ViolationNone
	}

	return ViolationNone
}

// IsUnique reports whether err is a unique or primary-key violation.
func IsUnique(err error) bool {
	return Classify(err) == ViolationUnique
}

// IsForeignKey reports whether err is a foreign-key violation.
func IsForeignKey(err error) bool {
	return Classify(err) == ViolationForeignKey
}
