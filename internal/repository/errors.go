// Package repository implements the MySQL data access layer. Each
// repository wraps the shared *sql.DB; multi-statement sequences that
// must be atomic (order creation, status changes, redemptions) expose
// Tx variants that run inside a caller-owned transaction.
//
// Sentinel errors below let handlers translate storage outcomes into
// the API error taxonomy without inspecting driver errors themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist.
// Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or delete collides with
// existing state: a duplicate caller-supplied category ID, a second
// review for the same coffee, a category that still has coffees.
var ErrConflict = errors.New("conflict")

// ErrInvalidReference is returned when a supplied foreign key (e.g. a
// coffee's categoryId) does not resolve to an existing row.
var ErrInvalidReference = errors.New("invalid reference")

// MySQL error numbers surfaced through the driver's error strings.
const (
	mysqlDuplicateEntry   = "1062"
	mysqlForeignKeyFailed = "1452"
)

// isDuplicate reports whether err is a MySQL duplicate-key violation.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), mysqlDuplicateEntry)
}

// isForeignKeyViolation reports whether err is a MySQL FK failure.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), mysqlForeignKeyFailed)
}
