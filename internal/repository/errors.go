// Package repository is the relational backend of the storage layer.
// Each entity type maps to one table; every mutation runs in its own
// transaction.  Driver errors are translated into the storage sentinels
// so that higher layers such as the booking service can distinguish a
// constraint violation from an infrastructure failure with errors.Is.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/iliyamo/rental-booking/internal/storage"
)

// MySQL server error numbers reported for integrity violations.
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// PostgreSQL SQLSTATE codes reported for integrity violations.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// isConstraint reports whether err is a uniqueness or foreign key
// violation from either supported driver.
func isConstraint(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry, mysqlRowIsReferenced, mysqlNoReferencedRow:
			return true
		}
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		switch string(pe.Code) {
		case pqUniqueViolation, pqForeignKeyViolation:
			return true
		}
	}
	return false
}

// classify wraps a driver error with the operation that failed and the
// matching storage sentinel.  The original driver error stays reachable
// through errors.As.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isConstraint(err) {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w: %w", op, storage.ErrIO, err)
}
