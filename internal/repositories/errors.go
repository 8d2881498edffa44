package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Store error categories. Every driver failure is mapped onto one of these,
// or left uncategorized when nothing fits.
var (
	ErrNotFound            = errors.New("record not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrMissingField        = errors.New("missing required field")
	ErrInvalidField        = errors.New("invalid field value")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// StoreError is a failed repository operation. Its message is the driver's
// message, unchanged.
type StoreError struct {
	Op   string
	Kind error // one of the category errors, nil when uncategorized
	Err  error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Kind: Classify(err), Err: err}
}

// Postgres SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation          = "23505"
	pgNotNullViolation         = "23502"
	pgCheckViolation           = "23514"
	pgUndefinedColumn          = "42703"
	pgClassDataException       = "22"
	pgClassConnectionException = "08"
	pgAdminShutdown            = "57P01"
	pgCannotConnectNow         = "57P03"
)

// Classify maps a driver error to a store error category.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConstraintViolation
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return ErrStoreUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPostgres(pgErr)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return ErrStoreUnavailable
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return classifySQLite(sqliteErr)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && !errors.Is(err, context.Canceled) {
		return ErrStoreUnavailable
	}

	return nil
}

func classifyPostgres(pgErr *pgconn.PgError) error {
	switch {
	case pgErr.Code == pgUniqueViolation:
		return ErrConstraintViolation
	case pgErr.Code == pgNotNullViolation:
		return ErrMissingField
	case pgErr.Code == pgUndefinedColumn, pgErr.Code == pgCheckViolation:
		return ErrInvalidField
	case len(pgErr.Code) == 5 && pgErr.Code[:2] == pgClassDataException:
		return ErrInvalidField
	case len(pgErr.Code) == 5 && pgErr.Code[:2] == pgClassConnectionException,
		pgErr.Code == pgAdminShutdown, pgErr.Code == pgCannotConnectNow:
		return ErrStoreUnavailable
	}
	return nil
}

func classifySQLite(sqliteErr sqlite3.Error) error {
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ErrConstraintViolation
	case sqlite3.ErrConstraintNotNull:
		return ErrMissingField
	case sqlite3.ErrConstraintCheck:
		return ErrInvalidField
	}
	switch sqliteErr.Code {
	case sqlite3.ErrCantOpen, sqlite3.ErrNotADB:
		return ErrStoreUnavailable
	case sqlite3.ErrMismatch, sqlite3.ErrRange:
		return ErrInvalidField
	}
	return nil
}
