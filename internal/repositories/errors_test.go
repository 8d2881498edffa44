package repositories_test

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"tokoproduk/internal/repositories"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"gorm not found", gorm.ErrRecordNotFound, repositories.ErrNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, repositories.ErrConstraintViolation},
		{"bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), repositories.ErrStoreUnavailable},
		{"pg unique", &pgconn.PgError{Code: "23505"}, repositories.ErrConstraintViolation},
		{"pg not null", &pgconn.PgError{Code: "23502"}, repositories.ErrMissingField},
		{"pg undefined column", &pgconn.PgError{Code: "42703"}, repositories.ErrInvalidField},
		{"pg numeric out of range", &pgconn.PgError{Code: "22003"}, repositories.ErrInvalidField},
		{"pg connection failure", &pgconn.PgError{Code: "08006"}, repositories.ErrStoreUnavailable},
		{"pg admin shutdown", &pgconn.PgError{Code: "57P01"}, repositories.ErrStoreUnavailable},
		{"pg syntax error", &pgconn.PgError{Code: "42601"}, nil},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, repositories.ErrConstraintViolation},
		{"sqlite not null", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, repositories.ErrMissingField},
		{"sqlite check", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, repositories.ErrInvalidField},
		{"sqlite cannot open", sqlite3.Error{Code: sqlite3.ErrCantOpen}, repositories.ErrStoreUnavailable},
		{"unknown", errors.New("something odd"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repositories.Classify(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	driverErr := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	err := &repositories.StoreError{Op: "create product", Kind: repositories.ErrConstraintViolation, Err: driverErr}

	assert.ErrorIs(t, err, repositories.ErrConstraintViolation)
	assert.NotErrorIs(t, err, repositories.ErrNotFound)
	assert.Equal(t, driverErr.Error(), err.Error(), "driver message passes through unchanged")

	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)

	uncategorized := &repositories.StoreError{Op: "get all products", Err: errors.New("boom")}
	assert.Equal(t, "boom", uncategorized.Error())
	assert.NotErrorIs(t, uncategorized, repositories.ErrStoreUnavailable)
}
