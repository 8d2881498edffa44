// Package dbtest provides throwaway in-memory databases for tests.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"tokoproduk/internal/config"
	"tokoproduk/internal/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config returns a pool configuration for a private in-memory SQLite database.
func Config() config.DBConfig {
	return config.DBConfig{
		Driver:          config.DriverSQLite,
		SQLitePath:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns:    4,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Hour,
	}
}

// New opens and migrates a private in-memory database that is closed when
// the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(Config(), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
