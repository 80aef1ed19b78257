package testutil

import (
	"os"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/pearl-backend/internal/data/db"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a freshly migrated database. TEST_POSTGRES_DSN selects a real
// Postgres; otherwise each call gets its own in-memory SQLite database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	svc, err := db.Open(db.Config{
		PostgresDSN: os.Getenv("TEST_POSTGRES_DSN"),
		SQLitePath:  ":memory:",
		Silent:      true,
	}, Logger(tb))
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	tb.Cleanup(func() { _ = svc.Close() })
	if err := db.AutoMigrateAll(svc.DB()); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return svc.DB()
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
