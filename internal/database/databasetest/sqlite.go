// Package databasetest opens throwaway gorm databases for repository tests.
package databasetest

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLite opens a file-backed SQLite database under t.TempDir and migrates
// models into it. The connection is closed when the test ends.
func NewSQLite(t testing.TB, models ...interface{}) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "voxrelay.db") + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// SQLite has a single writer
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models...))
	return db
}
