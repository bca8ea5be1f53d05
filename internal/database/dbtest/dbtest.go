// Package dbtest testler için izole SQLite veritabanları açar.
package dbtest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"cashier-backend/internal/config"
	"cashier-backend/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// New: bellek içi, tek bağlantılı veritabanı
func New(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_busy_timeout=5000", name, seq.Add(1))
	db, _ := open(t, dsn)
	return db
}

// NewConcurrent: geçici dizinde WAL modunda dosya veritabanı, conns kadar bağlantı.
// Transaction'lar BEGIN IMMEDIATE ile açılır; yazıcılar kilidi busy_timeout süresince bekler.
func NewConcurrent(t *testing.T, conns int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cashier.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_journal_mode=WAL&_txlock=immediate", path)
	db, sqlDB := open(t, dsn)
	sqlDB.SetMaxOpenConns(conns)
	return db
}

func open(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	db, err := database.Open(&config.Config{
		DatabaseDriver: "sqlite",
		DatabaseDSN:    dsn,
		LogLevel:       "silent",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db, sqlDB
}
