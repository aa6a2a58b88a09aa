package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// testReadPoolSize keeps the read side wide enough for the concurrent
// key-resolution tests without opening a connection per goroutine.
const testReadPoolSize = 4

// OpenTestSQLite provisions the write/read pool pair against a throwaway
// database under t.TempDir() and applies the full migration set. Both pools
// are closed when the test finishes.
//
// Tests that never touch the read path can ignore the second handle.
func OpenTestSQLite(t *testing.T) (writeDB, readDB *sql.DB) {
	t.Helper()

	writeDB, readDB, err := OpenSQLitePair(filepath.Join(t.TempDir(), "boardhub.sqlite"), testReadPoolSize)
	if err != nil {
		t.Fatalf("open test sqlite pair: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	if err := RunMigrations(writeDB); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	return writeDB, readDB
}
