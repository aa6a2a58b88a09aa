// Package db owns SQLite connectivity and schema migrations for the
// credential store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"
)

// Pragmas applied to every pool. WAL is what lets the read pool serve key
// resolution while the writer holds a transaction open.
const (
	busyTimeoutMillis = "5000"
	journalMode       = "WAL"
	synchronousMode   = "NORMAL"

	defaultReadConns = 4
)

// OpenSQLitePair opens the two pools the server runs on: a single-connection
// write pool with immediate transactions (lock contention surfaces as
// busy_timeout waits, not deadlocks) and a wider read pool for the
// credential-resolution hot path. Token verification never touches the
// store; the read pool exists for concurrent API key resolution and
// token-subject lookups. readMaxOpen <= 0 falls back to defaultReadConns.
func OpenSQLitePair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = openPool(path, true, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("write pool: %w", err)
	}

	if readMaxOpen <= 0 {
		readMaxOpen = defaultReadConns
	}
	readDB, err = openPool(path, false, readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, fmt.Errorf("read pool: %w", err)
	}

	return writeDB, readDB, nil
}

func openPool(path string, writer bool, maxOpen int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path, writer))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func dsn(path string, writer bool) string {
	params := url.Values{}
	params.Set("_journal_mode", journalMode)
	params.Set("_busy_timeout", busyTimeoutMillis)
	params.Set("_synchronous", synchronousMode)
	params.Set("_foreign_keys", "on")
	if writer {
		params.Set("_txlock", "immediate")
	}
	return path + "?" + params.Encode()
}
