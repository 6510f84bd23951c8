// ABOUTME: SQLite database connection and lifecycle for the vector index
// ABOUTME: Uses modernc.org/sqlite for pure-Go SQLite support
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

func openConn(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// Open opens or creates the vector index database at path. The embedding
// dimension and model name are pinned in the index metadata; reopening
// with different values fails rather than silently mixing vector spaces.
func Open(path string, dimension int, model string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// WAL keeps concurrent readers unblocked during upserts.
	conn, err := openConn(path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	return newStore(conn, dimension, model)
}

// OpenInMemory creates an in-memory vector index (for tests and
// ephemeral runs).
func OpenInMemory(dimension int, model string) (*Store, error) {
	conn, err := openConn(":memory:")
	if err != nil {
		return nil, err
	}
	// A single in-memory connection; more would each get their own DB.
	conn.SetMaxOpenConns(1)

	return newStore(conn, dimension, model)
}
