package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/marcboeker/go-duckdb"
)

// DuckKV implements KV on a single DuckDB table.
type DuckKV struct {
	db     *sql.DB
	dbPath string
}

// NewDuckKV opens (or creates) a DuckDB database at dbPath. An empty path
// opens an in-memory database.
func NewDuckKV(dbPath string, memoryLimit string, threads int) (*DuckKV, error) {
	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA enable_progress_bar=false",
		}
		if memoryLimit != "" {
			pragmas = append(pragmas, fmt.Sprintf("PRAGMA memory_limit='%s'", memoryLimit))
		}
		if threads > 0 {
			pragmas = append(pragmas, fmt.Sprintf("PRAGMA threads=%d", threads))
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return fmt.Errorf("%s: %w", pragma, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   VARCHAR PRIMARY KEY,
			value BLOB NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &DuckKV{db: db, dbPath: dbPath}, nil
}

// Get reads the value stored under key.
func (s *DuckKV) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

// Set upserts key.
func (s *DuckKV) Set(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *DuckKV) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in sorted order.
func (s *DuckKV) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database.
func (s *DuckKV) Close() error {
	return s.db.Close()
}
