package registry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is a SQLite-backed store for registry snapshots, one row per
// endpoint. A missing or empty cache is not an error: Load simply reports
// no snapshot.
type Cache struct {
	db *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	endpoint   TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	fetched_at TEXT NOT NULL
);`

// OpenCache opens or creates the snapshot store at path, creating parent
// directories as needed.
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Load returns the cached snapshot for endpoint. ok is false when no
// snapshot exists.
func (c *Cache) Load(endpoint string) (items []Entity, ok bool, err error) {
	var body []byte
	row := c.db.QueryRow(`SELECT body FROM snapshots WHERE endpoint = ?`, endpoint)
	switch err := row.Scan(&body); err {
	case nil:
	case sql.ErrNoRows:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("load snapshot %s: %w", endpoint, err)
	}

	if err := json.Unmarshal(body, &items); err != nil {
		return nil, false, fmt.Errorf("decode snapshot %s: %w", endpoint, err)
	}
	return items, true, nil
}

// Save stores the snapshot for endpoint, replacing any previous one.
func (c *Cache) Save(endpoint string, items []Entity) error {
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", endpoint, err)
	}
	_, err = c.db.Exec(
		`INSERT INTO snapshots (endpoint, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		endpoint, body, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", endpoint, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error { return c.db.Close() }
