// Package store provides a SQLite-backed cache of parsed file models keyed
// by content hash, so repeated runs over a large tree skip re-parsing
// unchanged files.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/xonecas/codescope/internal/code"
)

const schema = `
CREATE TABLE IF NOT EXISTS parse_cache (
	path     TEXT PRIMARY KEY,
	hash     TEXT NOT NULL,
	data     TEXT NOT NULL,
	created  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_parse_created ON parse_cache(created);
`

// Cache is a SQLite-backed parse-result cache.
type Cache struct {
	mu  sync.Mutex
	db  *sql.DB
	ttl time.Duration
}

// Open creates or opens a cache database at the given path.
// ttl controls how long entries remain fresh.
func Open(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	// SQLite pragmas for performance.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	c := &Cache{db: db, ttl: ttl}
	c.purgeStale()
	return c, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached model for path if the stored content hash matches
// and the entry is fresh. Safe to call on a nil receiver (returns miss).
func (c *Cache) Get(path, hash string) (*code.File, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.ttl).Unix()
	var data string
	err := c.db.QueryRow(
		"SELECT data FROM parse_cache WHERE path = ? AND hash = ? AND created > ?",
		path, hash, cutoff,
	).Scan(&data)
	if err != nil {
		return nil, false
	}

	var f code.File
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("corrupt parse cache entry")
		return nil, false
	}
	return &f, true
}

// Put stores the parsed model for path. No-op on nil receiver.
func (c *Cache) Put(path, hash string, f *code.File) {
	if c == nil || f == nil {
		return
	}
	data, err := json.Marshal(f)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to encode parse result")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO parse_cache (path, hash, data, created) VALUES (?, ?, ?, ?)",
		path, hash, string(data), time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to cache parse result")
	}
}

// Delete removes the entry for path. No-op on nil receiver.
func (c *Cache) Delete(path string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.db.Exec("DELETE FROM parse_cache WHERE path = ?", path) //nolint:errcheck // best-effort
}

func (c *Cache) purgeStale() {
	cutoff := time.Now().Add(-c.ttl).Unix()
	c.db.Exec("DELETE FROM parse_cache WHERE created <= ?", cutoff) //nolint:errcheck // best-effort
}
