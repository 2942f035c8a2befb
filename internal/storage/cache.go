// Package storage provides the SQLite-backed fetch cache. Cached per-DOI
// results let repeated runs against the same seed set skip the network.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fredbr/cocite/internal/citations"
)

// Cache wraps a SQLite database holding fetched seed-paper entries keyed
// by normalized DOI and the max-citing cap used for the fetch.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// createSchema creates the cache schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS fetch_cache (
			doi TEXT NOT NULL,
			max_citing INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (doi, max_citing)
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Get looks up a cached seed-paper entry. The second return value is false
// on a cache miss.
func (c *Cache) Get(doi string, maxCiting int) (*citations.SeedPaper, bool, error) {
	var payload string
	err := c.db.QueryRow(
		"SELECT payload FROM fetch_cache WHERE doi = ? AND max_citing = ?",
		doi, maxCiting,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}

	var entry citations.SeedPaper
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return nil, false, fmt.Errorf("decoding cached entry for %s: %w", doi, err)
	}
	return &entry, true, nil
}

// Put stores a fetched seed-paper entry, replacing any previous entry for
// the same (doi, maxCiting) pair.
func (c *Cache) Put(doi string, maxCiting int, entry *citations.SeedPaper) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding entry for %s: %w", doi, err)
	}

	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO fetch_cache (doi, max_citing, fetched_at, payload) VALUES (?, ?, ?, ?)",
		doi, maxCiting, time.Now().Unix(), string(payload),
	)
	if err != nil {
		return fmt.Errorf("storing entry for %s: %w", doi, err)
	}
	return nil
}

// Clear removes all cached entries and returns the number removed.
func (c *Cache) Clear() (int, error) {
	res, err := c.db.Exec("DELETE FROM fetch_cache")
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Info summarizes the cache contents.
type Info struct {
	Entries  int        `json:"entries"`
	OldestAt *time.Time `json:"oldest_at,omitempty"`
	NewestAt *time.Time `json:"newest_at,omitempty"`
}

// Stats returns entry count and fetch-time bounds for the cache.
func (c *Cache) Stats() (*Info, error) {
	var entries int
	var oldest, newest sql.NullInt64
	err := c.db.QueryRow(
		"SELECT COUNT(*), MIN(fetched_at), MAX(fetched_at) FROM fetch_cache",
	).Scan(&entries, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("querying cache stats: %w", err)
	}

	info := &Info{Entries: entries}
	if oldest.Valid {
		t := time.Unix(oldest.Int64, 0).UTC()
		info.OldestAt = &t
	}
	if newest.Valid {
		t := time.Unix(newest.Int64, 0).UTC()
		info.NewestAt = &t
	}
	return info, nil
}
