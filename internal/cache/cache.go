// Package cache is the pagination cache for external list endpoints.
// Entries are keyed by endpoint plus serialized query parameters and
// expire after a configurable TTL; capacity is bounded by evicting the
// oldest entries. The default store is an in-memory sqlite database,
// so nothing survives a process restart. Concurrent fills for the same
// key are not de-duplicated: both callers pay the fetch cost.
package cache

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

// Defaults applied when the config leaves cache settings unset.
const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 256
)

// Cache is a TTL- and capacity-bounded key/value store.
type Cache struct {
	db         *sql.DB
	ttl        time.Duration
	maxEntries int

	// now is swappable in tests.
	now func() time.Time
}

// Open creates a cache at path (":memory:" for a process-lifetime
// in-memory store). Non-positive ttl or maxEntries fall back to the
// defaults.
func Open(path string, ttl time.Duration, maxEntries int) (*Cache, error) {
	if path == "" {
		path = ":memory:"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// A single connection keeps the in-memory database alive and
	// serializes writers, which sqlite requires anyway.
	db.SetMaxOpenConns(1)

	c := &Cache{db: db, ttl: ttl, maxEntries: maxEntries, now: time.Now}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS pages (
			key        TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_pages_created ON pages(created_at);
	`)
	if err != nil {
		return fmt.Errorf("initializing cache schema: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key builds a cache key from an endpoint path and its query parameters.
// url.Values encodes in sorted order, so equal parameter sets always
// produce equal keys.
func Key(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

// Get returns the cached payload for key. Expired entries are purged
// and reported as misses.
func (c *Cache) Get(key string) ([]byte, bool) {
	var payload []byte
	var createdAt int64
	err := c.db.QueryRow("SELECT payload, created_at FROM pages WHERE key = ?", key).
		Scan(&payload, &createdAt)
	if err != nil {
		return nil, false
	}

	if c.now().Unix()-createdAt >= int64(c.ttl.Seconds()) {
		c.db.Exec("DELETE FROM pages WHERE key = ?", key)
		return nil, false
	}
	return payload, true
}

// Put stores a payload under key, evicting the oldest entries when the
// store is over capacity.
func (c *Cache) Put(key string, payload []byte) error {
	_, err := c.db.Exec(`
		INSERT INTO pages (key, payload, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at
	`, key, payload, c.now().Unix())
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	_, err = c.db.Exec(`
		DELETE FROM pages WHERE key IN (
			SELECT key FROM pages ORDER BY created_at DESC LIMIT -1 OFFSET ?
		)
	`, c.maxEntries)
	if err != nil {
		return fmt.Errorf("cache evict: %w", err)
	}
	return nil
}

// Len reports the number of live entries, expired or not.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&n); err != nil {
		return 0, fmt.Errorf("cache len: %w", err)
	}
	return n, nil
}
