// ABOUTME: SQLite-based cache implementation for persistent caching
// ABOUTME: Provides a file-based cache that survives application restarts

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gobwas/glob"
	_ "github.com/mattn/go-sqlite3"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Client implements the Cache interface using SQLite.
type Client struct {
	db       *sql.DB
	filePath string
}

// NewSQLiteCache creates a new SQLite cache client.
func NewSQLiteCache(filePath string) (*Client, error) {
	if filePath == "" {
		filePath = "cache.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	client := &Client{db: db, filePath: filePath}

	if err := client.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	go client.cleanupRoutine()

	return client, nil
}

// initSchema creates the cache table if it doesn't exist.
func (c *Client) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expiry INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_expiry ON cache(expiry);
	`

	_, err := c.db.Exec(query)
	return err
}

// Get retrieves a value from the cache. Expired rows behave like misses.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	var expiry int64

	row := c.db.QueryRowContext(ctx, "SELECT value, expiry FROM cache WHERE key = ?", key)
	if err := row.Scan(&value, &expiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	if expiry > 0 && time.Now().Unix() > expiry {
		_, _ = c.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key)
		return nil, ErrCacheMiss
	}

	return value, nil
}

// Set stores a value with the given TTL. A zero TTL stores indefinitely.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiry int64
	if ttl != 0 {
		expiry = time.Now().Add(ttl).Unix()
	}

	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO cache (key, value, expiry) VALUES (?, ?, ?)",
		key, value, expiry)
	return err
}

// Delete removes a key from the cache.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key)
	return err
}

// DeletePattern removes every key matching the glob pattern. Matching runs
// in Go since SQLite GLOB semantics differ across builds.
func (c *Client) DeletePattern(ctx context.Context, pattern string) (int, error) {
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return 0, err
	}

	rows, err := c.db.QueryContext(ctx, "SELECT key FROM cache")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var matched []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return 0, err
		}
		if matcher.Match(key) {
			matched = append(matched, key)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range matched {
		if _, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Entries counts unexpired rows whose keys match the glob pattern.
func (c *Client) Entries(ctx context.Context, pattern string) (int, error) {
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return 0, err
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT key FROM cache WHERE expiry = 0 OR expiry > ?", time.Now().Unix())
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return 0, err
		}
		if matcher.Match(key) {
			count++
		}
	}
	return count, rows.Err()
}

// cleanupRoutine periodically removes expired rows.
func (c *Client) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		_, _ = c.db.Exec("DELETE FROM cache WHERE expiry > 0 AND expiry < ?", time.Now().Unix())
	}
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}
