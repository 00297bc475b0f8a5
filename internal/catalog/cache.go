package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Cache stores fetched package lists in SQLite.
type Cache struct {
	db *sql.DB
}

// NewCache creates a new catalog cache.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// Get retrieves a cached value by key.
// Returns nil, false if not found or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	var value string
	var expiresAt time.Time

	err := c.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM catalog_cache WHERE key = ?", key,
	).Scan(&value, &expiresAt)

	if err != nil || time.Now().After(expiresAt) {
		return nil, false
	}

	return []byte(value), true
}

// Set stores a value with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl)

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO catalog_cache (key, value, expires_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, string(value), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Prune removes all expired entries.
// Returns the number of entries removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx,
		"DELETE FROM catalog_cache WHERE expires_at < ?", time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}

// CachedFetcher serves the package list from a Cache while it is fresh and
// refreshes it from the wrapped Fetcher otherwise.
type CachedFetcher struct {
	next  Fetcher
	cache *Cache
	key   string
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedFetcher wraps next, caching its result under key for ttl.
func NewCachedFetcher(next Fetcher, cache *Cache, key string, ttl time.Duration, log *slog.Logger) *CachedFetcher {
	if log == nil {
		log = slog.Default()
	}
	return &CachedFetcher{next: next, cache: cache, key: "packages:" + key, ttl: ttl, log: log}
}

// Fetch returns the cached package list, or fetches and caches a fresh one.
// A cache write failure is logged and does not fail the fetch.
func (f *CachedFetcher) Fetch(ctx context.Context) ([]Package, error) {
	if data, ok := f.cache.Get(ctx, f.key); ok {
		var pkgs []Package
		if err := json.Unmarshal(data, &pkgs); err == nil {
			f.log.Debug("catalog served from cache", "key", f.key, "packages", len(pkgs))
			return pkgs, nil
		}
		f.log.Warn("discarding unreadable catalog cache entry", "key", f.key)
	}

	pkgs, err := f.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(pkgs)
	if err != nil {
		return nil, fmt.Errorf("encode packages: %w", err)
	}
	if err := f.cache.Set(ctx, f.key, data, f.ttl); err != nil {
		f.log.Warn("failed to cache catalog", "key", f.key, "error", err)
	}
	return pkgs, nil
}
