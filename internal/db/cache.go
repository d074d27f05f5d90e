package db

import (
	"context"
	"fmt"
	"time"
)

// GetCacheEntry returns the cached value under key when it is fresh at now.
// Returns nil, nil on a miss.
func (db *DB) GetCacheEntry(ctx context.Context, key string, now time.Time) ([]byte, error) {
	var value []byte
	err := db.pool.QueryRow(ctx,
		`SELECT value FROM score_cache WHERE key = $1 AND expires_at > $2`,
		key, now,
	).Scan(&value)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return value, nil
}

// SetCacheEntry stores value under key until expiresAt.
func (db *DB) SetCacheEntry(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO score_cache (key, value, expires_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}
