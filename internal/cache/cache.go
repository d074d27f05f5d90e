// Package cache stores computed ATS scores keyed by user and content.
package cache

import (
	"context"
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// DefaultTTL is how long a score stays cached.
const DefaultTTL = time.Hour

// ScoreCache stores score responses.
type ScoreCache interface {
	// Get returns the cached response, or nil on a miss.
	Get(ctx context.Context, key string) (*types.ATSScoreResponse, error)
	Set(ctx context.Context, key string, value *types.ATSScoreResponse) error
}

func contentHash(text string) string {
	sum := md5.Sum([]byte(text)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// ScoreKey builds the cache key for a user scoring resumeText against jdText.
func ScoreKey(userID, resumeText, jdText string) string {
	return fmt.Sprintf("score:%s:%s:%s", userID, contentHash(resumeText), contentHash(jdText))
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process ScoreCache.
type MemoryCache struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	// nextSweep is when Set next drops expired entries.
	nextSweep time.Time
}

// NewMemoryCache creates an in-process cache. A non-positive ttl takes DefaultTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a fresh entry. Expired entries are dropped.
func (c *MemoryCache) Get(_ context.Context, key string) (*types.ATSScoreResponse, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decode(entry.value)
}

// Set stores a copy of value. At most once per ttl it also drops every expired
// entry, so keys that are never read again do not accumulate.
func (c *MemoryCache) Set(_ context.Context, key string, value *types.ATSScoreResponse) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cached score: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !now.Before(c.nextSweep) {
		for k, e := range c.entries {
			if !now.Before(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		c.nextSweep = now.Add(c.ttl)
	}
	c.entries[key] = memoryEntry{value: data, expiresAt: now.Add(c.ttl)}
	return nil
}

// Len returns the number of stored entries, fresh or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// EntryStore is the persistence used by DBCache.
type EntryStore interface {
	GetCacheEntry(ctx context.Context, key string, now time.Time) ([]byte, error)
	SetCacheEntry(ctx context.Context, key string, value []byte, expiresAt time.Time) error
}

// DBCache is a ScoreCache backed by the score_cache table.
type DBCache struct {
	store EntryStore
	ttl   time.Duration
	now   func() time.Time
}

// NewDBCache creates a database backed cache. A non-positive ttl takes DefaultTTL.
func NewDBCache(store EntryStore, ttl time.Duration) *DBCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DBCache{store: store, ttl: ttl, now: time.Now}
}

// Get returns a fresh entry.
func (c *DBCache) Get(ctx context.Context, key string) (*types.ATSScoreResponse, error) {
	data, err := c.store.GetCacheEntry(ctx, key, c.now())
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return decode(data)
}

// Set stores value until the TTL elapses.
func (c *DBCache) Set(ctx context.Context, key string, value *types.ATSScoreResponse) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cached score: %w", err)
	}
	return c.store.SetCacheEntry(ctx, key, data, c.now().Add(c.ttl))
}

func decode(data []byte) (*types.ATSScoreResponse, error) {
	var resp types.ATSScoreResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode cached score: %w", err)
	}
	return &resp, nil
}
