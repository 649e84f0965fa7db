package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"yatube/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// PageCache memoizes rendered pages for a fixed TTL.
// Entries are never invalidated by writes; they expire or are removed by Clear.
type PageCache struct {
	rdb *redis.Client
	mem *memoryPages
	ttl time.Duration
}

// NewPageCache returns a page cache backed by rdb. Without a client pages are
// kept in process memory, so each replica has its own copy. A zero TTL yields
// a cache that never stores anything.
func NewPageCache(rdb *redis.Client, ttl time.Duration) *PageCache {
	p := &PageCache{rdb: rdb, ttl: ttl}
	if rdb == nil {
		p.mem = &memoryPages{entries: make(map[string]memoryPage)}
	}
	return p
}

// Enabled reports whether pages are actually cached.
func (p *PageCache) Enabled() bool {
	return p != nil && p.ttl > 0
}

// PageKey builds the cache key for a page view. Pages vary by viewer,
// so anonymous and signed-in renders never mix.
func PageKey(view string, viewerID uint, uri string) string {
	return fmt.Sprintf("%s%s:u%d:%s", PageKeyPrefix, view, viewerID, uri)
}

// Get returns the cached page body for key.
func (p *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !p.Enabled() {
		return nil, false
	}
	if p.mem != nil {
		return p.mem.get(key, time.Now())
	}
	body, err := p.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			middleware.Logger.WarnContext(ctx, "page cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}
	return body, true
}

// Set stores body under key for the cache TTL.
func (p *PageCache) Set(ctx context.Context, key string, body []byte) {
	if !p.Enabled() {
		return
	}
	if p.mem != nil {
		p.mem.set(key, body, time.Now().Add(p.ttl))
		return
	}
	if err := p.rdb.Set(ctx, key, body, p.ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "page cache write failed", slog.String("error", err.Error()))
	}
}

// Clear removes every cached page.
func (p *PageCache) Clear(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	if p.mem != nil {
		p.mem.reset()
		return nil
	}
	iter := p.rdb.Scan(ctx, 0, PageKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan page cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return p.rdb.Del(ctx, keys...).Err()
}

type memoryPage struct {
	body      []byte
	expiresAt time.Time
}

// memoryPages is the process-local page store. Expired entries are dropped
// lazily on read and swept on write.
type memoryPages struct {
	mu      sync.Mutex
	entries map[string]memoryPage
}

func (m *memoryPages) get(key string, now time.Time) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !now.Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.body, true
}

func (m *memoryPages) set(key string, body []byte, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(time.Now())
	m.entries[key] = memoryPage{body: append([]byte(nil), body...), expiresAt: expiresAt}
}

func (m *memoryPages) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
}

// sweep must be called with mu held.
func (m *memoryPages) sweep(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}
