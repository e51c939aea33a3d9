package analytics

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultSessionCacheSize = 10000

type sessionEntry struct {
	token     string
	expiresAt time.Time
}

// MemorySessionCache keeps sessions in a bounded in-process LRU. Expiry is checked on read
// against the injected clock.
type MemorySessionCache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, sessionEntry]
	now     func() time.Time
}

func NewMemorySessionCache(size int, now func() time.Time) (*MemorySessionCache, error) {
	if size <= 0 {
		size = DefaultSessionCacheSize
	}
	if now == nil {
		now = time.Now
	}
	entries, err := lru.New[string, sessionEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemorySessionCache{entries: entries, now: now}, nil
}

func (c *MemorySessionCache) Claim(ctx context.Context, key string, mint func() (string, error), ttl time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if entry, ok := c.entries.Get(key); ok && now.Before(entry.expiresAt) {
		return entry.token, nil
	}
	token, err := mint()
	if err != nil {
		return "", err
	}
	c.entries.Add(key, sessionEntry{token: token, expiresAt: now.Add(ttl)})
	return token, nil
}

// Len reports how many entries are held, expired ones included.
func (c *MemorySessionCache) Len() int {
	return c.entries.Len()
}

type sessionClaimer interface {
	ClaimSession(ctx context.Context, key string, mint func() (string, error), ttl time.Duration) (string, error)
}

// RedisSessionCache shares sessions across instances; redis expires the keys.
type RedisSessionCache struct {
	client sessionClaimer
}

func NewRedisSessionCache(client sessionClaimer) (*RedisSessionCache, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisSessionCache{client: client}, nil
}

func (c *RedisSessionCache) Claim(ctx context.Context, key string, mint func() (string, error), ttl time.Duration) (string, error) {
	return c.client.ClaimSession(ctx, key, mint, ttl)
}
