package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LinkGuard enforces the one-time-link policy: a session key shared through a
// public link is claimed by the first client context that uses it, and any
// other client presenting the same key is given a fresh session instead.
type LinkGuard interface {
	// Claim returns true when clientID owns (or just acquired) the key.
	Claim(ctx context.Context, sessionKey, clientID string) (bool, error)
}

type RedisLinkGuard struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisLinkGuard(client *redis.Client, ttl time.Duration) *RedisLinkGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisLinkGuard{Client: client, TTL: ttl}
}

func (g *RedisLinkGuard) key(sessionKey string) string {
	return "session_claim:" + sessionKey
}

func (g *RedisLinkGuard) Claim(ctx context.Context, sessionKey, clientID string) (bool, error) {
	ok, err := g.Client.SetNX(ctx, g.key(sessionKey), clientID, g.TTL).Result()
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	owner, err := g.Client.Get(ctx, g.key(sessionKey)).Result()
	if err != nil {
		return false, err
	}
	return owner == clientID, nil
}

// MemoryLinkGuard is the in-process fallback used when REDIS_ADDR is unset
// (single instance deployments and tests).
type MemoryLinkGuard struct {
	mu     sync.Mutex
	owners map[string]string
}

func NewMemoryLinkGuard() *MemoryLinkGuard {
	return &MemoryLinkGuard{owners: make(map[string]string)}
}

func (g *MemoryLinkGuard) Claim(_ context.Context, sessionKey, clientID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	owner, ok := g.owners[sessionKey]
	if !ok {
		g.owners[sessionKey] = clientID
		return true, nil
	}
	return owner == clientID, nil
}
