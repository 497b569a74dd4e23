package ratelimit

import (
	"context"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitInfo captures limiter response metadata.
type RateLimitInfo struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter defines common interface.
type Limiter interface {
	Allow(ctx context.Context, key string) (RateLimitInfo, error)
}

// MemoryLimiter keeps one token bucket per key. Buckets idle long enough to
// have refilled completely are swept, so the key space stays bounded by
// recent traffic.
type MemoryLimiter struct {
	limit     int
	burst     int
	idle      time.Duration
	now       func() time.Time
	store     map[string]*bucket
	lastSweep time.Time
	mu        sync.Mutex
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter builds RAM limiter refilling limit tokens per minute.
func NewMemoryLimiter(limit, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		limit: limit,
		burst: burst,
		idle:  refillTime(limit, burst),
		now:   time.Now,
		store: make(map[string]*bucket),
	}
}

// refillTime is how long an empty bucket takes to fill up again.
func refillTime(limit, burst int) time.Duration {
	if limit <= 0 {
		return time.Minute
	}
	d := time.Duration(limit+burst) * time.Minute / time.Duration(limit)
	if d < time.Minute {
		return time.Minute
	}
	return d
}

// Allow implements limiter.
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (RateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	b, ok := m.store[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(float64(m.limit)/60), m.limit+m.burst)}
		m.store[key] = b
	}
	b.lastSeen = now
	reset := now.Add(time.Minute)
	if !b.limiter.AllowN(now, 1) {
		return RateLimitInfo{Allowed: false, Limit: m.limit, Remaining: 0, Reset: reset}, nil
	}
	remaining := int(b.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	if remaining > m.limit {
		remaining = m.limit
	}
	return RateLimitInfo{Allowed: true, Limit: m.limit, Remaining: remaining, Reset: reset}, nil
}

// sweep drops idle buckets at most once per idle period. Caller holds mu.
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.idle {
		return
	}
	m.lastSweep = now
	for key, b := range m.store {
		if now.Sub(b.lastSeen) >= m.idle {
			delete(m.store, key)
		}
	}
}

// RedisLimiter coordinates distributed throttling with a fixed one minute window.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	prefix string
}

// NewRedisLimiter builds redis limiter.
func NewRedisLimiter(client *redis.Client, limit int, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, prefix: prefix}
}

// Allow implements limiter.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (RateLimitInfo, error) {
	redisKey := r.prefix + ":" + key
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, time.Minute)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateLimitInfo{}, err
	}
	reset := time.Now().Add(time.Minute)
	if d := ttl.Val(); d > 0 {
		reset = time.Now().Add(d)
	}
	used := int(incr.Val())
	if used > r.limit {
		return RateLimitInfo{Allowed: false, Limit: r.limit, Remaining: 0, Reset: reset}, nil
	}
	return RateLimitInfo{Allowed: true, Limit: r.limit, Remaining: r.limit - used, Reset: reset}, nil
}
