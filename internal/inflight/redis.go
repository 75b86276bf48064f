package inflight

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces guard keys in a shared Redis database.
const keyPrefix = "inflight:"

// RedisGuard is a Guard backed by Redis keys with expiry.
// Acquire is SETNX with a lease; ReleaseAfter shortens the key's TTL to the
// release delay, so Redis itself performs the timed release.
type RedisGuard struct {
	client *redis.Client
	lease  time.Duration
}

// NewRedisGuard returns a RedisGuard. lease bounds how long a key stays held
// if the holder never releases it (e.g. the process dies mid-operation).
func NewRedisGuard(client *redis.Client, lease time.Duration) *RedisGuard {
	return &RedisGuard{client: client, lease: lease}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, "1", g.lease).Result()
	if err != nil {
		return false, fmt.Errorf("inflight.RedisGuard.Acquire: %w", err)
	}
	return ok, nil
}

func (g *RedisGuard) ReleaseAfter(ctx context.Context, key string, delay time.Duration) error {
	if delay <= 0 {
		if err := g.client.Del(ctx, keyPrefix+key).Err(); err != nil {
			return fmt.Errorf("inflight.RedisGuard.ReleaseAfter: %w", err)
		}
		return nil
	}
	// PEXPIRE on a missing key returns false and changes nothing.
	if err := g.client.PExpire(ctx, keyPrefix+key, delay).Err(); err != nil {
		return fmt.Errorf("inflight.RedisGuard.ReleaseAfter: %w", err)
	}
	return nil
}

func (g *RedisGuard) Held(ctx context.Context, key string) (bool, error) {
	n, err := g.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("inflight.RedisGuard.Held: %w", err)
	}
	return n == 1, nil
}

// OpenRedis parses a redis:// URL, connects, and verifies the server answers PING.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("inflight.OpenRedis: parse url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("inflight.OpenRedis: ping: %w", err)
	}
	return client, nil
}

var _ Guard = (*RedisGuard)(nil)
