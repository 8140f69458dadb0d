// Package lock provides distributed locks backed by Redis.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/budget-tracker/backend/internal/application/adapter"
)

// releaseScript deletes the key only when it still holds the owner's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements adapter.Locker with SET NX PX.
type RedisLocker struct {
	client redis.UniversalClient
}

// NewRedisLocker creates a new Redis-backed locker.
func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: client}
}

// TryAcquire attempts to take the lock without waiting.
func (l *RedisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (adapter.Lock, bool, error) {
	token, err := newToken()
	if err != nil {
		return nil, false, err
	}

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	return &redisLock{client: l.client, key: key, token: token}, true, nil
}

type redisLock struct {
	client redis.UniversalClient
	key    string
	token  string
}

// Release frees the lock unless it expired and was taken by someone else.
func (l *redisLock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return nil
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewRedisClient parses a redis:// URL and returns a connected client.
func NewRedisClient(ctx context.Context, url, password string, db int) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
