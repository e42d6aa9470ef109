package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotKey is the Redis key of the active catalog snapshot.
const SnapshotKey = "smartmatch:catalog:active"

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// RedisSnapshots stores the catalog snapshot under a single key.
type RedisSnapshots struct {
	client redis.Cmdable
	key    string
}

// NewRedisSnapshots returns a SnapshotStore backed by client.
func NewRedisSnapshots(client redis.Cmdable) *RedisSnapshots {
	return &RedisSnapshots{client: client, key: SnapshotKey}
}

func (r *RedisSnapshots) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}
	return data, true, nil
}

func (r *RedisSnapshots) Save(ctx context.Context, data []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write catalog snapshot: %w", err)
	}
	return nil
}

func (r *RedisSnapshots) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete catalog snapshot: %w", err)
	}
	return nil
}
