package redis

import (
	"Tombola/utils/logger"
	"fmt"
	"time"
)

// InitRedis connects, checks the connection and drops room keys left by a
// previous process. Rooms live in memory, so those keys are stale.
func InitRedis(Addr string, DB int, ttl time.Duration) (*RedisClient, error) {
	rc, err := NewRedisClient(Addr, DB, ttl)
	if err != nil {
		return nil, err
	}

	if err := rc.client.Ping(rc.ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	keys, err := rc.scanKeys("room:*")
	if err != nil {
		return nil, err
	}
	if err := rc.CleanupKeys(keys); err != nil {
		return nil, err
	}
	logger.Infof("[REDIS] connected, %d stale room keys removed", len(keys))
	return rc, nil
}

// CloseRedis gracefully closes the Redis connection
func CloseRedis(rc *RedisClient) error {
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %w", err)
	}
	return nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %w", key, err)
		}
	}
	return nil
}

func (rc *RedisClient) scanKeys(pattern string) ([]string, error) {
	var keys []string
	iter := rc.client.Scan(rc.ctx, 0, pattern, 100).Iterator()
	for iter.Next(rc.ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", pattern, err)
	}
	return keys, nil
}
