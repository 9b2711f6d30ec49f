package config

import (
	"Tombola/services/redis"
	"Tombola/utils/logger"
)

// Connect_redis connects to the room directory mirror.
func Connect_redis(cfg RedisConfig) (*redis.RedisClient, error) {
	redisClient, err := redis.InitRedis(cfg.URL, 0, cfg.TTL)
	if err != nil {
		return nil, err
	}
	logger.Info("[REDIS] connection established")
	return redisClient, nil
}
