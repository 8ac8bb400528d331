package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/banodoco/Reigh-sub009/internal/pkg/config"
)

var (
	client *redis.Client
	ctx    = context.Background()
	log    *zap.Logger
)

// Init initializes the Redis client
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "",
		DB:       cfg.Redis.DB,
	})

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		return err
	}

	log = zap.L().With(zap.String("component", "redis"))
	log.Info("Redis connected successfully",
		zap.String("addr", cfg.GetRedisAddr()))

	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// CountRequest increments a fixed-window request counter and returns the
// count within the current window. The window key expires on first hit.
func CountRequest(key string, window time.Duration) (int, error) {
	if client == nil {
		return 0, fmt.Errorf("redis client not initialized")
	}

	// Lua script: atomically increment and set expiry on the first request
	countScript := redis.NewScript(`
		local current = redis.call('INCR', KEYS[1])
		if current == 1 then
			redis.call('EXPIRE', KEYS[1], ARGV[1])
		end
		return current
	`)

	result, err := countScript.Run(ctx, client, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return 0, err
	}

	count, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result type")
	}

	return int(count), nil
}

// Delete deletes a key from Redis
func Delete(key string) error {
	if client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	return client.Del(ctx, key).Err()
}
