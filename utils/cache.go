// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"parkwise/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheClient is the generic cache client. It stays nil when Redis is not configured.
var CacheClient *redis.Client

// InitCache connects the generic Redis cache client. A failed ping is logged and leaves
// caching disabled rather than stopping the server.
func InitCache() {
	if !config.RedisEnabled() {
		GetLogger().Info("Redis not configured; QR cache and reminders disabled")
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("Failed to connect to Redis (Cache); caching disabled", zap.Error(err))
		_ = client.Close()
		return
	}
	CacheClient = client
}

// GetCacheClient returns the generic cache client, or nil when caching is disabled.
func GetCacheClient() *redis.Client {
	return CacheClient
}
