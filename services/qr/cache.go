package qr

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// ImageCache stores rendered QR images by payload hash.
type ImageCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// RedisImageCache keeps rendered images in Redis for TTL.
type RedisImageCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisImageCache returns nil when client is nil so callers can pass the result
// straight to NewCodec.
func NewRedisImageCache(client *redis.Client, ttl time.Duration) ImageCache {
	if client == nil {
		return nil
	}
	return &RedisImageCache{Client: client, TTL: ttl}
}

func (r *RedisImageCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisImageCache) Set(ctx context.Context, key, value string) error {
	return r.Client.Set(ctx, key, value, r.TTL).Err()
}
