package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSummaryCache stores summaries in Redis so several API instances
// share one cache. Backend failures degrade to cache misses.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

var _ SummaryCache = (*RedisSummaryCache)(nil)

func NewRedisSummaryCache(addr, password string, db int, ttl time.Duration) (*RedisSummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisSummaryCache{client: client, ttl: ttl, prefix: "finanzas:summary:"}, nil
}

func (r *RedisSummaryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.WarnContext(ctx, "Redis cache read failed", "key", key, "error", err)
		return nil, false
	}
	return data, true
}

func (r *RedisSummaryCache) Set(ctx context.Context, key string, data []byte) {
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Redis cache write failed", "key", key, "error", err)
	}
}

func (r *RedisSummaryCache) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		slog.WarnContext(ctx, "Redis cache delete failed", "key", key, "error", err)
	}
}

func (r *RedisSummaryCache) Close() error {
	return r.client.Close()
}
