package cache

import (
	"context"
	"fmt"
	"time"

	"storeadmin/internal/usecase"

	"github.com/redis/go-redis/v9"
)

// webhookイベントの重複排除（SETNX）
type RedisDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDeduper(rdb *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{rdb: rdb, ttl: ttl}
}

// REDIS_URLからクライアントを作る
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// 初回ならfalse（キーを置く）
func (d *RedisDeduper) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, key, "1", d.ttl).Result()
	if err != nil {
		return false, err
	}

	return !ok, nil
}

func (d *RedisDeduper) Forget(ctx context.Context, key string) error {
	return d.rdb.Del(ctx, key).Err()
}

var _ usecase.EventDeduper = (*RedisDeduper)(nil)
