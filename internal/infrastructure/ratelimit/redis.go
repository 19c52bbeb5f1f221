package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "ratelimit:"

// RedisLimiter shares counters between instances through Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	period time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisLimiter は Redis 上の固定ウィンドウカウンタを使うリミッタを生成する。
func NewRedisLimiter(client *redis.Client, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		period: period,
		prefix: defaultKeyPrefix,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := l.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit incr: %w", err)
	}

	count := incr.Val()
	remaining := ttl.Val()
	// 新しいキー (または TTL が失われたキー) にはウィンドウ長の期限を付ける。
	if remaining <= 0 {
		if err := l.client.PExpire(ctx, redisKey, l.period).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit expire: %w", err)
		}
		remaining = l.period
	}
	return newResult(l.limit, count, l.now().Add(remaining)), nil
}
