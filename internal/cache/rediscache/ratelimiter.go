package rediscache

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	c *redis.Client
}

func NewRateLimiter(addr string) *RateLimiter {
	return &RateLimiter{
		c: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Allow делает INCR по ключу и ставит TTL окна.
// Возвращает (allowed, currentCount).
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	pipe := rl.c.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, errors.Wrap(err, "redis ratelimit")
	}
	n := incr.Val()
	return n <= limit, n, nil
}

// AllowPerMinute считает запросы в окне календарной минуты: rl:<scope>:<subject>:<yyyymmddhhmm>.
func (rl *RateLimiter) AllowPerMinute(ctx context.Context, scope, subject string, limit int64, now time.Time) (bool, int64, error) {
	key := MinuteKey(scope, subject, now)
	// чуть больше минуты, чтобы ключ не исчез раньше конца окна
	return rl.Allow(ctx, key, limit, 70*time.Second)
}

func MinuteKey(scope, subject string, now time.Time) string {
	return fmt.Sprintf("rl:%s:%s:%s", scope, subject, now.UTC().Format("200601021504"))
}

func (rl *RateLimiter) Close() error {
	return rl.c.Close()
}
