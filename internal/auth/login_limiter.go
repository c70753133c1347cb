package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginLimiter throttles repeated failed logins per email.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) bool
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

// LimiterStore is the subset of the redis client the limiter needs.
type LimiterStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLoginLimiter counts failures in a fixed window. Redis being
// unavailable never blocks a login; the error is logged and the attempt allowed.
type RedisLoginLimiter struct {
	store       LimiterStore
	maxAttempts int
	window      time.Duration
	logger      *zap.Logger
}

// NewRedisLoginLimiter builds a limiter. maxAttempts <= 0 disables throttling.
func NewRedisLoginLimiter(store LimiterStore, maxAttempts int, window time.Duration, logger *zap.Logger) *RedisLoginLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLoginLimiter{store: store, maxAttempts: maxAttempts, window: window, logger: logger}
}

func limiterKey(email string) string {
	return "login_failures:" + strings.ToLower(strings.TrimSpace(email))
}

// Allow reports whether another attempt for email may proceed.
func (l *RedisLoginLimiter) Allow(ctx context.Context, email string) bool {
	if l.maxAttempts <= 0 || l.store == nil {
		return true
	}
	count, err := l.store.Get(ctx, limiterKey(email)).Int()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			l.logger.Warn("login limiter unavailable", zap.Error(err))
		}
		return true
	}
	return count < l.maxAttempts
}

// RecordFailure counts a failed attempt and opens the window on the first one.
func (l *RedisLoginLimiter) RecordFailure(ctx context.Context, email string) {
	if l.maxAttempts <= 0 || l.store == nil {
		return
	}
	key := limiterKey(email)
	count, err := l.store.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter incr failed", zap.Error(err))
		return
	}
	if count == 1 {
		if err := l.store.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("login limiter expire failed", zap.Error(err))
		}
	}
}

// Reset clears the failure counter after a successful login.
func (l *RedisLoginLimiter) Reset(ctx context.Context, email string) {
	if l.maxAttempts <= 0 || l.store == nil {
		return
	}
	if err := l.store.Del(ctx, limiterKey(email)).Err(); err != nil {
		l.logger.Warn("login limiter reset failed", zap.Error(err))
	}
}
