package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginLimiter counts failed logins per email in a fixed window.
// Key format: login:fail:<email>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter returns a limiter that blocks an email after maxAttempts
// failures until window has passed since the first of them.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allow reports whether another attempt is permitted. When it is not, the
// returned duration is the time left in the current window.
func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, time.Duration, error) {
	n, err := l.client.Get(ctx, l.key(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("login limiter get: %w", err)
	}
	if n < l.maxAttempts {
		return true, 0, nil
	}

	ttl, err := l.client.TTL(ctx, l.key(email)).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// Fail records a failed attempt. The window starts with the first failure.
func (l *LoginLimiter) Fail(ctx context.Context, email string) error {
	key := l.key(email)
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, key)
		p.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	return nil
}

// Reset clears the failure count after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginLimiter) key(email string) string {
	return "login:fail:" + email
}
