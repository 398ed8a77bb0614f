package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultLockout     = 15 * time.Minute
)

// LoginLimiter counts login attempts per email in Redis.
// Key format: login:fail:<sha256(email)>
// The window starts at the first attempt and lasts lockout; later attempts
// never extend it. A successful login deletes the key.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	lockout     time.Duration
}

// NewLoginLimiter creates a LoginLimiter. Non-positive values fall back to
// 5 attempts per 15 minutes.
func NewLoginLimiter(client *redis.Client, maxAttempts int, lockout time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if lockout <= 0 {
		lockout = defaultLockout
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), lockout: lockout}
}

// Attempt increments the counter for email and reports whether the attempt
// is within maxAttempts. INCR and EXPIRE NX run in one MULTI so concurrent
// callers each get a distinct count.
func (l *LoginLimiter) Attempt(ctx context.Context, email string) (bool, error) {
	key := l.key(email)
	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.lockout)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("login limiter attempt: %w", err)
	}
	return count.Val() <= l.maxAttempts, nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginLimiter) key(email string) string {
	sum := sha256.Sum256([]byte(email))
	return "login:fail:" + hex.EncodeToString(sum[:])
}
