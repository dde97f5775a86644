package tenantlock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	retryInterval  = 100 * time.Millisecond
	releaseTimeout = 5 * time.Second
)

// Redis is a Locker backed by redislock. The lock expires after ttl so a
// crashed replica cannot block a tenant forever.
type Redis struct {
	locker *redislock.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedis builds a Redis locker over an existing client.
func NewRedis(client redislock.RedisClient, ttl, wait time.Duration) *Redis {
	return &Redis{
		locker: redislock.New(client),
		ttl:    ttl,
		wait:   wait,
	}
}

// Dial parses a redis:// URL and checks the connection.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func lockKey(tenantID string) string {
	return fmt.Sprintf("lock:catalog-import:%s", tenantID)
}

// Acquire implements Locker.
func (r *Redis) Acquire(ctx context.Context, tenantID string) (ReleaseFunc, error) {
	opts := &redislock.Options{}
	waitCtx := ctx
	if r.wait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, r.wait)
		defer cancel()
		opts.RetryStrategy = redislock.LinearBackoff(retryInterval)
	}

	lock, err := r.locker.Obtain(waitCtx, lockKey(tenantID), r.ttl, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, redislock.ErrNotObtained) || waitCtx.Err() != nil {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("obtain tenant lock: %w", err)
	}

	return onceRelease(func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			slog.Warn("failed to release tenant lock", "tenant_id", tenantID, "error", err)
		}
	}), nil
}
