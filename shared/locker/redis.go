package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type redisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  int
	step   time.Duration
}

// NewRedisLocker holds keys for at most ttl and polls retry times, step apart, while a key is taken.
func NewRedisLocker(client *redis.Client, ttl time.Duration, retry int, step time.Duration) Locker {
	return &redisLocker{
		client: redislock.New(client),
		ttl:    ttl,
		retry:  retry,
		step:   step,
	}
}

func (l *redisLocker) Obtain(ctx context.Context, key string) (Lock, error) {
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.step), l.retry),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		log.Warn().Str("key", key).Msg("lock is held elsewhere")

		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	return &redisLock{lock: lock}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

// Release is a no-op when the TTL already expired.
func (l *redisLock) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		log.Warn().Str("key", l.lock.Key()).Msg("lock expired before release")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.lock.Key(), err)
	}

	return nil
}
