// Package locker serialises work per key, either across processes through Redis
// or within a single process.
package locker

import (
	"context"
	"errors"
	"time"

	"toolhub/config"

	"github.com/redis/go-redis/v9"
)

// ErrNotObtained is returned when the key stays held by someone else
// for longer than the configured wait.
var ErrNotObtained = errors.New("lock not obtained")

type Lock interface {
	Release(ctx context.Context) error
}

type Locker interface {
	// Obtain blocks until key is free, the wait budget is spent or ctx is done.
	Obtain(ctx context.Context, key string) (Lock, error)
}

// New picks the driver configured in LOCK_DRIVER.
func New(cfg *config.Config, client *redis.Client) Locker {
	backoff := time.Duration(cfg.Lock.RetryBackoffMS) * time.Millisecond

	if cfg.Lock.Driver == config.LockDriverLocal || client == nil {
		return NewLocalLocker(backoff * time.Duration(cfg.Lock.RetryCount))
	}

	return NewRedisLocker(client, time.Duration(cfg.Lock.TTLSeconds)*time.Second, cfg.Lock.RetryCount, backoff)
}
