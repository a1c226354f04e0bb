package locker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type localLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

// NewLocalLocker serialises keys inside this process. A zero wait blocks until ctx is done.
func NewLocalLocker(wait time.Duration) Locker {
	return &localLocker{
		slots: map[string]chan struct{}{},
		wait:  wait,
	}
}

func (l *localLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}

	return ch
}

func (l *localLocker) Obtain(ctx context.Context, key string) (Lock, error) {
	ch := l.slot(key)

	if l.wait > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case ch <- struct{}{}:
		return &localLock{slot: ch}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrNotObtained, key, ctx.Err())
	}
}

type localLock struct {
	once sync.Once
	slot chan struct{}
}

func (l *localLock) Release(_ context.Context) error {
	l.once.Do(func() { <-l.slot })

	return nil
}
