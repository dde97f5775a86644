// Package tenantlock serializes catalog imports per tenant.
//
// Imports for one tenant race on the same upsert keys, so at most one may run
// at a time. Local serializes within a process; Redis serializes across
// replicas sharing a Redis instance.
package tenantlock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned when another import holds the tenant's lock for longer
// than the configured wait.
var ErrBusy = errors.New("import already running for tenant")

// ReleaseFunc releases an acquired lock. Calling it more than once is a no-op.
type ReleaseFunc func()

// Locker acquires the per-tenant import lock.
type Locker interface {
	Acquire(ctx context.Context, tenantID string) (ReleaseFunc, error)
}

// Local is an in-process Locker.
type Local struct {
	wait time.Duration

	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocal returns a Local that waits up to wait for a busy tenant.
// A non-positive wait fails immediately when the tenant is busy.
func NewLocal(wait time.Duration) *Local {
	return &Local{
		wait:  wait,
		slots: make(map[string]chan struct{}),
	}
}

func (l *Local) slot(tenantID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[tenantID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[tenantID] = ch
	}
	return ch
}

// Acquire implements Locker.
func (l *Local) Acquire(ctx context.Context, tenantID string) (ReleaseFunc, error) {
	ch := l.slot(tenantID)
	release := onceRelease(func() { <-ch })

	if l.wait <= 0 {
		select {
		case ch <- struct{}{}:
			return release, nil
		default:
			return nil, ErrBusy
		}
	}

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return release, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrBusy
	}
}

func onceRelease(fn func()) ReleaseFunc {
	var once sync.Once
	return func() { once.Do(fn) }
}
