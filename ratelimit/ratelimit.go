// Package ratelimit bounds outbound calls to at most a fixed count within
// any rolling time window.
//
// The limiter is an owned, instantiable object: call sites that must share
// a budget share one *Limiter by explicit composition, and independent call
// sites hold independent ones. There is no package-level state.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultWindow is the rolling window the pricing service meters against.
const DefaultWindow = time.Minute

// margin added to each computed wait so a grant never lands a hair inside
// the window it is supposed to have left.
const margin = 50 * time.Millisecond

// Limiter grants at most max calls within any rolling window. For any
// real-time window of the configured length, the number of completed
// Acquire calls never exceeds max, regardless of the caller's burstiness.
type Limiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	grants []time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a limiter granting at most max calls per rolling minute.
func New(max int) *Limiter { return NewWindow(max, DefaultWindow) }

// NewWindow returns a limiter granting at most max calls per rolling window.
func NewWindow(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Acquire blocks until a slot is available within the rolling window, or
// until the context is done. On success the grant is recorded and counts
// against subsequent calls for one window length.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)
		if len(l.grants) < l.max {
			l.grants = append(l.grants, now)
			l.mu.Unlock()
			return nil
		}
		// At capacity: wait until the oldest grant ages out of the window.
		wait := l.grants[0].Add(l.window).Sub(now) + margin
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// prune discards grants older than the window. Callers hold the lock.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.grants) && !l.grants[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.grants = append(l.grants[:0], l.grants[i:]...)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
