package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock advances only when the limiter sleeps, so the tests run in
// simulated time.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) install(l *Limiter) {
	l.now = func() time.Time { return c.now }
	l.sleep = func(_ context.Context, d time.Duration) error {
		c.sleeps = append(c.sleeps, d)
		c.now = c.now.Add(d)
		return nil
	}
}

func TestAcquireUnderCapacityNeverSleeps(t *testing.T) {
	l := New(3)
	clock := &fakeClock{now: time.Unix(0, 0)}
	clock.install(l)

	for i := 0; i < 3; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if len(clock.sleeps) != 0 {
		t.Errorf("acquired under capacity but slept: %v", clock.sleeps)
	}
}

func TestAcquireBlocksAtCapacity(t *testing.T) {
	l := New(2)
	clock := &fakeClock{now: time.Unix(0, 0)}
	clock.install(l)

	for i := 0; i < 2; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	// Third call must wait for the first grant to leave the window.
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(clock.sleeps) == 0 {
		t.Fatal("third acquire should have slept")
	}
	if got := clock.sleeps[0]; got < DefaultWindow || got > DefaultWindow+time.Second {
		t.Errorf("slept %v, want about the window length", got)
	}
}

func TestWindowBoundHolds(t *testing.T) {
	// Whatever the arrival pattern, no rolling window of the configured
	// length may contain more than max grants.
	const max = 5
	window := 10 * time.Second

	l := NewWindow(max, window)
	clock := &fakeClock{now: time.Unix(0, 0)}
	clock.install(l)

	var grants []time.Time
	for i := 0; i < 40; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
		grants = append(grants, clock.now)
		// A bursty caller: no pause between calls.
	}

	for i := range grants {
		count := 1
		for j := i + 1; j < len(grants); j++ {
			if grants[j].Sub(grants[i]) < window {
				count++
			}
		}
		if count > max {
			t.Fatalf("window starting at grant %d holds %d grants, max is %d", i, count, max)
		}
	}
}

func TestStaggeredArrivalsRespectTheBound(t *testing.T) {
	const max = 3
	window := 9 * time.Second

	l := NewWindow(max, window)
	clock := &fakeClock{now: time.Unix(0, 0)}
	l.now = func() time.Time { return clock.now }
	l.sleep = func(_ context.Context, d time.Duration) error {
		clock.now = clock.now.Add(d)
		return nil
	}

	var grants []time.Time
	for i := 0; i < 12; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
		grants = append(grants, clock.now)
		// Arrivals trickle in every 2s, slower than the refill at first,
		// then the backlog forces waiting.
		clock.now = clock.now.Add(2 * time.Second)
	}

	for i := range grants {
		count := 1
		for j := i + 1; j < len(grants); j++ {
			if grants[j].Sub(grants[i]) < window {
				count++
			}
		}
		if count > max {
			t.Fatalf("window starting at grant %d holds %d grants, max is %d", i, count, max)
		}
	}
}

func TestAcquireHonorsContext(t *testing.T) {
	l := New(1)
	clock := &fakeClock{now: time.Unix(0, 0)}
	l.now = func() time.Time { return clock.now }
	l.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire on a cancelled context = %v, want context.Canceled", err)
	}
}
