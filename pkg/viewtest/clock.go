package viewtest

import (
	"slices"
	"sync"
	"time"
)

// FakeClock provides controllable time for deterministic tests. It also
// implements view.Timers: callbacks scheduled with AfterFunc run inside
// Advance and Set, in due order, on the caller's goroutine.
// All methods are safe for concurrent use.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	seq    int
}

type fakeTimer struct {
	at   time.Time
	seq  int
	fn   func()
	dead bool
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and runs the timers that came due.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	c.fire()
}

// Set sets the clock to an exact time and runs the timers that came due.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
	c.fire()
}

// AfterFunc schedules fn to run once the clock has advanced by d.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) (stop func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	ft := &fakeTimer{at: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers = append(c.timers, ft)
	return func() {
		c.mu.Lock()
		ft.dead = true
		c.mu.Unlock()
	}
}

// Pending returns the number of scheduled timers that have not run.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, ft := range c.timers {
		if !ft.dead {
			count++
		}
	}
	return count
}

func (c *FakeClock) fire() {
	for {
		c.mu.Lock()
		c.timers = slices.DeleteFunc(c.timers, func(ft *fakeTimer) bool { return ft.dead })
		var next *fakeTimer
		for _, ft := range c.timers {
			if ft.at.After(c.now) {
				continue
			}
			if next == nil || ft.at.Before(next.at) || (ft.at.Equal(next.at) && ft.seq < next.seq) {
				next = ft
			}
		}
		if next == nil {
			c.mu.Unlock()
			return
		}
		next.dead = true
		c.mu.Unlock()
		next.fn()
	}
}
