// Package animation provides the frame-driven timing primitives behind view
// transitions and layout animations.
//
// A [Scheduler] owns a set of [Ticker] values and advances them once per
// frame from Step. A [Controller] drives a value from 0 to 1 over a duration
// on top of a ticker, reshaped by an easing [Curve].
//
//	sched := animation.NewScheduler(nil)
//	ctrl := animation.NewController(sched, 200*time.Millisecond)
//	ctrl.Curve = animation.EaseInOut
//	ctrl.AddListener(func() { apply(ctrl.Value) })
//	ctrl.Forward()
//	// once per frame:
//	sched.Step()
//
// Schedulers are not tied to a goroutine, but Step and the ticker callbacks
// are expected to run on the single loop that owns the view tree.
package animation

import (
	"sync"
	"time"
)

// Scheduler advances tickers once per frame.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	tickers []*Ticker
}

// NewScheduler creates a scheduler reading time from clock. A nil clock uses
// the system clock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// NewTicker creates an inactive ticker bound to s.
func (s *Scheduler) NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{sched: s, callback: callback}
}

// Step calls every active ticker with its elapsed time. Tickers started
// during Step run from the next Step. It returns the number of tickers
// called.
func (s *Scheduler) Step() int {
	s.mu.Lock()
	if len(s.tickers) == 0 {
		s.mu.Unlock()
		return 0
	}
	batch := make([]*Ticker, len(s.tickers))
	copy(batch, s.tickers)
	s.mu.Unlock()

	now := s.clock.Now()
	n := 0
	for _, t := range batch {
		if !t.active || t.callback == nil {
			continue
		}
		n++
		t.callback(now.Sub(t.start))
	}
	return n
}

// Active reports whether any ticker is running.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickers) > 0
}

func (s *Scheduler) add(t *Ticker) {
	s.mu.Lock()
	s.tickers = append(s.tickers, t)
	s.mu.Unlock()
}

func (s *Scheduler) remove(t *Ticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.tickers {
		if other == t {
			s.tickers = append(s.tickers[:i], s.tickers[i+1:]...)
			return
		}
	}
}

// Ticker calls a callback on each scheduler step while active.
type Ticker struct {
	sched    *Scheduler
	callback func(elapsed time.Duration)
	active   bool
	start    time.Time
}

// Start activates the ticker. Elapsed time is measured from this call.
func (t *Ticker) Start() {
	if t.active {
		return
	}
	t.active = true
	t.start = t.sched.Now()
	t.sched.add(t)
}

// Stop deactivates the ticker.
func (t *Ticker) Stop() {
	if !t.active {
		return
	}
	t.active = false
	t.sched.remove(t)
}

// IsActive reports whether the ticker is running.
func (t *Ticker) IsActive() bool {
	return t.active
}
