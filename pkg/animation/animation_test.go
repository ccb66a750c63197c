package animation

import (
	"math"
	"sync"
	"testing"
	"time"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestControllerRunsToCompletion(t *testing.T) {
	clk := newStepClock()
	sched := NewScheduler(clk)
	c := NewController(sched, 100*time.Millisecond)

	var statuses []Status
	c.AddStatusListener(func(s Status) { statuses = append(statuses, s) })
	ticks := 0
	c.AddListener(func() { ticks++ })

	c.Forward()
	if !c.IsAnimating() {
		t.Fatal("expected controller to be animating after Forward")
	}

	clk.advance(50 * time.Millisecond)
	sched.Step()
	if math.Abs(c.Value-0.5) > 1e-9 {
		t.Errorf("Value at half time = %v, want 0.5", c.Value)
	}

	clk.advance(60 * time.Millisecond)
	sched.Step()
	if c.Value != 1 {
		t.Errorf("Value after duration = %v, want 1", c.Value)
	}
	if c.IsAnimating() {
		t.Error("controller should stop once complete")
	}
	if sched.Active() {
		t.Error("scheduler should have no active tickers")
	}
	if len(statuses) != 2 || statuses[0] != Forward || statuses[1] != Completed {
		t.Errorf("statuses = %v, want [forward completed]", statuses)
	}
	if ticks != 2 {
		t.Errorf("listener ticks = %d, want 2", ticks)
	}
}

func TestControllerZeroDurationCompletesSynchronously(t *testing.T) {
	sched := NewScheduler(newStepClock())
	c := NewController(sched, 0)
	c.Forward()
	if c.Value != 1 || c.Status() != Completed {
		t.Errorf("Value=%v Status=%s, want 1 completed", c.Value, c.Status())
	}
	if sched.Active() {
		t.Error("zero-duration run should not start a ticker")
	}
}

func TestControllerStopKeepsValue(t *testing.T) {
	clk := newStepClock()
	sched := NewScheduler(clk)
	c := NewController(sched, 100*time.Millisecond)
	c.Forward()
	clk.advance(25 * time.Millisecond)
	sched.Step()
	c.Stop()
	if c.Status() != Forward {
		t.Errorf("Stop changed status to %s", c.Status())
	}
	if math.Abs(c.Value-0.25) > 1e-9 {
		t.Errorf("Value = %v, want 0.25", c.Value)
	}
	clk.advance(time.Second)
	if n := sched.Step(); n != 0 {
		t.Errorf("Step ran %d tickers after Stop", n)
	}
}

func TestControllerFinishSettles(t *testing.T) {
	sched := NewScheduler(newStepClock())
	c := NewController(sched, time.Second)
	c.Forward()
	c.Finish()
	if c.Value != 1 || c.Status() != Completed {
		t.Errorf("Value=%v Status=%s after Finish", c.Value, c.Status())
	}
}

func TestCurvesHitEndpoints(t *testing.T) {
	for _, name := range CurveNames() {
		c, err := CurveByName(name)
		if err != nil {
			t.Fatal(err)
		}
		if got := c(0); got != 0 {
			t.Errorf("%s(0) = %v", name, got)
		}
		if got := c(1); got != 1 {
			t.Errorf("%s(1) = %v", name, got)
		}
		prev := 0.0
		for i := 1; i <= 10; i++ {
			v := c(float64(i) / 10)
			if v+1e-6 < prev {
				t.Errorf("%s is not monotonic at %d/10", name, i)
			}
			prev = v
		}
	}
	if _, err := CurveByName("bounce"); err == nil {
		t.Error("expected error for unknown curve")
	}
}
