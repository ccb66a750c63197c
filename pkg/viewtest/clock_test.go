package viewtest

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	elapsed := clk.Now().Sub(start)

	if elapsed != 100*time.Millisecond {
		t.Errorf("expected 100ms elapsed, got %v", elapsed)
	}
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	clk.Set(target)
	if !clk.Now().Equal(target) {
		t.Errorf("expected %v, got %v", target, clk.Now())
	}
}

func TestFakeClock_AfterFuncOrder(t *testing.T) {
	clk := NewFakeClock()
	var fired []string
	clk.AfterFunc(30*time.Millisecond, func() { fired = append(fired, "c") })
	clk.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "a") })
	clk.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "b") })

	clk.Advance(20 * time.Millisecond)
	if diff := cmp.Diff([]string{"a", "b"}, fired); diff != "" {
		t.Errorf("fired mismatch (-want +got):\n%s", diff)
	}
	if clk.Pending() != 1 {
		t.Errorf("expected 1 pending timer, got %d", clk.Pending())
	}

	clk.Advance(10 * time.Millisecond)
	if diff := cmp.Diff([]string{"a", "b", "c"}, fired); diff != "" {
		t.Errorf("fired mismatch (-want +got):\n%s", diff)
	}
}

func TestFakeClock_AfterFuncStop(t *testing.T) {
	clk := NewFakeClock()
	ran := false
	stop := clk.AfterFunc(time.Millisecond, func() { ran = true })
	stop()

	clk.Advance(time.Second)
	if ran {
		t.Error("stopped timer ran")
	}
	if clk.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", clk.Pending())
	}
}

func TestFakeClock_TimerSchedulesTimer(t *testing.T) {
	clk := NewFakeClock()
	count := 0
	clk.AfterFunc(time.Millisecond, func() {
		count++
		clk.AfterFunc(0, func() { count++ })
	})

	clk.Advance(time.Millisecond)
	if count != 2 {
		t.Errorf("expected both timers to run, got %d", count)
	}
}
