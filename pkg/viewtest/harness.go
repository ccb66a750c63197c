package viewtest

import (
	"testing"
	"time"

	"github.com/go-drift/viewtree/pkg/animation"
	"github.com/go-drift/viewtree/pkg/errors"
	"github.com/go-drift/viewtree/pkg/renderer/memory"
	"github.com/go-drift/viewtree/pkg/view"
)

// FrameInterval is the clock step Pump uses per frame.
const FrameInterval = 16 * time.Millisecond

// Harness wires a view tree to an in-memory renderer and a fake clock.
// Diagnostics reported while the harness is installed are collected
// instead of logged.
type Harness struct {
	Tree     *view.Tree
	Renderer *memory.Renderer
	Clock    *FakeClock
	Sched    *animation.Scheduler

	opts        []view.TreeOption
	diags       *Diagnostics
	prevHandler errors.ErrorHandler
	prevDebug   bool
}

// NewHarness creates a harness and registers its cleanup with t.
func NewHarness(t testing.TB, opts ...view.TreeOption) *Harness {
	t.Helper()
	clk := NewFakeClock()
	sched := animation.NewScheduler(clk)
	r := memory.New()
	h := &Harness{
		Renderer: r,
		Clock:    clk,
		Sched:    sched,
		diags:    &Diagnostics{},
	}
	h.prevHandler = errors.SetHandler(h.diags)
	h.prevDebug = errors.SetDebugMode(true)
	t.Cleanup(func() {
		errors.SetHandler(h.prevHandler)
		errors.SetDebugMode(h.prevDebug)
	})
	h.opts = append([]view.TreeOption{view.WithScheduler(sched)}, opts...)
	h.Tree = view.NewTree(r, h.opts...)
	return h
}

// EnableWatchdog replaces the tree with one whose transition watchdog
// fires on the harness clock. Call it before creating nodes.
func (h *Harness) EnableWatchdog(d time.Duration) {
	h.Tree = view.NewTree(h.Renderer, append(h.opts, view.WithWatchdog(d, h.Clock))...)
}

// Diagnostics returns what was reported since the harness was created.
func (h *Harness) Diagnostics() *Diagnostics {
	return h.diags
}

// Pump advances the clock by d and steps animations once.
func (h *Harness) Pump(d time.Duration) {
	h.Clock.Advance(d)
	h.Sched.Step()
}

// PumpAndSettle pumps frames until no animation is running. It returns
// false if animations are still running after timeout of fake time.
func (h *Harness) PumpAndSettle(timeout time.Duration) bool {
	for elapsed := time.Duration(0); elapsed <= timeout; elapsed += FrameInterval {
		if !h.Sched.Active() {
			return true
		}
		h.Pump(FrameInterval)
	}
	return !h.Sched.Active()
}

// Diagnostics collects reports routed through pkg/errors.
type Diagnostics struct {
	Errors  []*errors.ViewError
	Panics  []*errors.PanicError
	Reports []*errors.Diagnostic
}

func (d *Diagnostics) HandleError(err *errors.ViewError)     { d.Errors = append(d.Errors, err) }
func (d *Diagnostics) HandlePanic(err *errors.PanicError)    { d.Panics = append(d.Panics, err) }
func (d *Diagnostics) HandleDiagnostic(r *errors.Diagnostic) { d.Reports = append(d.Reports, r) }

// Count returns the number of diagnostics of severity s.
func (d *Diagnostics) Count(s errors.Severity) int {
	count := 0
	for _, r := range d.Reports {
		if r.Severity == s {
			count++
		}
	}
	return count
}

// Reset drops everything collected so far.
func (d *Diagnostics) Reset() {
	d.Errors, d.Panics, d.Reports = nil, nil, nil
}
