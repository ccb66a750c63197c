package view_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/lifecycle"
	"github.com/go-drift/viewtree/pkg/view"
)

func TestAnimate(t *testing.T) {
	f := newFixture(t)
	n := f.node("N", view.Options{})
	f.mount(t, n)

	var done []bool
	target := layout.Layout{Left: 100}
	if !f.Tree.Animate(n, target, layout.KeyLeft, 160*time.Millisecond, nil, func(finished bool) {
		done = append(done, finished)
	}) {
		t.Fatal("Animate failed")
	}
	if got := f.Tree.State(n); got != lifecycle.AttachedShownAnimating {
		t.Fatalf("expected ATTACHED_SHOWN_ANIMATING, got %s", got)
	}

	f.Pump(80 * time.Millisecond)
	if got := f.Tree.Layout(n).Left; got != 50 {
		t.Errorf("expected left 50 halfway, got %v", got)
	}
	if !f.PumpAndSettle(time.Second) {
		t.Fatal("animation did not settle")
	}
	if got := f.Tree.Layout(n); got.Left != 100 || got.Opacity != 1 {
		t.Errorf("unexpected final layout %+v", got)
	}
	if got := f.Tree.State(n); got != lifecycle.AttachedShown {
		t.Errorf("expected ATTACHED_SHOWN, got %s", got)
	}
	if diff := cmp.Diff([]bool{true}, done); diff != "" {
		t.Errorf("done mismatch (-want +got):\n%s", diff)
	}
	snap, _ := f.Renderer.Lookup(f.Tree.Layer(n))
	if snap.Layout.Left != 100 {
		t.Errorf("renderer saw left %v", snap.Layout.Left)
	}
}

func TestCancelAnimation(t *testing.T) {
	tests := []struct {
		mode view.CancelMode
		want float64
	}{
		{view.LayoutCurrent, 50},
		{view.LayoutEnd, 100},
	}
	for _, tt := range tests {
		f := newFixture(t)
		n := f.node("N", view.Options{})
		f.mount(t, n)

		var done []bool
		f.Tree.Animate(n, layout.Layout{Left: 100}, layout.KeyLeft, 160*time.Millisecond, nil, func(finished bool) {
			done = append(done, finished)
		})
		f.Pump(80 * time.Millisecond)
		f.Tree.CancelAnimation(n, tt.mode)

		if got := f.Tree.Layout(n).Left; got != tt.want {
			t.Errorf("mode %d: expected left %v, got %v", tt.mode, tt.want, got)
		}
		if got := f.Tree.State(n); got != lifecycle.AttachedShown {
			t.Errorf("mode %d: expected ATTACHED_SHOWN, got %s", tt.mode, got)
		}
		if diff := cmp.Diff([]bool{false}, done); diff != "" {
			t.Errorf("mode %d: done mismatch (-want +got):\n%s", tt.mode, diff)
		}
		if f.Sched.Active() {
			t.Errorf("mode %d: ticker still running", tt.mode)
		}
	}
}

func TestHideWhileAnimating(t *testing.T) {
	f := newFixture(t)
	n := f.node("N", view.Options{})
	f.mount(t, n)
	f.Tree.Animate(n, layout.Layout{Left: 100}, layout.KeyLeft, time.Second, nil, nil)

	f.Tree.Hide(n)
	if got := f.Tree.State(n); got != lifecycle.AttachedHidden {
		t.Errorf("expected ATTACHED_HIDDEN, got %s", got)
	}
	if got := f.Tree.Layout(n).Left; got != 100 {
		t.Errorf("expected the animation to jump to its end, got left %v", got)
	}
	if f.Tree.Animating(n) {
		t.Error("animation still running")
	}
}

func TestAnimateSupersedes(t *testing.T) {
	f := newFixture(t)
	n := f.node("N", view.Options{})
	f.mount(t, n)

	var first []bool
	f.Tree.Animate(n, layout.Layout{Left: 100}, layout.KeyLeft, 160*time.Millisecond, nil, func(finished bool) {
		first = append(first, finished)
	})
	f.Pump(80 * time.Millisecond)
	f.Tree.Animate(n, layout.Layout{Top: 10}, layout.KeyTop, 0, nil, nil)

	if diff := cmp.Diff([]bool{false}, first); diff != "" {
		t.Errorf("first done mismatch (-want +got):\n%s", diff)
	}
	got := f.Tree.Layout(n)
	if got.Left != 50 || got.Top != 10 {
		t.Errorf("unexpected layout %+v", got)
	}
	if s := f.Tree.State(n); s != lifecycle.AttachedShown {
		t.Errorf("expected ATTACHED_SHOWN, got %s", s)
	}
}

func TestDetachWhileAnimating(t *testing.T) {
	f := newFixture(t)
	n := f.node("N", view.Options{})
	f.mount(t, n)
	f.Tree.Animate(n, layout.Layout{Left: 100}, layout.KeyLeft, time.Second, nil, nil)

	f.Tree.Detach(n, false)
	if got := f.Tree.State(n); got != lifecycle.Unattached {
		t.Errorf("expected UNATTACHED, got %s", got)
	}
	if f.Sched.Active() {
		t.Error("ticker still running")
	}
}
