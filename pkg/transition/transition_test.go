package transition_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/lifecycle"
	"github.com/go-drift/viewtree/pkg/transition"
	"github.com/go-drift/viewtree/pkg/view"
	"github.com/go-drift/viewtree/pkg/viewtest"
)

func box() layout.Layout {
	l := layout.Default()
	l.Left, l.Top, l.Width, l.Height = 10, 10, 40, 20
	return l
}

func mountWith(t *testing.T, h *viewtest.Harness, in, out view.TransitionPlugin, opts view.TransitionOptions) view.ID {
	t.Helper()
	id := h.Tree.New(view.Options{
		Name:          "N",
		Layout:        box(),
		TransitionIn:  view.Transition{Plugin: in, Options: opts},
		TransitionOut: view.Transition{Plugin: out, Options: opts},
	})
	h.Tree.Render(id)
	h.Tree.Attach(id, view.None)
	return id
}

func TestFadeIn(t *testing.T) {
	h := viewtest.NewHarness(t)
	in, out := transition.Fade()
	n := mountWith(t, h, in, out, view.TransitionOptions{Duration: 100 * time.Millisecond})

	if got := h.Tree.State(n); got != lifecycle.AttachedBuildingIn {
		t.Fatalf("expected ATTACHED_BUILDING_IN, got %s", got)
	}
	if got := h.Tree.Layout(n).Opacity; got != 0 {
		t.Errorf("expected the entry to start at opacity 0, got %v", got)
	}
	if !h.PumpAndSettle(time.Second) {
		t.Fatal("entry did not settle")
	}
	if got := h.Tree.State(n); got != lifecycle.AttachedShown {
		t.Errorf("expected ATTACHED_SHOWN, got %s", got)
	}
	if diff := cmp.Diff(box(), h.Tree.Layout(n)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestFadeOut(t *testing.T) {
	h := viewtest.NewHarness(t)
	in, out := transition.Fade()
	n := mountWith(t, h, in, out, view.TransitionOptions{Duration: 100 * time.Millisecond})
	h.PumpAndSettle(time.Second)

	h.Tree.Detach(n, false)
	if got := h.Tree.State(n); got != lifecycle.AttachedBuildingOut {
		t.Fatalf("expected ATTACHED_BUILDING_OUT, got %s", got)
	}
	h.Pump(50 * time.Millisecond)
	if got := h.Tree.Layout(n).Opacity; got <= 0 || got >= 1 {
		t.Errorf("expected opacity between 0 and 1 halfway, got %v", got)
	}
	h.PumpAndSettle(time.Second)
	if got := h.Tree.State(n); got != lifecycle.Unattached {
		t.Errorf("expected UNATTACHED, got %s", got)
	}
	if got := h.Tree.Layout(n).Opacity; got != 1 {
		t.Errorf("expected opacity restored after removal, got %v", got)
	}
}

func TestSlideDirections(t *testing.T) {
	tests := []struct {
		dir       view.Direction
		left, top float64
	}{
		{view.DirectionLeft, -30, 10},
		{view.DirectionRight, 50, 10},
		{view.DirectionUp, 10, -10},
		{view.DirectionDown, 10, 30},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			h := viewtest.NewHarness(t)
			in, out := transition.Slide()
			n := mountWith(t, h, in, out, view.TransitionOptions{Direction: tt.dir})

			got := h.Tree.Layout(n)
			if got.Left != tt.left || got.Top != tt.top {
				t.Errorf("expected start (%v, %v), got (%v, %v)", tt.left, tt.top, got.Left, got.Top)
			}
			h.PumpAndSettle(time.Second)
			if diff := cmp.Diff(box(), h.Tree.Layout(n)); diff != "" {
				t.Errorf("layout mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScaleOutInterruptsIn(t *testing.T) {
	h := viewtest.NewHarness(t)
	in, out := transition.Scale()
	n := mountWith(t, h, in, out, view.TransitionOptions{Duration: 100 * time.Millisecond})

	h.Pump(50 * time.Millisecond)
	mid := h.Tree.Layout(n).Scale
	if mid <= 0 || mid >= 1 {
		t.Fatalf("expected a partial scale, got %v", mid)
	}

	h.Tree.Detach(n, false)
	if got := h.Tree.Layout(n).Scale; got != mid {
		t.Errorf("expected the exit to continue from %v, got %v", mid, got)
	}
	h.PumpAndSettle(time.Second)
	if got := h.Tree.State(n); got != lifecycle.Unattached {
		t.Errorf("expected UNATTACHED, got %s", got)
	}
	if got := h.Tree.Layout(n).Scale; got != 1 {
		t.Errorf("expected scale restored, got %v", got)
	}
}

func TestInstant(t *testing.T) {
	h := viewtest.NewHarness(t)
	in, out, err := transition.Lookup("instant")
	if err != nil {
		t.Fatal(err)
	}
	n := mountWith(t, h, in, out, view.TransitionOptions{})
	if got := h.Tree.State(n); got != lifecycle.AttachedShown {
		t.Errorf("expected ATTACHED_SHOWN, got %s", got)
	}
	h.Tree.Detach(n, false)
	if got := h.Tree.State(n); got != lifecycle.Unattached {
		t.Errorf("expected UNATTACHED, got %s", got)
	}
}

func TestLookup(t *testing.T) {
	want := []string{"fade", "instant", "scale", "slide"}
	if diff := cmp.Diff(want, transition.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	for _, name := range want {
		in, out, err := transition.Lookup(name)
		if err != nil || in == nil || out == nil {
			t.Errorf("Lookup(%q) = %v, %v, %v", name, in, out, err)
		}
	}
	if _, _, err := transition.Lookup("wobble"); err == nil {
		t.Error("expected an error for an unknown transition")
	}
}
