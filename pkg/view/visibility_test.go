package view_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/viewtree/pkg/lifecycle"
	"github.com/go-drift/viewtree/pkg/view"
	"github.com/go-drift/viewtree/pkg/viewtest"
)

func TestHideAndShowCascade(t *testing.T) {
	f := newFixture(t)
	r := f.node("R", view.Options{})
	a := f.child(t, r, "A", view.Options{})
	a1 := f.child(t, a, "A1", view.Options{})
	f.mount(t, r)

	f.rec.Reset()
	if !f.Tree.Hide(r) {
		t.Fatal("Hide failed")
	}
	f.expectStates(t, map[view.ID]lifecycle.State{
		r:  lifecycle.AttachedHidden,
		a:  lifecycle.AttachedHiddenByParent,
		a1: lifecycle.AttachedHiddenByParent,
	})
	want := []string{
		"WillHideInDocument R",
		"WillHideInDocument A",
		"WillHideInDocument A1",
		"DidHideInDocument A1",
		"DidHideInDocument A",
		"DidHideInDocument R",
	}
	if diff := cmp.Diff(want, f.rec.Events); diff != "" {
		t.Errorf("hide hooks mismatch (-want +got):\n%s", diff)
	}
	f.checkInvariants(t)

	f.rec.Reset()
	if !f.Tree.Show(r) {
		t.Fatal("Show failed")
	}
	f.expectStates(t, map[view.ID]lifecycle.State{
		r:  lifecycle.AttachedShown,
		a:  lifecycle.AttachedShown,
		a1: lifecycle.AttachedShown,
	})
	want = []string{
		"WillShowInDocument R",
		"WillShowInDocument A",
		"WillShowInDocument A1",
		"DidShowInDocument A1",
		"DidShowInDocument A",
		"DidShowInDocument R",
	}
	if diff := cmp.Diff(want, f.rec.Events); diff != "" {
		t.Errorf("show hooks mismatch (-want +got):\n%s", diff)
	}
}

func TestShowAndHideAreIdempotent(t *testing.T) {
	f := newFixture(t)
	n := f.node("N", view.Options{})
	f.mount(t, n)

	f.rec.Reset()
	if f.Tree.Show(n) {
		t.Error("Show on a shown node reported a change")
	}
	f.Tree.Hide(n)
	f.rec.Reset()
	if f.Tree.Hide(n) {
		t.Error("Hide on a hidden node reported a change")
	}
	if len(f.rec.Events) != 0 {
		t.Errorf("unexpected hooks: %v", f.rec.Events)
	}
}

func TestHiddenChildStaysHidden(t *testing.T) {
	f := newFixture(t)
	r := f.node("R", view.Options{})
	a := f.child(t, r, "A", view.Options{})
	a1 := f.child(t, a, "A1", view.Options{})
	f.mount(t, r)

	f.Tree.Hide(a)
	f.Tree.Hide(r)
	f.Tree.Show(r)
	f.expectStates(t, map[view.ID]lifecycle.State{
		r:  lifecycle.AttachedShown,
		a:  lifecycle.AttachedHidden,
		a1: lifecycle.AttachedHiddenByParent,
	})
	f.checkInvariants(t)
}

func TestShowUnderHiddenParent(t *testing.T) {
	f := newFixture(t)
	r := f.node("R", view.Options{})
	a := f.child(t, r, "A", view.Options{})
	f.mount(t, r)

	f.Tree.Hide(r)
	f.Tree.Hide(a)
	if got := f.Tree.State(a); got != lifecycle.AttachedHidden {
		t.Fatalf("expected ATTACHED_HIDDEN, got %s", got)
	}
	if snap, _ := f.Renderer.Lookup(f.Tree.Layer(a)); snap.Visible {
		t.Error("A's layer still visible")
	}

	f.Tree.Show(a)
	if got := f.Tree.State(a); got != lifecycle.AttachedHiddenByParent {
		t.Errorf("expected ATTACHED_HIDDEN_BY_PARENT, got %s", got)
	}
	if vis, _ := f.Tree.PendingUpdates(a); !vis {
		t.Error("expected a pending visible-style update")
	}

	f.Tree.Show(r)
	if got := f.Tree.State(a); got != lifecycle.AttachedShown {
		t.Errorf("expected ATTACHED_SHOWN, got %s", got)
	}
	if snap, _ := f.Renderer.Lookup(f.Tree.Layer(a)); !snap.Visible {
		t.Error("A's layer still hidden")
	}
}

func TestShowHiddenByParentKeepsByParent(t *testing.T) {
	f := newFixture(t)
	r := f.node("R", view.Options{})
	a := f.child(t, r, "A", view.Options{Hidden: true})
	f.mount(t, r)
	f.Tree.Hide(r)
	f.Tree.Show(a)
	if got := f.Tree.State(a); got != lifecycle.AttachedHiddenByParent {
		t.Fatalf("expected ATTACHED_HIDDEN_BY_PARENT, got %s", got)
	}

	// Showing again while R is hidden forces the style update but does not
	// claim the node hides itself.
	if !f.Tree.Show(a) {
		t.Fatal("Show was not handled")
	}
	if got := f.Tree.State(a); got != lifecycle.AttachedHiddenByParent {
		t.Errorf("expected ATTACHED_HIDDEN_BY_PARENT, got %s", got)
	}
	if vis, _ := f.Tree.PendingUpdates(a); vis {
		t.Error("visible-style update still pending")
	}
	if snap, _ := f.Renderer.Lookup(f.Tree.Layer(a)); !snap.Visible {
		t.Error("A's own style is still hidden")
	}

	f.Tree.Show(r)
	if got := f.Tree.State(a); got != lifecycle.AttachedShown {
		t.Errorf("expected ATTACHED_SHOWN, got %s", got)
	}
	f.checkInvariants(t)
}

func TestHideUnattachedDefersStyle(t *testing.T) {
	f := newFixture(t)
	n := f.node("N", view.Options{})
	f.Tree.Render(n)

	if !f.Tree.Hide(n) {
		t.Fatal("Hide failed")
	}
	if vis, _ := f.Tree.PendingUpdates(n); !vis {
		t.Error("expected a pending visible-style update")
	}
	f.Tree.Attach(n, view.None)
	if got := f.Tree.State(n); got != lifecycle.AttachedHidden {
		t.Errorf("expected ATTACHED_HIDDEN, got %s", got)
	}
	if snap, _ := f.Renderer.Lookup(f.Tree.Layer(n)); snap.Visible {
		t.Error("layer visible after attaching a hidden node")
	}
}

func TestHideTransition(t *testing.T) {
	f := newFixture(t)
	hide := &viewtest.ManualTransition{}
	n := f.node("N", view.Options{TransitionHide: hide.Transition()})
	f.mount(t, n)

	f.Tree.Hide(n)
	if got := f.Tree.State(n); got != lifecycle.AttachedHiding {
		t.Fatalf("expected ATTACHED_HIDING, got %s", got)
	}
	if !hide.CompleteOut(n) {
		t.Fatal("CompleteOut was ignored")
	}
	if got := f.Tree.State(n); got != lifecycle.AttachedHidden {
		t.Errorf("expected ATTACHED_HIDDEN, got %s", got)
	}
	if snap, _ := f.Renderer.Lookup(f.Tree.Layer(n)); snap.Visible {
		t.Error("layer still visible")
	}
}

func TestShowWhileHiding(t *testing.T) {
	f := newFixture(t)
	hide := &viewtest.ManualTransition{}
	n := f.node("N", view.Options{TransitionHide: hide.Transition()})
	f.mount(t, n)

	f.Tree.Hide(n)
	f.Tree.Show(n)
	if got := f.Tree.State(n); got != lifecycle.AttachedShown {
		t.Fatalf("expected ATTACHED_SHOWN, got %s", got)
	}
	if len(hide.Cancelled) != 1 {
		t.Errorf("expected the hide to be cancelled, got %d cancels", len(hide.Cancelled))
	}
	if hide.CompleteOut(n) {
		t.Error("late completion of the cancelled hide was accepted")
	}
	if got := f.Tree.State(n); got != lifecycle.AttachedShown {
		t.Errorf("late completion moved the node to %s", got)
	}
}

func TestHideWhileShowing(t *testing.T) {
	f := newFixture(t)
	show := &viewtest.ManualTransition{}
	n := f.node("N", view.Options{Hidden: true, TransitionShow: show.Transition()})
	f.mount(t, n)

	f.Tree.Show(n)
	if got := f.Tree.State(n); got != lifecycle.AttachedShowing {
		t.Fatalf("expected ATTACHED_SHOWING, got %s", got)
	}
	f.Tree.Hide(n)
	if got := f.Tree.State(n); got != lifecycle.AttachedHidden {
		t.Errorf("expected ATTACHED_HIDDEN, got %s", got)
	}
	if show.CompleteIn(n) {
		t.Error("late completion of the cancelled show was accepted")
	}
}

func TestHideWhileBuildingIn(t *testing.T) {
	f := newFixture(t)
	in := &viewtest.ManualTransition{}
	hide := &viewtest.ManualTransition{}
	n := f.node("N", view.Options{TransitionIn: in.Transition(), TransitionHide: hide.Transition()})
	f.mount(t, n)

	f.Tree.Hide(n)
	if got := f.Tree.State(n); got != lifecycle.AttachedHiding {
		t.Fatalf("expected ATTACHED_HIDING, got %s", got)
	}
	run, ok := hide.Last(n)
	if !ok || !run.InPlace {
		t.Errorf("expected the hide to run in place, got %+v", run)
	}
	if in.CompleteIn(n) {
		t.Error("late completion of the cancelled entry was accepted")
	}
}
