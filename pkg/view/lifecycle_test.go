package view_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/viewtree/pkg/errors"
	"github.com/go-drift/viewtree/pkg/lifecycle"
	"github.com/go-drift/viewtree/pkg/view"
	"github.com/go-drift/viewtree/pkg/viewtest"
)

func TestRenderAndAttach(t *testing.T) {
	f := newFixture(t)
	in := &viewtest.ManualTransition{}
	r := f.node("R", view.Options{})
	a := f.child(t, r, "A", view.Options{TransitionIn: in.Transition()})
	b := f.child(t, r, "B", view.Options{})

	if !f.Tree.Render(r) {
		t.Fatal("Render failed")
	}
	f.expectStates(t, map[view.ID]lifecycle.State{
		r: lifecycle.Unattached,
		a: lifecycle.UnattachedByParent,
		b: lifecycle.UnattachedByParent,
	})
	f.checkInvariants(t)

	if !f.Tree.Attach(r, view.None) {
		t.Fatal("Attach failed")
	}
	f.expectStates(t, map[view.ID]lifecycle.State{
		r: lifecycle.AttachedShown,
		a: lifecycle.AttachedBuildingIn,
		b: lifecycle.AttachedShown,
	})
	f.checkInvariants(t)

	if !in.CompleteIn(a) {
		t.Fatal("CompleteIn(A) was ignored")
	}
	if got := f.Tree.State(a); got != lifecycle.AttachedShown {
		t.Errorf("A: expected ATTACHED_SHOWN, got %s", got)
	}
	if diff := cmp.Diff("R\n  A\n  B\n", f.Renderer.Dump()); diff != "" {
		t.Errorf("surface mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	f := newFixture(t)
	r := f.node("R", view.Options{})
	f.Tree.Render(r)
	if f.Tree.Render(r) {
		t.Error("second Render reported a change")
	}
	if f.Renderer.Len() != 1 {
		t.Errorf("expected 1 layer, got %d", f.Renderer.Len())
	}
}

func TestAttachHookOrder(t *testing.T) {
	f := newFixture(t)
	r := f.node("R", view.Options{})
	a := f.child(t, r, "A", view.Options{})
	f.child(t, a, "A1", view.Options{})
	f.child(t, r, "B", view.Options{})

	f.rec.Reset()
	f.mount(t, r)
	want := []string{
		"DidAppendToDocument A1",
		"DidAppendToDocument A",
		"DidAppendToDocument B",
		"DidAppendToDocument R",
	}
	if diff := cmp.Diff(want, f.rec.Only("DidAppendToDocument")); diff != "" {
		t.Errorf("append order mismatch (-want +got):\n%s", diff)
	}

	f.rec.Reset()
	f.Tree.Detach(r, true)
	want = []string{
		"WillRemoveFromDocument R",
		"WillRemoveFromDocument A",
		"WillRemoveFromDocument A1",
		"WillRemoveFromDocument B",
		"DidRemoveFromDocument A1",
		"DidRemoveFromDocument A",
		"DidRemoveFromDocument B",
		"DidRemoveFromDocument R",
	}
	if diff := cmp.Diff(want, f.rec.Events); diff != "" {
		t.Errorf("remove order mismatch (-want +got):\n%s", diff)
	}
}

func TestDetachImmediately(t *testing.T) {
	f := newFixture(t)
	out := &viewtest.ManualTransition{}
	r := f.node("R", view.Options{TransitionOut: out.Transition()})
	a := f.child(t, r, "A", view.Options{TransitionOut: out.Transition()})
	f.mount(t, r)

	if !f.Tree.Detach(r, true) {
		t.Fatal("Detach failed")
	}
	f.expectStates(t, map[view.ID]lifecycle.State{
		r: lifecycle.Unattached,
		a: lifecycle.Unattached,
	})
	if len(out.Runs) != 0 {
		t.Errorf("expected no exit transitions, got %d", len(out.Runs))
	}
	if f.Renderer.OnSurface(f.Tree.Layer(r)) {
		t.Error("R still on the surface")
	}
	if f.Renderer.Parent(f.Tree.Layer(a)) != f.Tree.Layer(r) {
		t.Error("A's layer left R's layer")
	}
	f.checkInvariants(t)
}

func TestDetachHiddenRunsExit(t *testing.T) {
	for _, immediately := range []bool{false, true} {
		t.Run(fmt.Sprintf("immediately=%t", immediately), func(t *testing.T) {
			f := newFixture(t)
			out := &viewtest.ManualTransition{}
			n := f.node("N", view.Options{Hidden: true, TransitionOut: out.Transition()})
			f.mount(t, n)
			if got := f.Tree.State(n); got != lifecycle.AttachedHidden {
				t.Fatalf("expected ATTACHED_HIDDEN, got %s", got)
			}

			f.Tree.Detach(n, immediately)
			if immediately {
				if got := f.Tree.State(n); got != lifecycle.Unattached {
					t.Errorf("expected UNATTACHED, got %s", got)
				}
				if len(out.Runs) != 0 {
					t.Errorf("immediate detach ran the exit transition")
				}
				return
			}
			if got := f.Tree.State(n); got != lifecycle.AttachedBuildingOut {
				t.Fatalf("expected ATTACHED_BUILDING_OUT, got %s", got)
			}
			if len(out.Runs) != 1 {
				t.Fatalf("expected one exit run, got %d", len(out.Runs))
			}
			f.checkInvariants(t)

			out.CompleteOut(n)
			if got := f.Tree.State(n); got != lifecycle.Unattached {
				t.Errorf("expected UNATTACHED, got %s", got)
			}
			if f.Renderer.OnSurface(f.Tree.Layer(n)) {
				t.Error("N still on the surface")
			}
		})
	}
}

func TestDetachUnattachedByParent(t *testing.T) {
	f := newFixture(t)
	r := f.node("R", view.Options{})
	a := f.child(t, r, "A", view.Options{})
	f.Tree.Render(r)

	if !f.Tree.Detach(a, false) {
		t.Fatal("Detach failed")
	}
	if got := f.Tree.State(a); got != lifecycle.Unattached {
		t.Errorf("expected UNATTACHED, got %s", got)
	}
	if f.Renderer.Parent(f.Tree.Layer(a)) != nil {
		t.Error("A's layer still inside R's layer")
	}

	// Attaching R re-enters only the children still placed in its layer.
	f.Tree.Attach(r, view.None)
	if got := f.Tree.State(a); got != lifecycle.Unattached {
		t.Errorf("expected A to stay UNATTACHED, got %s", got)
	}
	f.Tree.Attach(a, view.None)
	if got := f.Tree.State(a); got != lifecycle.AttachedShown {
		t.Errorf("expected ATTACHED_SHOWN, got %s", got)
	}
	f.checkInvariants(t)
}

func TestNoOpActions(t *testing.T) {
	f := newFixture(t)
	n := f.node("N", view.Options{})

	tests := []struct {
		name string
		fn   func() bool
	}{
		{"detach unrendered", func() bool { return f.Tree.Detach(n, false) }},
		{"destroy unrendered", func() bool { return f.Tree.DestroyLayer(n) }},
		{"update content unrendered", func() bool { return f.Tree.UpdateContent(n, true) }},
		{"orphan root", func() bool { return f.Tree.Orphan(n) }},
		{"unknown id", func() bool { return f.Tree.Render(view.ID(99)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.fn() {
				t.Error("expected no-op")
			}
			if got := f.Tree.State(n); got != lifecycle.Unrendered {
				t.Errorf("state changed to %s", got)
			}
		})
	}
}

func TestAttachMisuseAsserts(t *testing.T) {
	f := newFixture(t)
	n := f.node("N", view.Options{})
	if f.Tree.Attach(n, view.None) {
		t.Error("attached an unrendered node")
	}

	r := f.node("R", view.Options{})
	a := f.child(t, r, "A", view.Options{})
	f.Tree.Render(r)
	if f.Tree.Attach(a, view.None) {
		t.Error("attached a node whose parent is unattached")
	}

	if got := f.Diagnostics().Count(errors.SeverityAssert); got != 2 {
		t.Errorf("expected 2 asserts, got %d", got)
	}
	if got := f.Tree.State(a); got != lifecycle.UnattachedByParent {
		t.Errorf("expected UNATTACHED_BY_PARENT, got %s", got)
	}
}

func TestAssertsSilentOutsideDebug(t *testing.T) {
	f := newFixture(t)
	prev := errors.SetDebugMode(false)
	defer errors.SetDebugMode(prev)

	n := f.node("N", view.Options{})
	f.Tree.Attach(n, view.None)
	if got := len(f.Diagnostics().Reports); got != 0 {
		t.Errorf("expected no diagnostics, got %d", got)
	}
}

func TestDestroyLayer(t *testing.T) {
	f := newFixture(t)
	r := f.node("R", view.Options{})
	a := f.child(t, r, "A", view.Options{})
	f.mount(t, r)

	if f.Tree.DestroyLayer(r) {
		t.Error("destroyed the layer of an attached node")
	}
	if got := f.Diagnostics().Count(errors.SeverityAssert); got != 1 {
		t.Errorf("expected 1 assert, got %d", got)
	}

	f.Tree.Detach(r, true)
	f.rec.Reset()
	if !f.Tree.DestroyLayer(r) {
		t.Fatal("DestroyLayer failed")
	}
	f.expectStates(t, map[view.ID]lifecycle.State{
		r: lifecycle.Unrendered,
		a: lifecycle.Unrendered,
	})
	if f.Renderer.Len() != 0 {
		t.Errorf("expected no layers, got %d", f.Renderer.Len())
	}
	want := []string{"WillDestroyLayer R", "WillDestroyLayer A"}
	if diff := cmp.Diff(want, f.rec.Events); diff != "" {
		t.Errorf("hooks mismatch (-want +got):\n%s", diff)
	}
	f.checkInvariants(t)
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t)
	r := f.node("R", view.Options{Content: "root"})
	a := f.child(t, r, "A", view.Options{Content: "a"})
	f.child(t, a, "A1", view.Options{})

	cycle := func() []string {
		f.Renderer.ResetJournal()
		f.mount(t, r)
		f.Tree.Detach(r, true)
		f.Tree.DestroyLayer(r)
		var ops []string
		for _, op := range f.Renderer.Journal() {
			ops = append(ops, op.String())
		}
		return ops
	}

	first := cycle()
	second := cycle()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second cycle differs (-first +second):\n%s", diff)
	}
	if f.Renderer.Len() != 0 {
		t.Errorf("expected no layers, got %d", f.Renderer.Len())
	}
	if got := f.Tree.State(r); got != lifecycle.Unrendered {
		t.Errorf("expected UNRENDERED, got %s", got)
	}
	f.checkInvariants(t)
}

func TestRelease(t *testing.T) {
	f := newFixture(t)
	r := f.node("R", view.Options{})
	a := f.child(t, r, "A", view.Options{})
	f.mount(t, r)

	if !f.Tree.Release(r) {
		t.Fatal("Release failed")
	}
	if f.Tree.Exists(r) || f.Tree.Exists(a) {
		t.Error("released nodes still exist")
	}
	if f.Tree.Len() != 0 {
		t.Errorf("expected empty tree, got %d nodes", f.Tree.Len())
	}
	if f.Renderer.Len() != 0 {
		t.Errorf("expected no layers, got %d", f.Renderer.Len())
	}

	n := f.node("N", view.Options{})
	if n == r || n == a {
		t.Errorf("released id %d was reused", n)
	}
}

type panicky struct{}

func (panicky) DidAppendToDocument(view.View) { panic("boom") }

func TestPanickingHookIsRecovered(t *testing.T) {
	f := newFixture(t)
	n := f.node("N", view.Options{Delegate: panicky{}})
	f.mount(t, n)

	if got := f.Tree.State(n); got != lifecycle.AttachedShown {
		t.Errorf("expected ATTACHED_SHOWN, got %s", got)
	}
	if got := len(f.Diagnostics().Panics); got != 1 {
		t.Fatalf("expected 1 panic, got %d", got)
	}
	if op := f.Diagnostics().Panics[0].Op; op != "view.hook.DidAppendToDocument" {
		t.Errorf("unexpected op %q", op)
	}
}
