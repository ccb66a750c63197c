package view_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/viewtree/pkg/lifecycle"
	"github.com/go-drift/viewtree/pkg/view"
	"github.com/go-drift/viewtree/pkg/viewtest"
)

type fixture struct {
	*viewtest.Harness
	rec *viewtest.Recorder
}

func newFixture(t *testing.T, opts ...view.TreeOption) *fixture {
	t.Helper()
	return &fixture{Harness: viewtest.NewHarness(t, opts...), rec: &viewtest.Recorder{}}
}

// node creates a parentless node recording its hooks on f.rec unless opts
// names another delegate.
func (f *fixture) node(name string, opts view.Options) view.ID {
	opts.Name = name
	if opts.Delegate == nil {
		opts.Delegate = f.rec
	}
	return f.Tree.New(opts)
}

func (f *fixture) child(t *testing.T, parent view.ID, name string, opts view.Options) view.ID {
	t.Helper()
	id := f.node(name, opts)
	if !f.Tree.AppendChild(parent, id) {
		t.Fatalf("AppendChild(%s, %s) failed", f.Tree.Name(parent), name)
	}
	return id
}

// mount renders and attaches a root.
func (f *fixture) mount(t *testing.T, root view.ID) {
	t.Helper()
	if !f.Tree.Render(root) {
		t.Fatalf("Render(%s) failed", f.Tree.Name(root))
	}
	if !f.Tree.Attach(root, view.None) {
		t.Fatalf("Attach(%s) failed", f.Tree.Name(root))
	}
}

func (f *fixture) expectStates(t *testing.T, want map[view.ID]lifecycle.State) {
	t.Helper()
	wantNames := make(map[string]string, len(want))
	gotNames := make(map[string]string, len(want))
	for id, s := range want {
		wantNames[f.Tree.Name(id)] = s.String()
		gotNames[f.Tree.Name(id)] = f.Tree.State(id).String()
	}
	if diff := cmp.Diff(wantNames, gotNames); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func (f *fixture) checkInvariants(t *testing.T) {
	t.Helper()
	if err := viewtest.CheckInvariants(f.Tree); err != nil {
		t.Errorf("invariants broken:\n%v", err)
	}
}

// stateLog is an observer recording every state change.
type stateLog struct {
	view.NopObserver
	changes []string
}

func (l *stateLog) StateChanged(v view.View, from, to lifecycle.State) {
	l.changes = append(l.changes, fmt.Sprintf("%s %s->%s", v.Name(), from, to))
}

func (l *stateLog) of(name string) []string {
	var out []string
	for _, c := range l.changes {
		if len(c) > len(name) && c[:len(name)+1] == name+" " {
			out = append(out, c)
		}
	}
	return out
}
