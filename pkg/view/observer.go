package view

import "github.com/go-drift/viewtree/pkg/lifecycle"

// Observer is notified of lifecycle activity across a tree. Observers run
// synchronously inside the action that caused the event and must not call
// back into the tree.
type Observer interface {
	StateChanged(v View, from, to lifecycle.State)
	TransitionStarted(v View, kind TransitionKind)
	TransitionEnded(v View, kind TransitionKind, cancelled bool)
	BuildOutStarted(v View)
	BuildOutFinished(v View, cancelled bool)
}

// NopObserver implements Observer with no-ops. Embed it to observe a
// subset of events.
type NopObserver struct{}

func (NopObserver) StateChanged(View, lifecycle.State, lifecycle.State) {}
func (NopObserver) TransitionStarted(View, TransitionKind)              {}
func (NopObserver) TransitionEnded(View, TransitionKind, bool)          {}
func (NopObserver) BuildOutStarted(View)                                {}
func (NopObserver) BuildOutFinished(View, bool)                         {}

func (t *Tree) notifyTransitionStarted(n *node, kind TransitionKind) {
	for _, o := range t.observers {
		o.TransitionStarted(t.View(n.id), kind)
	}
}

func (t *Tree) notifyTransitionEnded(n *node, kind TransitionKind, cancelled bool) {
	for _, o := range t.observers {
		o.TransitionEnded(t.View(n.id), kind, cancelled)
	}
}

func (t *Tree) notifyBuildOutStarted(n *node) {
	for _, o := range t.observers {
		o.BuildOutStarted(t.View(n.id))
	}
}

func (t *Tree) notifyBuildOutFinished(n *node, cancelled bool) {
	for _, o := range t.observers {
		o.BuildOutFinished(t.View(n.id), cancelled)
	}
}
