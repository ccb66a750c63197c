package view

import (
	"time"

	"github.com/go-drift/viewtree/pkg/animation"
	"github.com/go-drift/viewtree/pkg/errors"
	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/lifecycle"
)

// CancelMode selects where a cancelled layout animation leaves the node.
type CancelMode uint8

const (
	// LayoutEnd jumps to the animation's target layout.
	LayoutEnd CancelMode = iota
	// LayoutCurrent freezes the layout where the animation left it.
	LayoutCurrent
)

type layoutAnimation struct {
	ctrl     *animation.Controller
	from, to layout.Layout
	keys     layout.Key
	done     func(finished bool)
	// marks is set when the animation moved the node to SHOWN_ANIMATING.
	marks bool
}

// Animate moves the keys of the node's layout toward to over d, stepped
// by the tree's scheduler. A running animation is cancelled in place
// first. done, when non-nil, is called once with finished false if the
// animation is cancelled.
//
// A shown node outside any transition is SHOWN_ANIMATING while the
// animation runs.
func (t *Tree) Animate(id ID, to layout.Layout, keys layout.Key, d time.Duration, curve animation.Curve, done func(finished bool)) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	t.cancelLayoutAnimation(n, LayoutCurrent)

	a := &layoutAnimation{from: n.layout, to: to, keys: keys, done: done}
	a.ctrl = animation.NewController(t.sched, d)
	if curve != nil {
		a.ctrl.Curve = curve
	}
	a.ctrl.AddListener(func() {
		n.layout = n.layout.Merge(a.from.Lerp(a.to, a.ctrl.Value, a.keys), a.keys)
		t.applyLayout(n)
	})
	a.ctrl.AddStatusListener(func(s animation.Status) {
		if s == animation.Completed {
			t.finishLayoutAnimation(n, a, true)
		}
	})
	n.anim = a
	if n.state == lifecycle.AttachedShown && n.active == TransitionNone {
		a.marks = true
		t.setState(n, lifecycle.AttachedShownAnimating)
	}
	a.ctrl.Forward()
	return true
}

// CancelAnimation stops the node's layout animation, if any.
func (t *Tree) CancelAnimation(id ID, mode CancelMode) {
	if n := t.get(id); n != nil {
		t.cancelLayoutAnimation(n, mode)
	}
}

// Animating reports whether a layout animation is running on id.
func (t *Tree) Animating(id ID) bool {
	n := t.get(id)
	return n != nil && n.anim != nil
}

func (t *Tree) cancelLayoutAnimation(n *node, mode CancelMode) {
	a := n.anim
	if a == nil {
		return
	}
	a.ctrl.Stop()
	if mode == LayoutEnd {
		n.layout = n.layout.Merge(a.to, a.keys)
		t.applyLayout(n)
	}
	t.finishLayoutAnimation(n, a, false)
}

func (t *Tree) finishLayoutAnimation(n *node, a *layoutAnimation, finished bool) {
	if n.anim != a {
		return
	}
	n.anim = nil
	a.ctrl.Dispose()
	if a.marks && n.state == lifecycle.AttachedShownAnimating {
		t.setState(n, lifecycle.AttachedShown)
	}
	if a.done != nil {
		defer errors.Recover("view.Animate.done")
		a.done(finished)
	}
}
