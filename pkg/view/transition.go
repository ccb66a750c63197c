package view

import (
	"time"

	"github.com/go-drift/viewtree/pkg/animation"
	"github.com/go-drift/viewtree/pkg/errors"
	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/lifecycle"
)

// TransitionKind names the four transition slots of a node.
type TransitionKind uint8

const (
	TransitionNone TransitionKind = iota
	TransitionIn
	TransitionOut
	TransitionShow
	TransitionHide

	numTransitionKinds
)

var transitionKindNames = [...]string{"none", "in", "out", "show", "hide"}

func (k TransitionKind) String() string {
	if int(k) < len(transitionKindNames) {
		return transitionKindNames[k]
	}
	return "TransitionKind(?)"
}

// entering reports whether the kind completes through DidTransitionIn.
func (k TransitionKind) entering() bool {
	return k == TransitionIn || k == TransitionShow
}

// Direction orients directional effects such as slides.
type Direction uint8

const (
	DirectionLeft Direction = iota
	DirectionRight
	DirectionUp
	DirectionDown
)

var directionNames = [...]string{"left", "right", "up", "down"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "Direction(?)"
}

// ParseDirection maps a direction name back to its value.
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	return DirectionLeft, false
}

// TransitionOptions parameterize a plugin run.
type TransitionOptions struct {
	Duration  time.Duration
	Curve     animation.Curve
	Direction Direction
}

// TransitionPlugin runs a visual effect on a node and reports completion
// through v.DidTransitionIn or v.DidTransitionOut, synchronously or later.
//
// pre is the node's layout captured before the transition began and
// preFrame its surface rectangle at that point. When a transition replaces
// an interrupted one in place, pre is the layout captured by the first.
type TransitionPlugin interface {
	Run(v View, opts TransitionOptions, pre layout.Layout, preFrame layout.Rect)
}

// TransitionSetup is implemented by plugins that prepare the node before
// Run, typically moving it to the effect's starting point. inPlace is set
// when the node should continue from wherever an interrupted effect left
// it.
type TransitionSetup interface {
	Setup(v View, opts TransitionOptions, inPlace bool)
}

// TransitionLayoutKeys is implemented by plugins that only touch part of
// the layout. Only those keys are restored on teardown, leaving other
// changes made during the transition in place.
type TransitionLayoutKeys interface {
	LayoutKeys() layout.Key
}

// TransitionCanceler is implemented by plugins holding state beyond the
// node's layout animation.
type TransitionCanceler interface {
	Cancel(v View)
}

func (t *Tree) snapshot(n *node, plugin TransitionPlugin, inPlace bool) {
	declared, partial := plugin.(TransitionLayoutKeys)
	if inPlace && n.preTransitionLayout != nil {
		if partial && n.transitionLayoutCache != nil {
			n.transitionLayoutKeys |= declared.LayoutKeys()
		} else {
			n.transitionLayoutCache = nil
			n.transitionLayoutKeys = 0
		}
		return
	}
	pre := n.layout
	n.preTransitionLayout = &pre
	n.preTransitionFrame = t.frame(n)
	n.transitionLayoutCache = nil
	n.transitionLayoutKeys = 0
	if partial {
		cache := n.layout
		n.transitionLayoutCache = &cache
		n.transitionLayoutKeys = declared.LayoutKeys()
	}
}

// teardown restores the layout captured before the transition.
func (t *Tree) teardown(n *node) {
	if n.preTransitionLayout == nil {
		return
	}
	if n.transitionLayoutCache != nil {
		n.layout = n.layout.Merge(*n.transitionLayoutCache, n.transitionLayoutKeys)
	} else {
		n.layout = *n.preTransitionLayout
	}
	n.preTransitionLayout = nil
	n.preTransitionFrame = layout.Rect{}
	n.transitionLayoutCache = nil
	n.transitionLayoutKeys = 0
	t.applyLayout(n)
}

// startTransition runs the node's kind transition. The node must already be
// in the state the transition belongs to.
func (t *Tree) startTransition(n *node, kind TransitionKind, inPlace bool) {
	tr := n.transitions[kind]
	t.snapshot(n, tr.Plugin, inPlace)
	n.active = kind
	n.epoch++
	epoch := n.epoch
	v := View{tree: t, id: n.id, epoch: epoch}
	t.notifyTransitionStarted(n, kind)
	t.armWatchdog(n, epoch)

	pre, preFrame := *n.preTransitionLayout, n.preTransitionFrame
	defer errors.RecoverWithCallback("view.transition."+kind.String(), func(any) {
		t.forceComplete(v)
	})
	if s, ok := tr.Plugin.(TransitionSetup); ok {
		s.Setup(v, tr.Options, inPlace)
	}
	if n.epoch == epoch {
		tr.Plugin.Run(v, tr.Options, pre, preFrame)
	}
}

// endTransition retires the running transition. The snapshot survives
// until teardown.
func (t *Tree) endTransition(n *node, cancelled bool) TransitionKind {
	kind := n.active
	if kind == TransitionNone {
		return kind
	}
	n.active = TransitionNone
	n.epoch++
	if n.stopWatchdog != nil {
		n.stopWatchdog()
		n.stopWatchdog = nil
	}
	t.notifyTransitionEnded(n, kind, cancelled)
	return kind
}

// cancelTransition stops the running transition where it is. Completion
// calls the plugin makes afterwards are stale and ignored.
func (t *Tree) cancelTransition(n *node) {
	kind := n.active
	if kind == TransitionNone {
		return
	}
	stale := View{tree: t, id: n.id, epoch: n.epoch}
	t.endTransition(n, true)
	if c, ok := n.transitions[kind].Plugin.(TransitionCanceler); ok {
		func() {
			defer errors.Recover("view.transition.Cancel")
			c.Cancel(stale)
		}()
	}
	t.cancelLayoutAnimation(n, LayoutCurrent)
}

// settle cancels any transition and layout animation and restores the
// pre-transition layout.
func (t *Tree) settle(n *node) {
	t.cancelTransition(n)
	t.cancelLayoutAnimation(n, LayoutEnd)
	t.teardown(n)
}

func (t *Tree) didTransitionIn(v View) bool {
	n, ok := t.live(v)
	if !ok {
		return false
	}
	switch n.state {
	case lifecycle.AttachedBuildingIn:
		if n.active != TransitionIn {
			return false
		}
	case lifecycle.AttachedShowing:
		if n.active != TransitionShow {
			return false
		}
	default:
		return false
	}
	t.endTransition(n, false)
	t.cancelLayoutAnimation(n, LayoutEnd)
	t.teardown(n)
	t.setState(n, lifecycle.AttachedShown)
	t.hookDidTransitionIn(n)
	return true
}

func (t *Tree) didTransitionOut(v View) bool {
	n, ok := t.live(v)
	if !ok {
		return false
	}
	switch n.state {
	case lifecycle.AttachedBuildingOut:
		if n.active != TransitionOut {
			return false
		}
		t.endTransition(n, false)
		if n.buildingOut != nil {
			n.buildingOut.self = false
		}
		t.hookDidTransitionOut(n)
		t.finishBuildOutIfDone(n)
	case lifecycle.AttachedBuildingOutByParent:
		if n.active != TransitionOut {
			return false
		}
		t.endTransition(n, false)
		t.hookDidTransitionOut(n)
		t.releaseFromOwner(n)
	case lifecycle.AttachedHiding:
		if n.active != TransitionHide {
			return false
		}
		t.endTransition(n, false)
		t.cancelLayoutAnimation(n, LayoutEnd)
		t.hookDidTransitionOut(n)
		t.executeDoHide(n)
	default:
		return false
	}
	return true
}

// forceComplete resolves the transition v was issued for as if the plugin
// had finished it.
func (t *Tree) forceComplete(v View) {
	n, ok := t.live(v)
	if !ok || n.active == TransitionNone {
		return
	}
	kind := n.active
	t.cancelLayoutAnimation(n, LayoutEnd)
	if _, ok := t.live(v); !ok {
		return
	}
	if kind.entering() {
		t.didTransitionIn(v)
	} else {
		t.didTransitionOut(v)
	}
}

func (t *Tree) armWatchdog(n *node, epoch uint64) {
	if t.watchdog <= 0 || t.timers == nil {
		return
	}
	if n.stopWatchdog != nil {
		n.stopWatchdog()
	}
	id := n.id
	n.stopWatchdog = t.timers.AfterFunc(t.watchdog, func() {
		n := t.get(id)
		if n == nil || n.epoch != epoch || n.active == TransitionNone {
			return
		}
		n.stopWatchdog = nil
		t.warn(n, "view.watchdog", "%s transition still running after %s; forcing completion", n.active, t.watchdog)
		t.forceComplete(View{tree: t, id: id, epoch: epoch})
	})
}
