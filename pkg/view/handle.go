package view

import (
	"time"

	"github.com/go-drift/viewtree/pkg/animation"
	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/lifecycle"
)

// View is a handle on one node of a Tree.
//
// Handles given to transition plugins are bound to the transition they were
// issued for: once that transition ends or is cancelled, completion calls
// through the handle are ignored. Handles from [Tree.View] always address
// the node's current transition.
type View struct {
	tree  *Tree
	id    ID
	epoch uint64
}

// Renderable is the layer-level surface of a view.
type Renderable interface {
	Render() bool
	DestroyLayer() bool
	UpdateContent(force bool) bool
}

// Transitionable is the surface transition plugins drive.
type Transitionable interface {
	DidTransitionIn() bool
	DidTransitionOut() bool
	Animate(to layout.Layout, keys layout.Key, d time.Duration, curve animation.Curve, done func(finished bool)) bool
	CancelAnimation(mode CancelMode)
}

// ChildContainer is the structural surface of a view.
type ChildContainer interface {
	Adopt(parent, before ID) bool
	Orphan() bool
	Children() []View
}

var (
	_ Renderable     = View{}
	_ Transitionable = View{}
	_ ChildContainer = View{}
)

// IsZero reports whether v addresses no node.
func (v View) IsZero() bool { return v.tree == nil || v.id == None }

func (v View) ID() ID      { return v.id }
func (v View) Tree() *Tree { return v.tree }

func (v View) Name() string                 { return v.tree.Name(v.id) }
func (v View) State() lifecycle.State       { return v.tree.State(v.id) }
func (v View) Layout() layout.Layout        { return v.tree.Layout(v.id) }
func (v View) SetLayout(l layout.Layout)    { v.tree.SetLayout(v.id, l) }
func (v View) Frame() layout.Rect           { return v.tree.Frame(v.id) }
func (v View) Parent() View                 { return v.tree.View(v.tree.Parent(v.id)) }
func (v View) Render() bool                 { return v.tree.Render(v.id) }
func (v View) Attach() bool                 { return v.tree.Attach(v.id, None) }
func (v View) Detach(immediately bool) bool { return v.tree.Detach(v.id, immediately) }
func (v View) Show() bool                   { return v.tree.Show(v.id) }
func (v View) Hide() bool                   { return v.tree.Hide(v.id) }
func (v View) DestroyLayer() bool           { return v.tree.DestroyLayer(v.id) }
func (v View) UpdateContent(force bool) bool {
	return v.tree.UpdateContent(v.id, force)
}

func (v View) Adopt(parent, before ID) bool { return v.tree.Adopt(v.id, parent, before) }
func (v View) Orphan() bool                 { return v.tree.Orphan(v.id) }

func (v View) Children() []View {
	ids := v.tree.Children(v.id)
	if ids == nil {
		return nil
	}
	out := make([]View, len(ids))
	for i, id := range ids {
		out[i] = v.tree.View(id)
	}
	return out
}

// DidTransitionIn reports that the entry or show transition this handle
// was issued for has finished. It returns false when the handle is stale
// or the node is not transitioning in.
func (v View) DidTransitionIn() bool { return v.tree.didTransitionIn(v) }

// DidTransitionOut reports that the exit or hide transition this handle was
// issued for has finished.
func (v View) DidTransitionOut() bool { return v.tree.didTransitionOut(v) }

// Animate moves the node's layout toward to over d. See [Tree.Animate].
func (v View) Animate(to layout.Layout, keys layout.Key, d time.Duration, curve animation.Curve, done func(finished bool)) bool {
	return v.tree.Animate(v.id, to, keys, d, curve, done)
}

// CancelAnimation stops the node's layout animation.
func (v View) CancelAnimation(mode CancelMode) {
	v.tree.CancelAnimation(v.id, mode)
}

// Stale reports whether the transition this handle was issued for is over.
func (v View) Stale() bool {
	_, ok := v.tree.live(v)
	return !ok
}

func (v View) String() string {
	if v.IsZero() {
		return "<none>"
	}
	return v.tree.Name(v.id)
}

func (t *Tree) live(v View) (*node, bool) {
	if v.tree != t {
		return nil, false
	}
	n := t.get(v.id)
	if n == nil {
		return nil, false
	}
	if v.epoch != 0 && v.epoch != n.epoch {
		return nil, false
	}
	return n, true
}
