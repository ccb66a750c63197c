// Package view drives a tree of view nodes through their lifecycle:
// render, attach, detach, show, hide and layer destruction, with optional
// asynchronous transitions on entry, exit, show and hide.
//
// Nodes live in an arena owned by a [Tree] and are addressed by [ID].
// Parent and child links are IDs, so the tree holds no reference cycles
// and destruction order is explicit ([Tree.Release]).
//
// Every action is synchronous with respect to state: when an action
// returns, each affected node is in its new state and every hook it
// implies has fired. Only transition plugins run asynchronously; they
// report back through [View.DidTransitionIn] and [View.DidTransitionOut]
// on a later turn of the loop that owns the tree. Actions may be invoked
// while a transition is in flight and resolve against it: an interrupted
// transition is cancelled in place and its late completion is ignored.
//
// Actions invoked from a state in which they have no meaning return false
// and leave the tree alone. A few misuse patterns additionally report a
// diagnostic through pkg/errors.
//
// A Tree is not safe for concurrent use. Marshal calls from other
// goroutines onto the owning loop (see pkg/runloop).
package view

import (
	"strconv"
	"time"

	"github.com/go-drift/viewtree/pkg/animation"
	"github.com/go-drift/viewtree/pkg/errors"
	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/lifecycle"
	"github.com/go-drift/viewtree/pkg/renderer"
)

// ID addresses a node within its Tree. The zero ID means "no node".
type ID uint32

// None is the zero ID.
const None ID = 0

// Transition binds a plugin to the options it runs with.
type Transition struct {
	Plugin  TransitionPlugin
	Options TransitionOptions
}

// Options configure a new node.
type Options struct {
	// Name labels the node in diagnostics and its layer in renderer dumps.
	Name string
	// Class is passed to the renderer in the layer spec.
	Class string
	// Content is rendered into the layer unless Delegate is a ContentSource.
	Content string
	// Hidden creates the node with its visibility turned off.
	Hidden bool
	// Layout places the node in its parent. The zero Layout means
	// layout.Default().
	Layout layout.Layout
	// Delegate receives lifecycle hooks; see hooks.go for the optional
	// interfaces it may implement.
	Delegate any

	TransitionIn   Transition
	TransitionOut  Transition
	TransitionShow Transition
	TransitionHide Transition
}

type buildOut struct {
	// count is the number of descendants still building out on behalf of
	// this node.
	count int
	// self is set while this node's own exit transition runs.
	self bool
}

type node struct {
	id       ID
	name     string
	class    string
	content  string
	delegate any

	state    lifecycle.State
	parent   ID
	children []ID

	layer renderer.Layer
	// layerInParent is set while the layer is inserted into the parent
	// node's layer.
	layerInParent bool

	visible bool
	layout  layout.Layout

	pendingVisibleStyleUpdate bool
	pendingContentUpdate      bool

	transitions [numTransitionKinds]Transition
	active      TransitionKind
	epoch       uint64

	preTransitionLayout   *layout.Layout
	preTransitionFrame    layout.Rect
	transitionLayoutCache *layout.Layout
	transitionLayoutKeys  layout.Key

	owningView  ID
	// counted is set while the node holds a slot in its owning view's
	// build-out count.
	counted     bool
	buildingOut *buildOut

	anim         *layoutAnimation
	unsubscribe  func()
	stopWatchdog func()
}

func (n *node) label() string {
	if n.name != "" {
		return n.name
	}
	return "#" + strconv.FormatUint(uint64(n.id), 10)
}

func (n *node) has(kind TransitionKind) bool {
	return n.transitions[kind].Plugin != nil
}

// Timers schedules callbacks on the loop that owns the tree.
type Timers interface {
	AfterFunc(d time.Duration, fn func()) (stop func())
}

// Tree is an arena of view nodes rendered by one renderer.
type Tree struct {
	r         renderer.Renderer
	sched     *animation.Scheduler
	nodes     []*node
	observers []Observer
	watchdog  time.Duration
	timers    Timers
}

// TreeOption configures a Tree.
type TreeOption func(*Tree)

// WithScheduler drives layout animations from sched instead of a
// scheduler on the system clock.
func WithScheduler(sched *animation.Scheduler) TreeOption {
	return func(t *Tree) { t.sched = sched }
}

// WithObserver adds an observer of state changes and transitions.
func WithObserver(o Observer) TreeOption {
	return func(t *Tree) { t.observers = append(t.observers, o) }
}

// WithWatchdog force-completes any transition still running d after it
// started. A zero d disables the watchdog, which is the default.
func WithWatchdog(d time.Duration, timers Timers) TreeOption {
	return func(t *Tree) {
		t.watchdog = d
		t.timers = timers
	}
}

// NewTree creates an empty tree drawing into r.
func NewTree(r renderer.Renderer, opts ...TreeOption) *Tree {
	t := &Tree{r: r}
	for _, opt := range opts {
		opt(t)
	}
	if t.sched == nil {
		t.sched = animation.NewScheduler(nil)
	}
	return t
}

// Scheduler returns the scheduler that steps layout animations. The owning
// loop calls its Step once per frame.
func (t *Tree) Scheduler() *animation.Scheduler {
	return t.sched
}

// Renderer returns the tree's renderer.
func (t *Tree) Renderer() renderer.Renderer {
	return t.r
}

// New creates an unrendered, parentless node.
func (t *Tree) New(opts Options) ID {
	lay := opts.Layout
	if lay == (layout.Layout{}) {
		lay = layout.Default()
	}
	n := &node{
		id:       ID(len(t.nodes) + 1),
		name:     opts.Name,
		class:    opts.Class,
		content:  opts.Content,
		delegate: opts.Delegate,
		state:    lifecycle.Unrendered,
		visible:  !opts.Hidden,
		layout:   lay,
	}
	n.transitions[TransitionIn] = opts.TransitionIn
	n.transitions[TransitionOut] = opts.TransitionOut
	n.transitions[TransitionShow] = opts.TransitionShow
	n.transitions[TransitionHide] = opts.TransitionHide
	t.nodes = append(t.nodes, n)
	return n.id
}

func (t *Tree) get(id ID) *node {
	if id == None || int(id) > len(t.nodes) {
		return nil
	}
	return t.nodes[id-1]
}

func (t *Tree) parentOf(n *node) *node {
	return t.get(n.parent)
}

// Exists reports whether id names a live node.
func (t *Tree) Exists(id ID) bool {
	return t.get(id) != nil
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	count := 0
	for _, n := range t.nodes {
		if n != nil {
			count++
		}
	}
	return count
}

// View returns a handle on id.
func (t *Tree) View(id ID) View {
	return View{tree: t, id: id}
}

// State returns the lifecycle state of id, or Unrendered for an unknown id.
func (t *Tree) State(id ID) lifecycle.State {
	if n := t.get(id); n != nil {
		return n.state
	}
	return lifecycle.Unrendered
}

// Name returns the node's name, or its "#id" label when unnamed.
func (t *Tree) Name(id ID) string {
	if n := t.get(id); n != nil {
		return n.label()
	}
	return ""
}

// Lookup returns the first live node named name.
func (t *Tree) Lookup(name string) (ID, bool) {
	for _, n := range t.nodes {
		if n != nil && n.name == name {
			return n.id, true
		}
	}
	return None, false
}

// Layer returns the node's layer, nil unless rendered.
func (t *Tree) Layer(id ID) renderer.Layer {
	if n := t.get(id); n != nil {
		return n.layer
	}
	return nil
}

// Parent returns the parent of id, or None.
func (t *Tree) Parent(id ID) ID {
	if n := t.get(id); n != nil {
		return n.parent
	}
	return None
}

// Children returns a copy of the children of id in order.
func (t *Tree) Children(id ID) []ID {
	n := t.get(id)
	if n == nil || len(n.children) == 0 {
		return nil
	}
	out := make([]ID, len(n.children))
	copy(out, n.children)
	return out
}

// Roots returns the live nodes without a parent, in creation order.
func (t *Tree) Roots() []ID {
	var out []ID
	for _, n := range t.nodes {
		if n != nil && n.parent == None {
			out = append(out, n.id)
		}
	}
	return out
}

// Visible reports the node's own visibility setting.
func (t *Tree) Visible(id ID) bool {
	n := t.get(id)
	return n != nil && n.visible
}

// SetVisible shows or hides id.
func (t *Tree) SetVisible(id ID, visible bool) bool {
	if visible {
		return t.Show(id)
	}
	return t.Hide(id)
}

// Layout returns the node's current layout.
func (t *Tree) Layout(id ID) layout.Layout {
	if n := t.get(id); n != nil {
		return n.layout
	}
	return layout.Layout{}
}

// SetLayout replaces the node's layout and pushes it to the renderer when
// the node has a layer.
func (t *Tree) SetLayout(id ID, l layout.Layout) {
	n := t.get(id)
	if n == nil {
		return
	}
	n.layout = l
	t.applyLayout(n)
}

func (t *Tree) applyLayout(n *node) {
	if n.layer != nil {
		t.r.ApplyLayout(n.layer, n.layout)
	}
}

// Frame returns the node's rectangle in surface coordinates.
func (t *Tree) Frame(id ID) layout.Rect {
	n := t.get(id)
	if n == nil {
		return layout.Rect{}
	}
	return t.frame(n)
}

func (t *Tree) frame(n *node) layout.Rect {
	var ox, oy float64
	if p := t.parentOf(n); p != nil {
		pf := t.frame(p)
		ox, oy = pf.X, pf.Y
	}
	return n.layout.Frame(ox, oy)
}

// BuildingOutCount returns the number of descendants still building out on
// behalf of id. ok is false unless id is the root of a deferred removal.
func (t *Tree) BuildingOutCount(id ID) (count int, ok bool) {
	n := t.get(id)
	if n == nil || n.buildingOut == nil {
		return 0, false
	}
	return n.buildingOut.count, true
}

// OwningView returns the ancestor whose detach id is building out for, or
// None.
func (t *Tree) OwningView(id ID) ID {
	if n := t.get(id); n != nil {
		return n.owningView
	}
	return None
}

// PendingUpdates reports the deferred visible-style and content updates of id.
func (t *Tree) PendingUpdates(id ID) (visibleStyle, content bool) {
	if n := t.get(id); n != nil {
		return n.pendingVisibleStyleUpdate, n.pendingContentUpdate
	}
	return false, false
}

// ActiveTransition returns the transition running on id, or TransitionNone.
func (t *Tree) ActiveTransition(id ID) TransitionKind {
	if n := t.get(id); n != nil {
		return n.active
	}
	return TransitionNone
}

// Observed reports whether the node is subscribed to its content source.
func (t *Tree) Observed(id ID) bool {
	n := t.get(id)
	return n != nil && n.unsubscribe != nil
}

// Walk visits id and its descendants depth first, parents before
// children. Returning false from fn skips the node's children.
func (t *Tree) Walk(id ID, fn func(View) bool) {
	n := t.get(id)
	if n == nil {
		return
	}
	if !fn(t.View(id)) {
		return
	}
	for _, c := range t.Children(id) {
		t.Walk(c, fn)
	}
}

func (t *Tree) setState(n *node, s lifecycle.State) {
	from := n.state
	if from == s {
		return
	}
	n.state = s
	for _, o := range t.observers {
		o.StateChanged(t.View(n.id), from, s)
	}
}

func (t *Tree) assert(n *node, op, format string, args ...any) {
	errors.Assert(op, n.label(), n.state.String(), format, args...)
}

func (t *Tree) warn(n *node, op, format string, args ...any) {
	errors.Warn(op, n.label(), n.state.String(), format, args...)
}
