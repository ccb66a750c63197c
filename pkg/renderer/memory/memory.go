// Package memory implements renderer.Renderer on an in-memory layer tree.
//
// Besides backing tests, it is the layer store the terminal and raster
// compositors read from: they take a Snapshot of the surface and paint it.
// The renderer is safe for concurrent use, so a compositor may snapshot
// from another goroutine while the view loop mutates layers.
package memory

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/renderer"
)

// Layer is the handle returned by CreateLayer.
type Layer struct {
	id   uint64
	spec renderer.LayerSpec
}

// LayerID implements renderer.Layer.
func (l *Layer) LayerID() uint64 { return l.id }

// Name returns the spec name the layer was created with.
func (l *Layer) Name() string { return l.spec.Name }

func (l *Layer) String() string {
	if l.spec.Name != "" {
		return l.spec.Name
	}
	return "#" + strconv.FormatUint(l.id, 10)
}

type record struct {
	layer    *Layer
	parent   *record
	children []*record
	content  string
	visible  bool
	layout   layout.Layout
}

// Op is one journaled renderer call.
type Op struct {
	Kind  string
	Layer string
	Arg   string
}

func (o Op) String() string {
	if o.Arg == "" {
		return o.Kind + " " + o.Layer
	}
	return o.Kind + " " + o.Layer + " " + o.Arg
}

// Renderer is an in-memory renderer.
type Renderer struct {
	mu      sync.Mutex
	records cmap.ConcurrentMap[string, *record]
	roots   []*record
	journal []Op
	nextID  uint64
}

var _ renderer.Renderer = (*Renderer)(nil)

// New creates an empty renderer.
func New() *Renderer {
	return &Renderer{records: cmap.New[*record]()}
}

func key(l renderer.Layer) string {
	return strconv.FormatUint(l.LayerID(), 10)
}

func (r *Renderer) get(l renderer.Layer) *record {
	if l == nil {
		return nil
	}
	rec, ok := r.records.Get(key(l))
	if !ok {
		panic(fmt.Sprintf("memory: unknown layer %v", l))
	}
	return rec
}

func (r *Renderer) log(kind string, l *Layer, arg string) {
	r.journal = append(r.journal, Op{Kind: kind, Layer: l.String(), Arg: arg})
}

// CreateLayer implements renderer.Renderer.
func (r *Renderer) CreateLayer(spec renderer.LayerSpec) renderer.Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	l := &Layer{id: r.nextID, spec: spec}
	r.records.Set(key(l), &record{layer: l, visible: true, layout: layout.Default()})
	r.log("create", l, "")
	return l
}

// DestroyLayer implements renderer.Renderer. A destroyed layer is also
// removed from its parent.
func (r *Renderer) DestroyLayer(l renderer.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.get(l)
	r.unlink(rec)
	for _, child := range rec.children {
		child.parent = nil
	}
	r.records.Remove(key(l))
	r.log("destroy", rec.layer, "")
}

// AttachLayer implements renderer.Renderer.
func (r *Renderer) AttachLayer(l, parent, before renderer.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.get(l)
	r.unlink(rec)

	siblings := &r.roots
	arg := "surface"
	if parent != nil {
		p := r.get(parent)
		rec.parent = p
		siblings = &p.children
		arg = p.layer.String()
	}
	at := len(*siblings)
	if before != nil {
		b := r.get(before)
		if i := slices.Index(*siblings, b); i >= 0 {
			at = i
			arg += " before " + b.layer.String()
		}
	}
	*siblings = slices.Insert(*siblings, at, rec)
	r.log("attach", rec.layer, arg)
}

// DetachLayer implements renderer.Renderer.
func (r *Renderer) DetachLayer(l renderer.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.get(l)
	r.unlink(rec)
	r.log("detach", rec.layer, "")
}

func (r *Renderer) unlink(rec *record) {
	siblings := &r.roots
	if rec.parent != nil {
		siblings = &rec.parent.children
	}
	if i := slices.Index(*siblings, rec); i >= 0 {
		*siblings = slices.Delete(*siblings, i, i+1)
	}
	rec.parent = nil
}

// UpdateLayerContent implements renderer.Renderer.
func (r *Renderer) UpdateLayerContent(l renderer.Layer, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.get(l)
	rec.content = content
	r.log("content", rec.layer, strconv.Quote(content))
}

// ApplyVisibleStyle implements renderer.Renderer.
func (r *Renderer) ApplyVisibleStyle(l renderer.Layer, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.get(l)
	rec.visible = visible
	r.log("visible", rec.layer, strconv.FormatBool(visible))
}

// ApplyLayout implements renderer.Renderer. Layout updates are frequent
// during animations and are not journaled.
func (r *Renderer) ApplyLayout(l renderer.Layer, lay layout.Layout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(l).layout = lay
}

// Journal returns the calls recorded since the last ResetJournal.
func (r *Renderer) Journal() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.journal)
}

// ResetJournal clears the journal.
func (r *Renderer) ResetJournal() {
	r.mu.Lock()
	r.journal = nil
	r.mu.Unlock()
}

// Len returns the number of live layers.
func (r *Renderer) Len() int {
	return r.records.Count()
}

// Snapshot is an immutable copy of one layer and its subtree.
type Snapshot struct {
	ID       uint64
	Name     string
	Class    string
	Content  string
	Visible  bool
	Layout   layout.Layout
	Children []Snapshot
}

// Surface returns snapshots of the layers attached to the surface root, in
// stacking order.
func (r *Renderer) Surface() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshotAll(r.roots)
}

// Lookup returns a snapshot of a single layer, attached or not.
func (r *Renderer) Lookup(l renderer.Layer) (Snapshot, bool) {
	rec, ok := r.records.Get(key(l))
	if !ok {
		return Snapshot{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot(rec), true
}

// Parent returns the layer l is attached to, or nil when l is on the
// surface root or detached.
func (r *Renderer) Parent(l renderer.Layer) renderer.Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec := r.get(l); rec.parent != nil {
		return rec.parent.layer
	}
	return nil
}

// OnSurface reports whether l is reachable from the surface root.
func (r *Renderer) OnSurface(l renderer.Layer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.get(l)
	for rec.parent != nil {
		rec = rec.parent
	}
	return slices.Contains(r.roots, rec)
}

func snapshotAll(recs []*record) []Snapshot {
	if len(recs) == 0 {
		return nil
	}
	out := make([]Snapshot, len(recs))
	for i, rec := range recs {
		out[i] = snapshot(rec)
	}
	return out
}

func snapshot(rec *record) Snapshot {
	return Snapshot{
		ID:       rec.layer.id,
		Name:     rec.layer.spec.Name,
		Class:    rec.layer.spec.Class,
		Content:  rec.content,
		Visible:  rec.visible,
		Layout:   rec.layout,
		Children: snapshotAll(rec.children),
	}
}

// Dump renders the surface as an indented outline, one layer per line.
// Hidden layers are marked with a trailing "(hidden)".
func (r *Renderer) Dump() string {
	var sb strings.Builder
	var walk func([]Snapshot, int)
	walk = func(snaps []Snapshot, depth int) {
		for _, s := range snaps {
			sb.WriteString(strings.Repeat("  ", depth))
			sb.WriteString(s.Name)
			if s.Content != "" {
				sb.WriteString(" " + strconv.Quote(s.Content))
			}
			if !s.Visible {
				sb.WriteString(" (hidden)")
			}
			sb.WriteByte('\n')
			walk(s.Children, depth+1)
		}
	}
	walk(r.Surface(), 0)
	return sb.String()
}
