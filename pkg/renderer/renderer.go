// Package renderer defines the display-surface collaborator that view nodes
// draw into.
//
// The view tree never inspects a layer; it only hands layers back to the
// renderer that created them. Implementations live in the subpackages:
// memory (tests and tooling), term (terminal output) and raster (images).
package renderer

import "github.com/go-drift/viewtree/pkg/layout"

// Layer is an opaque handle to a node's visual representation.
type Layer interface {
	// LayerID is unique among the layers of one renderer.
	LayerID() uint64
}

// LayerSpec describes the layer to create for a node.
type LayerSpec struct {
	// Name labels the layer in dumps and snapshots.
	Name string
	// Class is a free-form style class understood by the renderer.
	Class string
}

// Renderer owns layers and the display surface they are attached to.
//
// A nil parent in AttachLayer means the surface root. AttachLayer on a
// layer that already has a parent moves it. Renderers are driven from the
// loop that owns the view tree and need not be safe for concurrent use
// unless documented otherwise.
type Renderer interface {
	CreateLayer(spec LayerSpec) Layer
	DestroyLayer(layer Layer)
	AttachLayer(layer, parent, before Layer)
	DetachLayer(layer Layer)
	UpdateLayerContent(layer Layer, content string)
	ApplyVisibleStyle(layer Layer, visible bool)
	ApplyLayout(layer Layer, l layout.Layout)
}
