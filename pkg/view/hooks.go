package view

import "github.com/go-drift/viewtree/pkg/errors"

// A delegate opts into lifecycle hooks by implementing any of the
// interfaces below. "Will" hooks run parents before children and "did"
// hooks run children before parents. A panicking hook is reported and
// the action carries on.

type WillAddToParentHook interface {
	WillAddToParent(v, parent View)
}

type DidAddToParentHook interface {
	DidAddToParent(v, parent View)
}

type WillAddChildHook interface {
	WillAddChild(v, child View)
}

type DidAddChildHook interface {
	DidAddChild(v, child View)
}

type DidRemoveFromParentHook interface {
	DidRemoveFromParent(v, oldParent View)
}

type DidRemoveChildHook interface {
	DidRemoveChild(v, child View)
}

// DidCreateLayerHook runs once the node's layer exists and carries its
// initial layout, visibility and content.
type DidCreateLayerHook interface {
	DidCreateLayer(v View)
}

type WillDestroyLayerHook interface {
	WillDestroyLayer(v View)
}

type DidAppendToDocumentHook interface {
	DidAppendToDocument(v View)
}

type WillRemoveFromDocumentHook interface {
	WillRemoveFromDocument(v View)
}

// DidRemoveFromDocumentHook runs after the node has left the document and
// settled in an unattached state.
type DidRemoveFromDocumentHook interface {
	DidRemoveFromDocument(v View)
}

type WillShowInDocumentHook interface {
	WillShowInDocument(v View)
}

type DidShowInDocumentHook interface {
	DidShowInDocument(v View)
}

type WillHideInDocumentHook interface {
	WillHideInDocument(v View)
}

type DidHideInDocumentHook interface {
	DidHideInDocument(v View)
}

// DidTransitionInHook runs when an entry or show transition completes.
type DidTransitionInHook interface {
	DidTransitionIn(v View)
}

// DidTransitionOutHook runs when an exit or hide transition completes.
type DidTransitionOutHook interface {
	DidTransitionOut(v View)
}

// ContentSource supplies the content rendered into a node's layer.
type ContentSource interface {
	Content() string
}

// ContentObservable is a ContentSource that announces changes. The tree
// subscribes while the node has a layer.
type ContentObservable interface {
	ContentSource
	Subscribe(changed func()) (cancel func())
}

func (t *Tree) hookWillAddToParent(n, p *node) {
	if h, ok := n.delegate.(WillAddToParentHook); ok {
		defer errors.Recover("view.hook.WillAddToParent")
		h.WillAddToParent(t.View(n.id), t.View(p.id))
	}
}

func (t *Tree) hookDidAddToParent(n, p *node) {
	if h, ok := n.delegate.(DidAddToParentHook); ok {
		defer errors.Recover("view.hook.DidAddToParent")
		h.DidAddToParent(t.View(n.id), t.View(p.id))
	}
}

func (t *Tree) hookWillAddChild(p, c *node) {
	if h, ok := p.delegate.(WillAddChildHook); ok {
		defer errors.Recover("view.hook.WillAddChild")
		h.WillAddChild(t.View(p.id), t.View(c.id))
	}
}

func (t *Tree) hookDidAddChild(p, c *node) {
	if h, ok := p.delegate.(DidAddChildHook); ok {
		defer errors.Recover("view.hook.DidAddChild")
		h.DidAddChild(t.View(p.id), t.View(c.id))
	}
}

func (t *Tree) hookDidRemoveFromParent(n, p *node) {
	if h, ok := n.delegate.(DidRemoveFromParentHook); ok {
		defer errors.Recover("view.hook.DidRemoveFromParent")
		h.DidRemoveFromParent(t.View(n.id), t.View(p.id))
	}
}

func (t *Tree) hookDidRemoveChild(p, c *node) {
	if h, ok := p.delegate.(DidRemoveChildHook); ok {
		defer errors.Recover("view.hook.DidRemoveChild")
		h.DidRemoveChild(t.View(p.id), t.View(c.id))
	}
}

func (t *Tree) hookDidCreateLayer(n *node) {
	if h, ok := n.delegate.(DidCreateLayerHook); ok {
		defer errors.Recover("view.hook.DidCreateLayer")
		h.DidCreateLayer(t.View(n.id))
	}
}

func (t *Tree) hookWillDestroyLayer(n *node) {
	if h, ok := n.delegate.(WillDestroyLayerHook); ok {
		defer errors.Recover("view.hook.WillDestroyLayer")
		h.WillDestroyLayer(t.View(n.id))
	}
}

func (t *Tree) hookDidAppendToDocument(n *node) {
	if h, ok := n.delegate.(DidAppendToDocumentHook); ok {
		defer errors.Recover("view.hook.DidAppendToDocument")
		h.DidAppendToDocument(t.View(n.id))
	}
}

func (t *Tree) hookWillRemoveFromDocument(n *node) {
	if h, ok := n.delegate.(WillRemoveFromDocumentHook); ok {
		defer errors.Recover("view.hook.WillRemoveFromDocument")
		h.WillRemoveFromDocument(t.View(n.id))
	}
}

func (t *Tree) hookDidRemoveFromDocument(n *node) {
	if h, ok := n.delegate.(DidRemoveFromDocumentHook); ok {
		defer errors.Recover("view.hook.DidRemoveFromDocument")
		h.DidRemoveFromDocument(t.View(n.id))
	}
}

func (t *Tree) hookWillShowInDocument(n *node) {
	if h, ok := n.delegate.(WillShowInDocumentHook); ok {
		defer errors.Recover("view.hook.WillShowInDocument")
		h.WillShowInDocument(t.View(n.id))
	}
}

func (t *Tree) hookDidShowInDocument(n *node) {
	if h, ok := n.delegate.(DidShowInDocumentHook); ok {
		defer errors.Recover("view.hook.DidShowInDocument")
		h.DidShowInDocument(t.View(n.id))
	}
}

func (t *Tree) hookWillHideInDocument(n *node) {
	if h, ok := n.delegate.(WillHideInDocumentHook); ok {
		defer errors.Recover("view.hook.WillHideInDocument")
		h.WillHideInDocument(t.View(n.id))
	}
}

func (t *Tree) hookDidHideInDocument(n *node) {
	if h, ok := n.delegate.(DidHideInDocumentHook); ok {
		defer errors.Recover("view.hook.DidHideInDocument")
		h.DidHideInDocument(t.View(n.id))
	}
}

func (t *Tree) hookDidTransitionIn(n *node) {
	if h, ok := n.delegate.(DidTransitionInHook); ok {
		defer errors.Recover("view.hook.DidTransitionIn")
		h.DidTransitionIn(t.View(n.id))
	}
}

func (t *Tree) hookDidTransitionOut(n *node) {
	if h, ok := n.delegate.(DidTransitionOutHook); ok {
		defer errors.Recover("view.hook.DidTransitionOut")
		h.DidTransitionOut(t.View(n.id))
	}
}

func (t *Tree) content(n *node) string {
	if cs, ok := n.delegate.(ContentSource); ok {
		defer errors.Recover("view.ContentSource")
		return cs.Content()
	}
	return n.content
}

func (t *Tree) subscribe(n *node) {
	obs, ok := n.delegate.(ContentObservable)
	if !ok || n.unsubscribe != nil {
		return
	}
	id := n.id
	n.unsubscribe = obs.Subscribe(func() { t.UpdateContent(id, false) })
	if n.unsubscribe == nil {
		n.unsubscribe = func() {}
	}
}

func (t *Tree) unsubscribeContent(n *node) {
	if n.unsubscribe != nil {
		n.unsubscribe()
		n.unsubscribe = nil
	}
}
