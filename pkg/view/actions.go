package view

import (
	"slices"

	"github.com/go-drift/viewtree/pkg/lifecycle"
	"github.com/go-drift/viewtree/pkg/renderer"
)

// Render creates the node's layer and renders its unrendered children into
// it. When the parent has a layer the node is attached into it right away.
// Render is a no-op on a node that already has a layer.
func (t *Tree) Render(id ID) bool {
	n := t.get(id)
	if n == nil || n.state != lifecycle.Unrendered {
		return false
	}
	t.executeDoRender(n)
	if p := t.parentOf(n); p != nil && lifecycle.IsRendered(p.state) {
		t.executeDoAttach(n, t.nextLayeredSibling(n))
	}
	return true
}

func (t *Tree) executeDoRender(n *node) {
	n.layer = t.r.CreateLayer(renderer.LayerSpec{Name: n.label(), Class: n.class})
	t.r.ApplyLayout(n.layer, n.layout)
	t.r.UpdateLayerContent(n.layer, t.content(n))
	t.r.ApplyVisibleStyle(n.layer, n.visible)
	n.pendingContentUpdate = false
	n.pendingVisibleStyleUpdate = false
	t.subscribe(n)
	t.setState(n, lifecycle.Unattached)
	t.hookDidCreateLayer(n)

	for _, cid := range n.children {
		c := t.get(cid)
		if c == nil {
			continue
		}
		if c.state == lifecycle.Unrendered {
			t.executeDoRender(c)
		}
		if c.state == lifecycle.Unattached && !c.layerInParent {
			t.r.AttachLayer(c.layer, n.layer, nil)
			c.layerInParent = true
			t.setState(c, lifecycle.UnattachedByParent)
		}
	}
}

// nextLayeredSibling returns the first later sibling whose layer sits in
// the parent's layer.
func (t *Tree) nextLayeredSibling(n *node) *node {
	p := t.parentOf(n)
	if p == nil {
		return nil
	}
	i := slices.Index(p.children, n.id)
	if i < 0 {
		return nil
	}
	for _, sid := range p.children[i+1:] {
		if s := t.get(sid); s != nil && s.layer != nil && s.layerInParent {
			return s
		}
	}
	return nil
}

// executeDoAttach inserts the node's layer into its parent's layer, or the
// surface for a root, and enters the document when the parent is in it.
func (t *Tree) executeDoAttach(n *node, before *node) bool {
	p := t.parentOf(n)
	var parentLayer, beforeLayer renderer.Layer
	if p != nil {
		if p.layer == nil {
			t.assert(n, "view.Attach", "parent %s has no layer", p.label())
			return false
		}
		parentLayer = p.layer
	}
	if before != nil && before.layer != nil && before.parent == n.parent && before != n {
		beforeLayer = before.layer
	}
	t.flushPendingUpdates(n)
	t.r.AttachLayer(n.layer, parentLayer, beforeLayer)
	n.layerInParent = p != nil
	if p == nil || lifecycle.IsAttached(p.state) {
		t.enterDocument(n)
	} else {
		t.setState(n, lifecycle.UnattachedByParent)
	}
	return true
}

// Attach inserts the node's layer into the document, before the layer of
// sibling before when given. Attaching a node that is building out calls
// the removal off and brings the node back.
func (t *Tree) Attach(id, before ID) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	switch n.state {
	case lifecycle.Unattached:
		b := t.get(before)
		if b == nil {
			b = t.nextLayeredSibling(n)
		}
		return t.executeDoAttach(n, b)
	case lifecycle.AttachedBuildingOut:
		t.cancelBuildOut(n)
		return true
	case lifecycle.AttachedBuildingOutByParent:
		t.warn(n, "view.Attach", "recalled while %s is being removed", t.Name(n.owningView))
		t.recallFromBuildOut(n)
		return true
	case lifecycle.Unrendered:
		t.assert(n, "view.Attach", "render before attaching")
	case lifecycle.UnattachedByParent:
		t.assert(n, "view.Attach", "attached by its parent; attach %s instead", t.Name(n.parent))
	}
	return false
}

// Detach takes the node out of the document. A shown node first runs the
// exit transitions of itself and its subtree unless immediately is set.
func (t *Tree) Detach(id ID, immediately bool) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	switch n.state {
	case lifecycle.Unrendered, lifecycle.Unattached:
		return false
	case lifecycle.UnattachedByParent:
		t.r.DetachLayer(n.layer)
		n.layerInParent = false
		t.setState(n, lifecycle.Unattached)
	case lifecycle.AttachedShownAnimating:
		t.cancelLayoutAnimation(n, LayoutEnd)
		return t.detachAttached(n, immediately, false)
	case lifecycle.AttachedShown:
		return t.detachAttached(n, immediately, false)
	case lifecycle.AttachedBuildingIn, lifecycle.AttachedShowing, lifecycle.AttachedHiding:
		t.cancelTransition(n)
		return t.detachAttached(n, immediately, true)
	case lifecycle.AttachedHidden, lifecycle.AttachedHiddenByParent:
		return t.detachAttached(n, immediately, false)
	case lifecycle.AttachedBuildingOut:
		if immediately {
			t.executeDoDetach(n)
		}
	case lifecycle.AttachedBuildingOutByParent:
		if !immediately {
			return true
		}
		t.cancelTransition(n)
		t.releaseFromOwner(n)
		if lifecycle.IsAttached(n.state) {
			t.executeDoDetach(n)
		}
	}
	return true
}

func (t *Tree) detachAttached(n *node, immediately, inPlace bool) bool {
	if immediately {
		t.executeDoDetach(n)
		return true
	}
	t.detachShown(n, inPlace)
	return true
}

// Show turns the node's visibility on. A node under a hidden ancestor stays
// hidden by that ancestor; an unattached node picks the change up when it
// next enters the document.
func (t *Tree) Show(id ID) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	n.visible = true
	switch n.state {
	case lifecycle.AttachedHidden:
		if p := t.parentOf(n); p != nil && !lifecycle.IsShown(p.state) {
			n.pendingVisibleStyleUpdate = true
			t.setState(n, lifecycle.AttachedHiddenByParent)
			return true
		}
		t.notifyWillShow(n)
		t.executeDoShow(n)
	case lifecycle.AttachedHiding:
		t.cancelTransition(n)
		t.teardown(n)
		t.setState(n, lifecycle.AttachedShown)
	case lifecycle.AttachedHiddenByParent:
		t.applyVisibleStyle(n)
	case lifecycle.Unattached, lifecycle.UnattachedByParent:
		n.pendingVisibleStyleUpdate = true
	default:
		return false
	}
	return true
}

// Hide turns the node's visibility off, through its hide transition when
// it is shown and has one.
func (t *Tree) Hide(id ID) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	n.visible = false
	switch n.state {
	case lifecycle.AttachedShownAnimating:
		t.cancelLayoutAnimation(n, LayoutEnd)
		t.hideShown(n, false)
	case lifecycle.AttachedShown:
		t.hideShown(n, false)
	case lifecycle.AttachedBuildingIn:
		t.cancelTransition(n)
		t.hideShown(n, true)
	case lifecycle.AttachedShowing:
		t.cancelTransition(n)
		t.notifyWillHide(n)
		t.executeDoHide(n)
	case lifecycle.AttachedHiddenByParent:
		t.applyVisibleStyle(n)
		t.setState(n, lifecycle.AttachedHidden)
	case lifecycle.Unattached, lifecycle.UnattachedByParent:
		n.pendingVisibleStyleUpdate = true
	default:
		return false
	}
	return true
}

// DestroyLayer destroys the layers of an unattached node and its
// descendants, returning them all to UNRENDERED.
func (t *Tree) DestroyLayer(id ID) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	switch n.state {
	case lifecycle.Unattached:
		t.notifyWillDestroyLayer(n)
		t.releaseLayer(n)
		return true
	case lifecycle.Unrendered:
		return false
	}
	t.assert(n, "view.DestroyLayer", "detach before destroying the layer")
	return false
}

func (t *Tree) notifyWillDestroyLayer(n *node) {
	t.hookWillDestroyLayer(n)
	for _, cid := range n.children {
		if c := t.get(cid); c != nil && c.layer != nil {
			t.notifyWillDestroyLayer(c)
		}
	}
}

func (t *Tree) releaseLayer(n *node) {
	for _, cid := range n.children {
		if c := t.get(cid); c != nil && c.layer != nil {
			t.settle(c)
			t.releaseLayer(c)
		}
	}
	t.unsubscribeContent(n)
	if n.layerInParent {
		t.r.DetachLayer(n.layer)
		n.layerInParent = false
	}
	t.r.DestroyLayer(n.layer)
	n.layer = nil
	n.pendingContentUpdate = false
	n.pendingVisibleStyleUpdate = false
	t.setState(n, lifecycle.Unrendered)
}

// UpdateContent re-renders the node's content into its layer now if the
// node is shown in the document, or on force. Otherwise the update is
// deferred until the node is next attached or shown.
func (t *Tree) UpdateContent(id ID, force bool) bool {
	n := t.get(id)
	if n == nil || n.layer == nil {
		return false
	}
	if force || (lifecycle.IsAttached(n.state) && lifecycle.IsShown(n.state)) {
		n.pendingContentUpdate = false
		t.r.UpdateLayerContent(n.layer, t.content(n))
		return true
	}
	n.pendingContentUpdate = true
	return true
}

// SetContent replaces the node's static content and updates its layer.
func (t *Tree) SetContent(id ID, content string) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	n.content = content
	if n.layer == nil {
		return true
	}
	return t.UpdateContent(id, false)
}

// Adopt makes id a child of parent, inserted before sibling before or
// last when before is None, and brings the node's lifecycle in line with
// the parent's. A node with a different parent is orphaned first.
func (t *Tree) Adopt(id, parent, before ID) bool {
	n, p := t.get(id), t.get(parent)
	if n == nil || p == nil || n == p {
		return false
	}
	if t.isAncestor(n, p) {
		t.assert(n, "view.Adopt", "%s is a descendant", p.label())
		return false
	}
	if before != None {
		if b := t.get(before); b == nil || b.parent != parent || b == n {
			t.assert(n, "view.Adopt", "%s is not a child of %s; appending", t.Name(before), p.label())
			before = None
		}
	}
	if n.parent == parent {
		t.reorder(n, p, before)
		return true
	}
	if n.parent != None {
		t.warn(n, "view.Adopt", "still a child of %s; orphaning", t.Name(n.parent))
		t.Orphan(id)
	}

	t.hookWillAddToParent(n, p)
	t.hookWillAddChild(p, n)
	t.insertChild(p, n.id, before)
	n.parent = parent

	switch {
	case p.state == lifecycle.Unrendered:
		if lifecycle.IsAttached(n.state) {
			t.executeDoDetach(n)
		}
		if n.layerInParent {
			t.r.DetachLayer(n.layer)
			n.layerInParent = false
			t.setState(n, lifecycle.Unattached)
		}
		if n.layer != nil {
			t.DestroyLayer(id)
		}
	case n.state == lifecycle.Unrendered:
		t.Render(id)
	case lifecycle.IsAttached(n.state):
		t.warn(n, "view.Adopt", "moved while attached; detaching first")
		t.executeDoDetach(n)
		t.executeDoAttach(n, t.nextLayeredSibling(n))
	default:
		t.executeDoAttach(n, t.nextLayeredSibling(n))
	}

	t.hookDidAddChild(p, n)
	t.hookDidAddToParent(n, p)
	return true
}

func (t *Tree) isAncestor(n, of *node) bool {
	for a := of; a != nil; a = t.parentOf(a) {
		if a == n {
			return true
		}
	}
	return false
}

func (t *Tree) insertChild(p *node, id, before ID) {
	if i := slices.Index(p.children, before); before != None && i >= 0 {
		p.children = slices.Insert(p.children, i, id)
		return
	}
	p.children = append(p.children, id)
}

func (t *Tree) reorder(n, p *node, before ID) {
	if i := slices.Index(p.children, n.id); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	t.insertChild(p, n.id, before)
	if n.layerInParent {
		var beforeLayer renderer.Layer
		if s := t.nextLayeredSibling(n); s != nil {
			beforeLayer = s.layer
		}
		t.r.AttachLayer(n.layer, p.layer, beforeLayer)
	}
}

// Orphan unlinks the node from its parent. Its lifecycle state and layer
// are left alone, except that a node building out for an ancestor carries
// on as the owner of its own removal.
func (t *Tree) Orphan(id ID) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	p := t.parentOf(n)
	if p == nil {
		return false
	}
	if i := slices.Index(p.children, id); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = None
	if n.state == lifecycle.AttachedBuildingOutByParent {
		t.splitBuildOut(n)
	}
	t.hookDidRemoveChild(p, n)
	t.hookDidRemoveFromParent(n, p)
	return true
}

// AppendChild adopts child as the last child of parent.
func (t *Tree) AppendChild(parent, child ID) bool {
	return t.Adopt(child, parent, None)
}

// RemoveChild detaches child, running its exit transitions, and orphans
// it. The layer is kept so the node can be adopted elsewhere.
func (t *Tree) RemoveChild(parent, child ID) bool {
	c := t.get(child)
	if c == nil || c.parent != parent || parent == None {
		return false
	}
	t.Detach(child, false)
	return t.Orphan(child)
}

// RemoveFromParent is RemoveChild on the node's current parent.
func (t *Tree) RemoveFromParent(id ID) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	return t.RemoveChild(n.parent, id)
}

// ReplaceChild adopts child in old's place, then removes old.
func (t *Tree) ReplaceChild(parent, child, old ID) bool {
	o := t.get(old)
	if o == nil || o.parent != parent || parent == None || child == old {
		return false
	}
	if !t.Adopt(child, parent, old) {
		return false
	}
	return t.RemoveChild(parent, old)
}

// Release tears the node and its descendants down and frees their IDs.
// IDs are never reused.
func (t *Tree) Release(id ID) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	if lifecycle.IsAttached(n.state) {
		t.executeDoDetach(n)
	}
	if n.state == lifecycle.UnattachedByParent {
		t.r.DetachLayer(n.layer)
		n.layerInParent = false
		t.setState(n, lifecycle.Unattached)
	}
	if n.layer != nil {
		t.DestroyLayer(id)
	}
	t.Orphan(id)
	t.free(n)
	return true
}

func (t *Tree) free(n *node) {
	for _, cid := range n.children {
		if c := t.get(cid); c != nil {
			t.free(c)
		}
	}
	n.children = nil
	t.nodes[n.id-1] = nil
}
