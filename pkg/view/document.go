package view

import "github.com/go-drift/viewtree/pkg/lifecycle"

// Notification cascades. Each walks the subtree below a node whose state
// just changed and brings the descendants in line.

func (t *Tree) flushPendingUpdates(n *node) {
	if n.layer == nil {
		return
	}
	if n.pendingContentUpdate {
		n.pendingContentUpdate = false
		t.r.UpdateLayerContent(n.layer, t.content(n))
	}
	if n.pendingVisibleStyleUpdate {
		n.pendingVisibleStyleUpdate = false
		t.r.ApplyVisibleStyle(n.layer, n.visible)
	}
}

func (t *Tree) applyVisibleStyle(n *node) {
	n.pendingVisibleStyleUpdate = false
	t.r.ApplyVisibleStyle(n.layer, n.visible)
}

// enterDocument moves a node whose layer just became part of the document
// into its attached state and cascades to its children.
func (t *Tree) enterDocument(n *node) {
	t.flushPendingUpdates(n)
	p := t.parentOf(n)
	switch {
	case !n.visible:
		t.setState(n, lifecycle.AttachedHidden)
	case p != nil && !lifecycle.IsShown(p.state):
		t.setState(n, lifecycle.AttachedHiddenByParent)
	case n.has(TransitionIn):
		t.setState(n, lifecycle.AttachedBuildingIn)
		t.startTransition(n, TransitionIn, false)
	default:
		t.setState(n, lifecycle.AttachedShown)
	}
	for _, cid := range n.children {
		t.parentDidAppendToDocument(t.get(cid))
	}
	t.hookDidAppendToDocument(n)
}

func (t *Tree) parentDidAppendToDocument(c *node) {
	if c == nil || !c.layerInParent || !lifecycle.IsRendered(c.state) || lifecycle.IsAttached(c.state) {
		return
	}
	t.enterDocument(c)
}

// notifyWillRemove fires will-remove hooks top-down over the attached part
// of the subtree.
func (t *Tree) notifyWillRemove(n *node) {
	t.hookWillRemoveFromDocument(n)
	for _, cid := range n.children {
		if c := t.get(cid); c != nil && lifecycle.IsAttached(c.state) {
			t.notifyWillRemove(c)
		}
	}
}

// leaveDocument settles a subtree that is no longer in the document.
// Descendant layers stay inserted in their parents' layers, except those
// of descendants that were already leaving on their own. A counted node
// leaves its owner's barrier last, once it is UNATTACHED.
func (t *Tree) leaveDocument(n *node) {
	t.settle(n)
	bo := n.buildingOut
	n.buildingOut = nil
	for _, cid := range n.children {
		c := t.get(cid)
		if c == nil || !lifecycle.IsAttached(c.state) {
			continue
		}
		if c.state == lifecycle.AttachedBuildingOut {
			t.r.DetachLayer(c.layer)
			c.layerInParent = false
		}
		t.leaveDocument(c)
	}
	owner, counted := n.owningView, n.counted
	n.owningView = None
	n.counted = false
	if bo != nil {
		t.notifyBuildOutFinished(n, true)
	}
	t.setState(n, lifecycle.Unattached)
	t.hookDidRemoveFromDocument(n)
	if counted {
		t.leaveBarrier(owner)
	}
}

// executeDoDetach removes a node's layer from the document.
func (t *Tree) executeDoDetach(n *node) {
	t.notifyWillRemove(n)
	t.r.DetachLayer(n.layer)
	n.layerInParent = false
	bo := n.buildingOut
	n.buildingOut = nil
	t.leaveDocument(n)
	if bo != nil {
		t.notifyBuildOutFinished(n, false)
	}
}

func (t *Tree) notifyWillShow(n *node) {
	t.hookWillShowInDocument(n)
	for _, cid := range n.children {
		if c := t.get(cid); c != nil && c.state == lifecycle.AttachedHiddenByParent {
			t.notifyWillShow(c)
		}
	}
}

func (t *Tree) executeDoShow(n *node) {
	t.flushPendingUpdates(n)
	t.applyVisibleStyle(n)
	if n.has(TransitionShow) {
		t.setState(n, lifecycle.AttachedShowing)
		t.startTransition(n, TransitionShow, false)
	} else {
		t.setState(n, lifecycle.AttachedShown)
	}
	for _, cid := range n.children {
		t.parentDidShowInDocument(t.get(cid))
	}
	t.hookDidShowInDocument(n)
}

func (t *Tree) parentDidShowInDocument(c *node) {
	if c == nil || c.state != lifecycle.AttachedHiddenByParent {
		return
	}
	t.flushPendingUpdates(c)
	t.setState(c, lifecycle.AttachedShown)
	for _, cid := range c.children {
		t.parentDidShowInDocument(t.get(cid))
	}
	t.hookDidShowInDocument(c)
}

func (t *Tree) notifyWillHide(n *node) {
	t.hookWillHideInDocument(n)
	for _, cid := range n.children {
		c := t.get(cid)
		if c == nil {
			continue
		}
		switch c.state {
		case lifecycle.AttachedShown, lifecycle.AttachedShownAnimating,
			lifecycle.AttachedBuildingIn, lifecycle.AttachedShowing, lifecycle.AttachedHiding:
			t.notifyWillHide(c)
		}
	}
}

// hideShown hides a shown node, through its hide transition when it has
// one. inPlace continues from an interrupted transition's layout.
func (t *Tree) hideShown(n *node, inPlace bool) {
	t.notifyWillHide(n)
	if n.has(TransitionHide) {
		t.setState(n, lifecycle.AttachedHiding)
		t.startTransition(n, TransitionHide, inPlace)
		return
	}
	t.executeDoHide(n)
}

func (t *Tree) executeDoHide(n *node) {
	t.r.ApplyVisibleStyle(n.layer, false)
	n.pendingVisibleStyleUpdate = false
	t.teardown(n)
	t.setState(n, lifecycle.AttachedHidden)
	for _, cid := range n.children {
		t.parentDidHideInDocument(t.get(cid))
	}
	t.hookDidHideInDocument(n)
}

func (t *Tree) parentDidHideInDocument(c *node) {
	if c == nil {
		return
	}
	switch c.state {
	case lifecycle.AttachedShown, lifecycle.AttachedShownAnimating,
		lifecycle.AttachedBuildingIn, lifecycle.AttachedShowing, lifecycle.AttachedHiding:
		t.settle(c)
		if c.visible {
			t.setState(c, lifecycle.AttachedHiddenByParent)
		} else {
			t.applyVisibleStyle(c)
			t.setState(c, lifecycle.AttachedHidden)
		}
		for _, cid := range c.children {
			t.parentDidHideInDocument(t.get(cid))
		}
		t.hookDidHideInDocument(c)
	case lifecycle.AttachedBuildingOut:
		// Already leaving; it would finish out of sight.
		t.executeDoDetach(c)
	}
}

// reenter returns an attached node whose exit was called off to the state
// it would have entered the document in. inPlace continues an entry
// transition from wherever the exit left the node.
func (t *Tree) reenter(n *node) {
	p := t.parentOf(n)
	switch {
	case !n.visible:
		t.teardown(n)
		t.applyVisibleStyle(n)
		t.setState(n, lifecycle.AttachedHidden)
	case p != nil && !lifecycle.IsShown(p.state):
		t.teardown(n)
		t.setState(n, lifecycle.AttachedHiddenByParent)
	case n.has(TransitionIn):
		t.setState(n, lifecycle.AttachedBuildingIn)
		t.startTransition(n, TransitionIn, true)
	default:
		t.teardown(n)
		t.setState(n, lifecycle.AttachedShown)
	}
}
