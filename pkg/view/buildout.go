package view

import "github.com/go-drift/viewtree/pkg/lifecycle"

// Deferred removal.
//
// Detaching a shown node R without immediately runs every exit transition
// in its subtree before R's layer leaves the document. Descendants that
// have an exit transition enter BUILDING_OUT_BY_PARENT, record R as their
// owning view and count themselves into R's barrier. Descendants without
// one leave the document at once; their layers stay inside R's layer. R
// itself detaches when the count is back to zero and its own exit
// transition, if any, has finished. Descendants may finish in any order.

func (t *Tree) detachShown(n *node, inPlace bool) {
	n.buildingOut = &buildOut{}
	t.notifyBuildOutStarted(n)
	for _, cid := range n.children {
		t.parentWillBuildOut(t.get(cid), n)
	}
	if n.has(TransitionOut) {
		n.buildingOut.self = true
		t.setState(n, lifecycle.AttachedBuildingOut)
		t.startTransition(n, TransitionOut, inPlace)
		return
	}
	t.teardown(n)
	t.setState(n, lifecycle.AttachedBuildingOut)
	t.finishBuildOutIfDone(n)
}

func (t *Tree) parentWillBuildOut(c, owner *node) {
	if c == nil {
		return
	}
	switch c.state {
	case lifecycle.AttachedShown, lifecycle.AttachedShownAnimating,
		lifecycle.AttachedShowing, lifecycle.AttachedBuildingIn:
		if !c.has(TransitionOut) {
			t.removeByParent(c)
			return
		}
		inPlace := c.state == lifecycle.AttachedShowing || c.state == lifecycle.AttachedBuildingIn
		if inPlace {
			t.cancelTransition(c)
		} else {
			t.cancelLayoutAnimation(c, LayoutEnd)
		}
		owner.buildingOut.count++
		c.owningView = owner.id
		c.counted = true
		t.setState(c, lifecycle.AttachedBuildingOutByParent)
		t.startTransition(c, TransitionOut, inPlace)
		for _, gid := range c.children {
			t.parentWillBuildOut(t.get(gid), owner)
		}
	case lifecycle.AttachedHidden, lifecycle.AttachedHiddenByParent, lifecycle.AttachedHiding:
		t.removeByParent(c)
	}
}

// removeByParent takes a descendant out of the document without touching
// its layer's position.
func (t *Tree) removeByParent(c *node) {
	t.notifyWillRemove(c)
	t.leaveDocument(c)
}

// releaseFromOwner takes a finished or recalled descendant out of its
// owning view's barrier. The owning view link stays until the node leaves
// the document or is recalled.
func (t *Tree) releaseFromOwner(c *node) {
	if !c.counted {
		return
	}
	c.counted = false
	t.leaveBarrier(c.owningView)
}

// leaveBarrier takes one count off owner's pending build-out. An owner
// whose build-out is already being torn down has no barrier left.
func (t *Tree) leaveBarrier(owner ID) {
	o := t.get(owner)
	if o == nil || o.buildingOut == nil {
		return
	}
	o.buildingOut.count--
	t.finishBuildOutIfDone(o)
}

// finishBuildOutIfDone removes n once the barrier is empty. The owner also
// waits for its own exit transition, so a descendant that finishes first
// does not cut the owner's exit short.
func (t *Tree) finishBuildOutIfDone(n *node) {
	if n.state != lifecycle.AttachedBuildingOut {
		return
	}
	if bo := n.buildingOut; bo != nil && (bo.count > 0 || bo.self) {
		return
	}
	t.executeDoDetach(n)
}

// splitBuildOut makes a BUILDING_OUT_BY_PARENT node that was orphaned from
// its owning view's subtree the owner of its own removal. Its counted
// descendants move to its barrier.
func (t *Tree) splitBuildOut(n *node) {
	ownerID := n.owningView
	owner := t.get(ownerID)
	bo := &buildOut{self: n.active == TransitionOut}
	var move func(c *node)
	move = func(c *node) {
		for _, cid := range c.children {
			d := t.get(cid)
			if d == nil || d.owningView != ownerID {
				continue
			}
			d.owningView = n.id
			if d.counted {
				bo.count++
				if owner != nil && owner.buildingOut != nil {
					owner.buildingOut.count--
				}
			}
			move(d)
		}
	}
	move(n)

	if n.counted && owner != nil && owner.buildingOut != nil {
		owner.buildingOut.count--
	}
	n.counted = false
	n.owningView = None
	n.buildingOut = bo
	t.notifyBuildOutStarted(n)
	t.setState(n, lifecycle.AttachedBuildingOut)
	if owner != nil {
		t.finishBuildOutIfDone(owner)
	}
	t.finishBuildOutIfDone(n)
}

// cancelBuildOut calls off a node's own deferred removal.
func (t *Tree) cancelBuildOut(n *node) {
	t.cancelTransition(n)
	bo := n.buildingOut
	n.buildingOut = nil
	t.reenter(n)
	for _, cid := range n.children {
		t.parentDidCancelBuildOut(t.get(cid))
	}
	if bo != nil {
		t.notifyBuildOutFinished(n, true)
	}
}

func (t *Tree) parentDidCancelBuildOut(c *node) {
	if c == nil {
		return
	}
	switch {
	case c.state == lifecycle.AttachedBuildingOutByParent:
		t.cancelTransition(c)
		c.owningView = None
		c.counted = false
		t.reenter(c)
		for _, gid := range c.children {
			t.parentDidCancelBuildOut(t.get(gid))
		}
	case c.layerInParent && lifecycle.IsRendered(c.state) && !lifecycle.IsAttached(c.state):
		t.enterDocument(c)
	}
}

// recallFromBuildOut brings a single BUILDING_OUT_BY_PARENT node back while
// its owner's removal goes on.
func (t *Tree) recallFromBuildOut(n *node) {
	t.cancelTransition(n)
	t.reenter(n)
	t.releaseFromOwner(n)
	n.owningView = None
}
