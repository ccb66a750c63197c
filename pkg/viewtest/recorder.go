package viewtest

import (
	"strings"

	"github.com/go-drift/viewtree/pkg/view"
)

// Recorder is a delegate that logs every lifecycle hook as "Hook name", or
// "Hook name other" for hooks naming a second view. One Recorder may serve
// as the delegate of many nodes to capture their relative hook order.
type Recorder struct {
	Events []string
}

var (
	_ view.WillAddToParentHook        = (*Recorder)(nil)
	_ view.DidAddToParentHook         = (*Recorder)(nil)
	_ view.WillAddChildHook           = (*Recorder)(nil)
	_ view.DidAddChildHook            = (*Recorder)(nil)
	_ view.DidRemoveFromParentHook    = (*Recorder)(nil)
	_ view.DidRemoveChildHook         = (*Recorder)(nil)
	_ view.DidCreateLayerHook         = (*Recorder)(nil)
	_ view.WillDestroyLayerHook       = (*Recorder)(nil)
	_ view.DidAppendToDocumentHook    = (*Recorder)(nil)
	_ view.WillRemoveFromDocumentHook = (*Recorder)(nil)
	_ view.DidRemoveFromDocumentHook  = (*Recorder)(nil)
	_ view.WillShowInDocumentHook     = (*Recorder)(nil)
	_ view.DidShowInDocumentHook      = (*Recorder)(nil)
	_ view.WillHideInDocumentHook     = (*Recorder)(nil)
	_ view.DidHideInDocumentHook      = (*Recorder)(nil)
	_ view.DidTransitionInHook        = (*Recorder)(nil)
	_ view.DidTransitionOutHook       = (*Recorder)(nil)
)

func (r *Recorder) add(hook string, v view.View, other ...view.View) {
	e := hook + " " + v.Name()
	for _, o := range other {
		e += " " + o.Name()
	}
	r.Events = append(r.Events, e)
}

func (r *Recorder) WillAddToParent(v, parent view.View) { r.add("WillAddToParent", v, parent) }
func (r *Recorder) DidAddToParent(v, parent view.View)  { r.add("DidAddToParent", v, parent) }
func (r *Recorder) WillAddChild(v, child view.View)     { r.add("WillAddChild", v, child) }
func (r *Recorder) DidAddChild(v, child view.View)      { r.add("DidAddChild", v, child) }
func (r *Recorder) DidRemoveFromParent(v, p view.View)  { r.add("DidRemoveFromParent", v, p) }
func (r *Recorder) DidRemoveChild(v, child view.View)   { r.add("DidRemoveChild", v, child) }
func (r *Recorder) DidCreateLayer(v view.View)          { r.add("DidCreateLayer", v) }
func (r *Recorder) WillDestroyLayer(v view.View)        { r.add("WillDestroyLayer", v) }
func (r *Recorder) DidAppendToDocument(v view.View)     { r.add("DidAppendToDocument", v) }
func (r *Recorder) WillRemoveFromDocument(v view.View)  { r.add("WillRemoveFromDocument", v) }
func (r *Recorder) DidRemoveFromDocument(v view.View)   { r.add("DidRemoveFromDocument", v) }
func (r *Recorder) WillShowInDocument(v view.View)      { r.add("WillShowInDocument", v) }
func (r *Recorder) DidShowInDocument(v view.View)       { r.add("DidShowInDocument", v) }
func (r *Recorder) WillHideInDocument(v view.View)      { r.add("WillHideInDocument", v) }
func (r *Recorder) DidHideInDocument(v view.View)       { r.add("DidHideInDocument", v) }
func (r *Recorder) DidTransitionIn(v view.View)         { r.add("DidTransitionIn", v) }
func (r *Recorder) DidTransitionOut(v view.View)        { r.add("DidTransitionOut", v) }

// Only returns the recorded events whose hook is one of hooks.
func (r *Recorder) Only(hooks ...string) []string {
	var out []string
	for _, e := range r.Events {
		hook, _, _ := strings.Cut(e, " ")
		for _, h := range hooks {
			if h == hook {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Reset clears the recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}
