package viewtest

import (
	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/view"
)

// Run is one recorded plugin invocation.
type Run struct {
	View     view.View
	Options  view.TransitionOptions
	Pre      layout.Layout
	PreFrame layout.Rect
	InPlace  bool
}

// ManualTransition is a transition plugin that never finishes on its own.
// Tests complete runs explicitly with CompleteIn and CompleteOut, and may
// keep a run's handle around to exercise late completion.
type ManualTransition struct {
	// Keys, when non-zero, is reported through LayoutKeys.
	Keys layout.Key
	// SetupLayout, when set, is applied to the node's layout before the run.
	SetupLayout func(l layout.Layout) layout.Layout

	Runs      []Run
	Cancelled []view.View

	inPlace bool
}

func (m *ManualTransition) Setup(v view.View, _ view.TransitionOptions, inPlace bool) {
	m.inPlace = inPlace
	if m.SetupLayout != nil && !inPlace {
		v.SetLayout(m.SetupLayout(v.Layout()))
	}
}

func (m *ManualTransition) Run(v view.View, opts view.TransitionOptions, pre layout.Layout, preFrame layout.Rect) {
	m.Runs = append(m.Runs, Run{View: v, Options: opts, Pre: pre, PreFrame: preFrame, InPlace: m.inPlace})
	m.inPlace = false
}

func (m *ManualTransition) Cancel(v view.View) {
	m.Cancelled = append(m.Cancelled, v)
}

func (m *ManualTransition) LayoutKeys() layout.Key {
	if m.Keys == 0 {
		return layout.KeyAll
	}
	return m.Keys
}

// Last returns the most recent run on id.
func (m *ManualTransition) Last(id view.ID) (Run, bool) {
	for i := len(m.Runs) - 1; i >= 0; i-- {
		if m.Runs[i].View.ID() == id {
			return m.Runs[i], true
		}
	}
	return Run{}, false
}

// CompleteIn reports completion of the latest run on id as an entry.
func (m *ManualTransition) CompleteIn(id view.ID) bool {
	r, ok := m.Last(id)
	return ok && r.View.DidTransitionIn()
}

// CompleteOut reports completion of the latest run on id as an exit.
func (m *ManualTransition) CompleteOut(id view.ID) bool {
	r, ok := m.Last(id)
	return ok && r.View.DidTransitionOut()
}

// Transition wraps m for use in view.Options.
func (m *ManualTransition) Transition() view.Transition {
	return view.Transition{Plugin: m}
}
