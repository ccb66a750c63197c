// Package lifecycle defines the states a view node moves through while it is
// rendered, attached, shown and hidden, and the membership flags each state
// implies.
//
// The state set is closed: every node is in exactly one of the twelve
// states below. Flags are derived from a static table, so queries are O(1)
// and never depend on how the states are numbered.
//
//	UNRENDERED ──render──► UNATTACHED ──attach──► ATTACHED_SHOWN
//	     ▲                     ▲                      │
//	     └────destroyLayer─────┘◄──────detach─────────┘
package lifecycle

import "fmt"

// State is one of the twelve lifecycle states of a view node.
type State uint8

const (
	// Unrendered means the node has no layer.
	Unrendered State = iota
	// Unattached means the node has a layer that is not in the document.
	Unattached
	// UnattachedByParent means the node's layer sits inside its parent's
	// layer and the parent is not in the document.
	UnattachedByParent
	// AttachedShown is the resting visible state.
	AttachedShown
	// AttachedShownAnimating is AttachedShown while a layout animation that
	// is not a transition runs.
	AttachedShownAnimating
	// AttachedHidden means the node is in the document and hidden on its own
	// authority.
	AttachedHidden
	// AttachedHiddenByParent means the node wants to be visible but an
	// ancestor is hidden.
	AttachedHiddenByParent
	// AttachedBuildingIn means the enter transition is running.
	AttachedBuildingIn
	// AttachedBuildingOut means the node was detached and its removal waits
	// on its own exit transition and/or its descendants'.
	AttachedBuildingOut
	// AttachedBuildingOutByParent means the node runs its exit transition
	// because an ancestor is being detached.
	AttachedBuildingOutByParent
	// AttachedShowing means the show transition is running.
	AttachedShowing
	// AttachedHiding means the hide transition is running.
	AttachedHiding

	numStates
)

// Flag is a membership flag implied by a state.
type Flag uint8

const (
	// Rendered is set when the node owns a layer.
	Rendered Flag = 1 << iota
	// Attached is set when the node's layer is in the document.
	Attached
	// Shown is set when the node is visible (or still visible while it
	// transitions).
	Shown
	// Hidden is set when the node is in the document but not visible.
	Hidden
)

// Flags is a set of Flag values.
type Flags uint8

// Has reports whether every flag in f is present.
func (s Flags) Has(f Flag) bool {
	return Flags(f)&s == Flags(f)
}

func (s Flags) String() string {
	out := ""
	for _, f := range []struct {
		flag Flag
		name string
	}{{Rendered, "rendered"}, {Attached, "attached"}, {Shown, "shown"}, {Hidden, "hidden"}} {
		if !s.Has(f.flag) {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += f.name
	}
	if out == "" {
		return "none"
	}
	return out
}

const (
	rendered         = Flags(Rendered)
	renderedAttached = Flags(Rendered | Attached)
	attachedShown    = Flags(Rendered | Attached | Shown)
	attachedHidden   = Flags(Rendered | Attached | Hidden)
)

var stateFlags = [numStates]Flags{
	Unrendered:                  0,
	Unattached:                  rendered,
	UnattachedByParent:          rendered,
	AttachedShown:               attachedShown,
	AttachedShownAnimating:      attachedShown,
	AttachedHidden:              attachedHidden,
	AttachedHiddenByParent:      attachedHidden,
	AttachedBuildingIn:          attachedShown,
	AttachedBuildingOut:         attachedShown,
	AttachedBuildingOutByParent: attachedShown,
	AttachedShowing:             attachedShown,
	AttachedHiding:              attachedShown,
}

var stateNames = [numStates]string{
	Unrendered:                  "UNRENDERED",
	Unattached:                  "UNATTACHED",
	UnattachedByParent:          "UNATTACHED_BY_PARENT",
	AttachedShown:               "ATTACHED_SHOWN",
	AttachedShownAnimating:      "ATTACHED_SHOWN_ANIMATING",
	AttachedHidden:              "ATTACHED_HIDDEN",
	AttachedHiddenByParent:      "ATTACHED_HIDDEN_BY_PARENT",
	AttachedBuildingIn:          "ATTACHED_BUILDING_IN",
	AttachedBuildingOut:         "ATTACHED_BUILDING_OUT",
	AttachedBuildingOutByParent: "ATTACHED_BUILDING_OUT_BY_PARENT",
	AttachedShowing:             "ATTACHED_SHOWING",
	AttachedHiding:              "ATTACHED_HIDING",
}

var statesByName = func() map[string]State {
	m := make(map[string]State, numStates)
	for s, name := range stateNames {
		m[name] = State(s)
	}
	return m
}()

// String returns the canonical upper-case name of the state.
func (s State) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Valid reports whether s is one of the twelve defined states.
func (s State) Valid() bool {
	return s < numStates
}

// Flags returns the membership flags implied by s.
func (s State) Flags() Flags {
	if s < numStates {
		return stateFlags[s]
	}
	return 0
}

// IsRendered reports whether a node in state s owns a layer.
func IsRendered(s State) bool { return s.Flags().Has(Rendered) }

// IsAttached reports whether a node in state s is in the document.
func IsAttached(s State) bool { return s.Flags().Has(Attached) }

// IsShown reports whether a node in state s is visible.
func IsShown(s State) bool { return s.Flags().Has(Shown) }

// IsHidden reports whether a node in state s is in the document but hidden.
func IsHidden(s State) bool { return s.Flags().Has(Hidden) }

// IsByParent reports whether s records a condition driven by an ancestor.
func IsByParent(s State) bool {
	switch s {
	case UnattachedByParent, AttachedHiddenByParent, AttachedBuildingOutByParent:
		return true
	}
	return false
}

// IsTransitioning reports whether s is one of the states in which a
// transition plugin may be running.
func IsTransitioning(s State) bool {
	switch s {
	case AttachedBuildingIn, AttachedBuildingOut, AttachedBuildingOutByParent,
		AttachedShowing, AttachedHiding:
		return true
	}
	return false
}

// All returns every state in declaration order.
func All() []State {
	out := make([]State, numStates)
	for i := range out {
		out[i] = State(i)
	}
	return out
}

// ParseState returns the state with the given canonical name.
func ParseState(name string) (State, error) {
	if s, ok := statesByName[name]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("lifecycle: unknown state %q", name)
}
