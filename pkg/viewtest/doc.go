// Package viewtest provides helpers for testing code built on pkg/view:
// a fake clock that doubles as a timer source, a harness wiring a tree to
// an in-memory renderer, a transition plugin completed by hand, a hook
// recorder and a structural invariant checker.
package viewtest
