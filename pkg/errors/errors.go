// Package errors provides structured error and diagnostic reporting for the
// view tree.
//
// Lifecycle actions never return errors: calling an action from a state in
// which it means nothing is a no-op. Misuse that a developer should hear
// about is reported as a [Diagnostic] through the global [ErrorHandler]
// instead. Diagnostics come in two tiers: [SeverityAssert] is only reported
// while [DebugMode] is on, [SeverityWarn] is always reported.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindLifecycle indicates a lifecycle action problem.
	KindLifecycle
	// KindTransition indicates a transition plugin problem.
	KindTransition
	// KindRender indicates a renderer problem.
	KindRender
	// KindConfig indicates a configuration problem.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindLifecycle:
		return "lifecycle"
	case KindTransition:
		return "transition"
	case KindRender:
		return "render"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ViewError is a structured error raised while driving a view.
type ViewError struct {
	// Op is the operation that failed (e.g., "view.Attach").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Node names the view involved, if any.
	Node string
	// State is the view's state name at the time of the error.
	State string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ViewError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s [%s] node=%s state=%s: %v", e.Op, e.Kind, e.Node, e.State, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "view.hook.DidAppendToDocument").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Severity is the tier of a developer diagnostic.
type Severity int

const (
	// SeverityAssert marks misuse that is silent in release builds.
	SeverityAssert Severity = iota
	// SeverityWarn marks misuse that is always reported.
	SeverityWarn
)

func (s Severity) String() string {
	if s == SeverityWarn {
		return "warn"
	}
	return "assert"
}

// Diagnostic is a non-fatal report about developer misuse. The action that
// produced it has already recovered (or ignored the call) by the time it is
// delivered.
type Diagnostic struct {
	Op        string
	Severity  Severity
	Node      string
	State     string
	Message   string
	Timestamp time.Time
}

func (d *Diagnostic) String() string {
	if d.Node != "" {
		return fmt.Sprintf("%s %s node=%s state=%s: %s", d.Severity, d.Op, d.Node, d.State, d.Message)
	}
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Op, d.Message)
}

// ErrorHandler receives everything reported by the view tree.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ViewError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleDiagnostic is called for developer diagnostics.
	HandleDiagnostic(d *Diagnostic)
}
