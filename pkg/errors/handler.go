package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler receives every report. Replace it with SetHandler.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler installs h and returns the handler it replaced. A nil h
// reinstalls a LogHandler on stderr.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	prev := DefaultHandler
	DefaultHandler = h
	handlerMu.Unlock()
	return prev
}

func getHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report delivers err, stamping it with the current time if unset.
func Report(err *ViewError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleError(err)
	}
}

// ReportPanic delivers a recovered panic.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if h := getHandler(); h != nil {
		h.HandlePanic(err)
	}
}

// ReportDiagnostic delivers d unless it is assert-tier and debug mode is off.
func ReportDiagnostic(d *Diagnostic) {
	if d == nil || (d.Severity == SeverityAssert && !DebugMode()) {
		return
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleDiagnostic(d)
	}
}

func diagnose(sev Severity, op, node, state, format string, args []any) {
	ReportDiagnostic(&Diagnostic{
		Op:       op,
		Severity: sev,
		Node:     node,
		State:    state,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Assert reports a debug-only diagnostic. The message is not formatted
// when debug mode is off.
func Assert(op, node, state, format string, args ...any) {
	if DebugMode() {
		diagnose(SeverityAssert, op, node, state, format, args)
	}
}

// Warn reports a diagnostic in every build.
func Warn(op, node, state, format string, args ...any) {
	diagnose(SeverityWarn, op, node, state, format, args)
}

// Recover reports a panic in the calling function and swallows it.
//
//	defer errors.Recover("view.hook.DidAppendToDocument")
func Recover(op string) {
	if r := recover(); r != nil {
		recovered(op, r)
	}
}

// RecoverWithCallback is Recover followed by callback(r), so the caller can
// repair state the panic left behind.
func RecoverWithCallback(op string, callback func(r any)) {
	if r := recover(); r != nil {
		recovered(op, r)
		if callback != nil {
			callback(r)
		}
	}
}

func recovered(op string, r any) {
	ReportPanic(&PanicError{
		Op:         op,
		Value:      r,
		StackTrace: stack(4),
		Timestamp:  time.Now(),
	})
}

// stack renders the goroutine's stack, one "function\n\tfile:line" entry
// per frame, skipping the innermost skip frames.
func stack(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			return sb.String()
		}
	}
}
