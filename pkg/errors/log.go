package errors

import (
	"context"
	"log/slog"
	"os"
)

// LogHandler is an ErrorHandler that logs through slog, to stderr unless
// Logger is set.
type LogHandler struct {
	// Logger receives the records. Nil means a text logger on stderr.
	Logger *slog.Logger
	// Verbose adds stack traces to error and panic records.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// HandleError logs a ViewError.
func (h *LogHandler) HandleError(err *ViewError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "kind", err.Kind.String(), "err", err.Err}
	if err.Node != "" {
		attrs = append(attrs, "node", err.Node, "state", err.State)
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("viewtree error", attrs...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("viewtree panic", attrs...)
}

// HandleDiagnostic logs a Diagnostic at debug level for asserts and warn
// level for warnings.
func (h *LogHandler) HandleDiagnostic(d *Diagnostic) {
	if d == nil {
		return
	}
	level := slog.LevelWarn
	if d.Severity == SeverityAssert {
		level = slog.LevelDebug
	}
	attrs := []any{"op", d.Op}
	if d.Node != "" {
		attrs = append(attrs, "node", d.Node, "state", d.State)
	}
	h.logger().Log(context.Background(), level, d.Message, attrs...)
}
