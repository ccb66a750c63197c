package errors

import "sync/atomic"

var debugMode atomic.Bool

func init() {
	debugMode.Store(debugDefault)
}

// DebugMode reports whether assert-tier diagnostics are delivered. It
// defaults to true, or false in binaries built with the release tag.
func DebugMode() bool {
	return debugMode.Load()
}

// SetDebugMode enables or disables assert-tier diagnostics and returns the
// previous setting.
func SetDebugMode(on bool) bool {
	return debugMode.Swap(on)
}
