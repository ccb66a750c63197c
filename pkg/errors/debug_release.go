//go:build release

package errors

const debugDefault = false
