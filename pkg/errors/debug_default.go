//go:build !release

package errors

const debugDefault = true
