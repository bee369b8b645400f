//go:build !linux

package agg

// pinLane is a no-op where thread affinity is not supported.
func pinLane(int) bool { return false }
